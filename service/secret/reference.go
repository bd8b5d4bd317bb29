package secret

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/viant/parsly"
)

// Scheme is the marker identifying a secret reference.
const Scheme = "hibernator+secret"

// Prefix is the scheme followed by the authority separator.
const Prefix = Scheme + "://"

// Reference is a parsed secret reference.
type Reference struct {
	Provider string
	Path     string
	Key      string
}

// String renders the reference back to its canonical form.
func (r *Reference) String() string {
	ret := Prefix + r.Provider + "/" + r.Path
	if r.Key != "" {
		ret += "?key=" + url.QueryEscape(r.Key)
	}
	return ret
}

// IsReference reports whether value carries the reference scheme.
func IsReference(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// ParseReference parses hibernator+secret://<provider>/<path>[?key=<k>].
func ParseReference(value string) (*Reference, error) {
	cursor := parsly.NewCursor("", []byte(value), 0)
	ref := &Reference{}

	if cursor.MatchOne(schemeToken).Code != schemeCode {
		return nil, cursor.NewError(schemeToken)
	}

	matched := cursor.MatchOne(providerToken)
	if matched.Code != providerCode {
		return nil, cursor.NewError(providerToken)
	}
	ref.Provider = matched.Text(cursor)

	if cursor.MatchOne(slashToken).Code != slashCode {
		return nil, cursor.NewError(slashToken)
	}

	matched = cursor.MatchOne(pathToken)
	if matched.Code != pathCode {
		return nil, cursor.NewError(pathToken)
	}
	ref.Path = strings.TrimLeft(matched.Text(cursor), "/")
	if ref.Path == "" {
		return nil, fmt.Errorf("secret reference %q has empty path", value)
	}

	matched = cursor.MatchOne(queryToken)
	if matched.Code == queryCode {
		query, err := url.ParseQuery(strings.TrimPrefix(matched.Text(cursor), "?"))
		if err != nil {
			return nil, fmt.Errorf("invalid query in secret reference %q: %w", value, err)
		}
		ref.Key = query.Get("key")
	}
	return ref, nil
}
