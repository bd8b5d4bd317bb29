package secret

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	schemeCode = iota + 1
	providerCode
	slashCode
	pathCode
	queryCode
)

var (
	schemeToken   = parsly.NewToken(schemeCode, "Scheme", matcher.NewFragment(Prefix))
	providerToken = parsly.NewToken(providerCode, "Provider", &providerMatcher{})
	slashToken    = parsly.NewToken(slashCode, "/", matcher.NewByte('/'))
	pathToken     = parsly.NewToken(pathCode, "Path", &pathMatcher{})
	queryToken    = parsly.NewToken(queryCode, "Query", &queryMatcher{})
)

// providerMatcher matches a provider name: letters, digits, '-', '_' and '.'.
type providerMatcher struct{}

func (m *providerMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		c := input[i]
		if isLetter(c) || isDigit(c) || c == '-' || c == '_' || c == '.' {
			matched++
			continue
		}
		break
	}
	return matched
}

// pathMatcher captures everything up to the query separator.
type pathMatcher struct{}

func (m *pathMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if cursor.Input[i] == '?' || cursor.Input[i] == '#' {
			break
		}
		matched++
	}
	return matched
}

// queryMatcher captures '?' and the remainder of the input.
type queryMatcher struct{}

func (m *queryMatcher) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize || cursor.Input[cursor.Pos] != '?' {
		return 0
	}
	return cursor.InputSize - cursor.Pos
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
