package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReference(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expect      *Reference
		expectErr   bool
	}{
		{description: "env", input: "hibernator+secret://env/DB_PASSWORD", expect: &Reference{Provider: "env", Path: "DB_PASSWORD"}},
		{description: "nested path", input: "hibernator+secret://vault/app/db/password", expect: &Reference{Provider: "vault", Path: "app/db/password"}},
		{description: "with key", input: "hibernator+secret://scy/db.json?key=password", expect: &Reference{Provider: "scy", Path: "db.json", Key: "password"}},
		{description: "empty path", input: "hibernator+secret://env/", expectErr: true},
		{description: "missing path", input: "hibernator+secret://env", expectErr: true},
		{description: "missing provider", input: "hibernator+secret:///FOO", expectErr: true},
		{description: "wrong scheme", input: "secret://env/FOO", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, err := ParseReference(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tc.expect, actual)
		})
	}
}

func TestReference_String(t *testing.T) {
	ref := &Reference{Provider: "scy", Path: "db.json", Key: "password"}
	parsed, err := ParseReference(ref.String())
	assert.NoError(t, err)
	assert.EqualValues(t, ref, parsed)
}
