package links

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		onDefault bool
		wantErr   error
	}{
		{name: "single character", key: "a"},
		{name: "mixed case", key: "MyLink"},
		{name: "with hyphen and underscore", key: "my-cool_link"},
		{name: "with dot", key: "v1.2"},
		{name: "nested path", key: "docs/getting-started"},
		{name: "reserved word on custom domain", key: "api", onDefault: false},
		{name: "reserved word as substring", key: "apis", onDefault: true},

		{name: "empty", key: "", wantErr: ErrKeyFormat},
		{name: "space", key: "my link", wantErr: ErrKeyFormat},
		{name: "leading slash", key: "/foo", wantErr: ErrKeyFormat},
		{name: "trailing slash", key: "foo/", wantErr: ErrKeyFormat},
		{name: "double slash", key: "foo//bar", wantErr: ErrKeyFormat},
		{name: "dot segment", key: "foo/../bar", wantErr: ErrKeyFormat},
		{name: "query characters", key: "foo?x=1", wantErr: ErrKeyFormat},
		{name: "too long", key: strings.Repeat("a", MaxKeyLength+1), wantErr: ErrKeyTooLong},

		{name: "reserved on default domain", key: "api", onDefault: true, wantErr: ErrKeyReserved},
		{name: "reserved ignores case", key: "Docs", onDefault: true, wantErr: ErrKeyReserved},
		{name: "reserved first segment", key: "metrics/x", onDefault: true, wantErr: ErrKeyReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key, tt.onDefault)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateKey_MaxLength(t *testing.T) {
	assert.NoError(t, ValidateKey(strings.Repeat("a", MaxKeyLength), false))
}

func TestJoinPrefix(t *testing.T) {
	assert.Equal(t, "abc", JoinPrefix("", "abc"))
	assert.Equal(t, "abc", JoinPrefix("/", "abc"))
	assert.Equal(t, "blog/abc", JoinPrefix("blog", "abc"))
	assert.Equal(t, "blog/abc", JoinPrefix("/blog/", "abc"))
}

func TestGenerateKey(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		k, err := GenerateKey(GeneratedKeyLength)
		require.NoError(t, err)
		assert.Len(t, k, GeneratedKeyLength)
		assert.NoError(t, ValidateKey(k, false))
		seen[k] = true
	}
	assert.Greater(t, len(seen), 45)
}
