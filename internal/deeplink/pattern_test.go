package deeplink

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCompile_EmptyParameterName(t *testing.T) {
	_, err := Compile("/products/:")
	require.Error(t, err)
	assert.True(t, IsPatternError(err))
	assert.Contains(t, err.Error(), "parameter name is empty")
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("/:/x") })
	assert.NotPanics(t, func() { MustCompile("/x/:id") })
}

func TestPattern_Template(t *testing.T) {
	p := MustCompile("/products/:id")
	assert.Equal(t, "/products/:id", p.Template())
	assert.Equal(t, "/products/:id", p.String())
}

func TestPattern_Match(t *testing.T) {
	testCases := []struct {
		name       string
		template   string
		path       string
		wantOK     bool
		wantParams Params
	}{
		{"parameter", "/products/:id", "/products/123", true, Params{"id": "123"}},
		{"missing segment", "/products/:id", "/products", false, nil},
		{"extra segment", "/products/:id", "/products/123/reviews", false, nil},
		{"literal mismatch", "/products/:id", "/orders/123", false, nil},
		{"case sensitive", "/Products/:id", "/products/123", false, nil},
		{"literal only", "/settings", "/settings", true, Params{}},
		{"trailing slash ignored", "/settings", "/settings/", true, Params{}},
		{"root", "/", "/", true, Params{}},
		{"root does not match child", "/", "/settings", false, nil},
		{"wildcard swallows rest", "/api/*", "/api/v1/users/123", true, Params{}},
		{"wildcard matches nothing", "/api/*", "/api", true, Params{}},
		{"wildcard prefix mismatch", "/api/*", "/web/v1", false, nil},
		{"params before wildcard", "/u/:id/*", "/u/7/posts/1", true, Params{"id": "7"}},
		{"param before wildcard missing", "/u/:id/*", "/u", false, nil},
		{"tokens after wildcard ignored", "/a/*/:never", "/a", true, Params{}},
		{"duplicate names last wins", "/:x/:x", "/first/second", true, Params{"x": "second"}},
		{"raw segment kept", "/search/:q", "/search/a%20b", true, Params{"q": "a%20b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params, ok := MustCompile(tc.template).Match(tc.path)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantParams, params)
		})
	}
}

func TestPattern_MatchURL_MergesQuery(t *testing.T) {
	p := MustCompile("/products/:id")

	params, ok := p.MatchURL(mustParse(t, "https://shop.example.com/products/123?ref=mail&id=999"))
	require.True(t, ok)
	assert.Equal(t, Params{"id": "999", "ref": "mail"}, params, "query overwrites path capture")
}

func TestPattern_MatchURL_RepeatedQueryKeyLastWins(t *testing.T) {
	params, ok := MustCompile("/x").MatchURL(mustParse(t, "/x?tab=a&tab=b"))
	require.True(t, ok)
	assert.Equal(t, "b", params.Get("tab"))
}

func TestPattern_MatchURL_UsesEscapedPath(t *testing.T) {
	params, ok := MustCompile("/files/:name").MatchURL(mustParse(t, "https://h/files/a%2Fb"))
	require.True(t, ok)
	assert.Equal(t, "a%2Fb", params.Get("name"))
}

func TestParams_GetMissing(t *testing.T) {
	assert.Equal(t, "", Params{}.Get("nope"))
}
