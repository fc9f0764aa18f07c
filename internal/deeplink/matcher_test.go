package deeplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRoute struct {
	name string
	id   string
}

func TestMatcher_FirstMatchWins(t *testing.T) {
	m := NewMatcher[testRoute]()
	require.NoError(t, m.Handle("/products/featured", Static(testRoute{name: "featured"})))
	require.NoError(t, m.Handle("/products/:id", func(p Params) (testRoute, bool) {
		return testRoute{name: "product", id: p.Get("id")}, true
	}))

	r, ok := m.Resolve(mustParse(t, "/products/featured"))
	require.True(t, ok)
	assert.Equal(t, testRoute{name: "featured"}, r)

	r, ok = m.Resolve(mustParse(t, "/products/42"))
	require.True(t, ok)
	assert.Equal(t, testRoute{name: "product", id: "42"}, r)
}

func TestMatcher_HandlerRejectionFallsThrough(t *testing.T) {
	m := NewMatcher[testRoute]()
	require.NoError(t, m.Handle("/products/:id", func(p Params) (testRoute, bool) {
		id := p.Get("id")
		for _, c := range id {
			if c < '0' || c > '9' {
				return testRoute{}, false
			}
		}
		return testRoute{name: "product", id: id}, true
	}))
	require.NoError(t, m.Handle("/products/:slug", func(p Params) (testRoute, bool) {
		return testRoute{name: "slug", id: p.Get("slug")}, true
	}))

	r, ok := m.Resolve(mustParse(t, "/products/blue-shirt"))
	require.True(t, ok)
	assert.Equal(t, testRoute{name: "slug", id: "blue-shirt"}, r)
}

func TestMatcher_NoMatch(t *testing.T) {
	m := NewMatcher[testRoute]()
	require.NoError(t, m.Handle("/a", Static(testRoute{name: "a"})))

	r, ok := m.Resolve(mustParse(t, "/b"))
	assert.False(t, ok)
	assert.Equal(t, testRoute{}, r)

	_, ok = NewMatcher[testRoute]().Resolve(mustParse(t, "/a"))
	assert.False(t, ok, "empty matcher resolves nothing")
}

func TestMatcher_HandleRejectsBadTemplate(t *testing.T) {
	m := NewMatcher[testRoute]()
	err := m.Handle("/x/:", Static(testRoute{}))
	require.Error(t, err)
	assert.True(t, IsPatternError(err))
	assert.Equal(t, 0, m.Len())
}

func TestMatcher_QueryParamsReachHandler(t *testing.T) {
	m := NewMatcher[testRoute]()
	m.Add(MustCompile("/search"), func(p Params) (testRoute, bool) {
		q := p.Get("q")
		return testRoute{name: "search", id: q}, q != ""
	})

	r, ok := m.Resolve(mustParse(t, "/search?q=boots"))
	require.True(t, ok)
	assert.Equal(t, "boots", r.id)

	_, ok = m.Resolve(mustParse(t, "/search"))
	assert.False(t, ok)
}
