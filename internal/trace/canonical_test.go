package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", `"hello"`},
		{"no html escaping", "<a&b>", `"<a&b>"`},
		{"int", 42, `42`},
		{"int64", int64(-7), `-7`},
		{"bool", true, `true`},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
		{"empty slice", []any{}, `[]`},
		{"sorted keys", map[string]any{"b": 1, "a": 2, "A": 3}, `{"A":3,"a":2,"b":1}`},
		{"nested", map[string]any{"x": []any{"y", map[string]any{"z": false}}}, `{"x":["y",{"z":false}]}`},
		{"nfc", "e\u0301", "\"\u00e9\""},
		{"line separator", "a\u2028b", "\"a\u2028b\""},
		{"escaped backslash kept", `\u2028`, `"\\u2028"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MarshalCanonical(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	for _, in := range []any{nil, 1.5, struct{}{}, map[string]any{"k": nil}} {
		_, err := MarshalCanonical(in)
		assert.Error(t, err, "%#v", in)
	}
}

func TestMarshalCanonical_UTF16Order(t *testing.T) {
	// U+1F600 sorts before U+FB01 by UTF-16 code units but after it by UTF-8 bytes.
	got, err := MarshalCanonical(map[string]any{"\uFB01": 2, "\U0001F600": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":1,\"\uFB01\":2}", string(got))
}

func TestMarshalLines(t *testing.T) {
	events := []Event{
		{Seq: 1, Type: EventWill, Command: "push(a)", Path: []string{}},
		{Seq: 2, Type: EventChange, Path: []string{"a"}},
		{Seq: 3, Type: EventDid, Command: "push(a)", Result: "success", Path: []string{"a"}},
	}

	got, err := MarshalLines(events)
	require.NoError(t, err)
	assert.Equal(t,
		`{"command":"push(a)","path":[],"seq":1,"type":"will"}`+"\n"+
			`{"path":["a"],"seq":2,"type":"change"}`+"\n"+
			`{"command":"push(a)","path":["a"],"result":"success","seq":3,"type":"did"}`+"\n",
		string(got))
}
