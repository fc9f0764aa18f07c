package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoutes = filepath.Join("testdata", "routes.cue")

func TestResolveText(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"plan", []string{testRoutes, "shop://shop.example/products/42"}, "plan: push(product:42)\n"},
		{"plan case-folded scheme", []string{testRoutes, "SHOP://Shop.Example/cart"}, "plan: push(cart)\n"},
		{"wildcard", []string{testRoutes, "https://shop.example/help/returns/faq"}, "plan: push(help)\n"},
		{"pending", []string{testRoutes, "shop://shop.example/orders/9"}, "pending: order:9 requires sign in\n"},
		{"authenticated", []string{testRoutes, "shop://shop.example/orders/9", "--authenticated"}, "plan: push(order:9)\n"},
		{"bad scheme", []string{testRoutes, "ftp://shop.example/cart"}, "rejected (scheme): ftp://shop.example/cart\n"},
		{"bad host", []string{testRoutes, "shop://evil.example/cart"}, "rejected (host): shop://evil.example/cart\n"},
		{"malformed", []string{testRoutes, "shop://shop.example/%zz"}, "rejected (malformed): shop://shop.example/%zz\n"},
		{"unhandled", []string{testRoutes, "shop://shop.example/nowhere"}, "unhandled: shop://shop.example/nowhere\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			cmd := NewResolveCommand(&RootOptions{Format: "text"})
			cmd.SetOut(buf)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestResolveJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewResolveCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{testRoutes, "shop://shop.example/products/7?ref=mail"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string        `json:"status"`
		Data   ResolveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ResolveResult{
		URL:      "shop://shop.example/products/7?ref=mail",
		Decision: "plan",
		Commands: []string{"push(product:7)"},
	}, resp.Data)
}

func TestResolveStrict(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"plan passes", "shop://shop.example/cart", false},
		{"pending passes", "shop://shop.example/orders/1", false},
		{"rejected fails", "ftp://shop.example/cart", true},
		{"unhandled fails", "shop://shop.example/nowhere", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewResolveCommand(&RootOptions{Format: "text"})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs([]string{testRoutes, tt.url, "--strict"})

			err := cmd.Execute()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
		})
	}
}

func TestResolveRoutesFromConfig(t *testing.T) {
	rootOpts := &RootOptions{Format: "text"}
	rootOpts.config().Routes = testRoutes

	buf := &bytes.Buffer{}
	cmd := NewResolveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"shop://shop.example/cart"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "plan: push(cart)\n", buf.String())
}

func TestResolveMissingRoutes(t *testing.T) {
	t.Run("no table configured", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewResolveCommand(&RootOptions{Format: "text"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{"shop://shop.example/cart"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, buf.String(), "Error [E002]")
	})

	t.Run("file missing", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewResolveCommand(&RootOptions{Format: "json"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{"/nonexistent/routes.cue", "shop://shop.example/cart"})

		err := cmd.Execute()
		require.Error(t, err)

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	})
}

func TestResolveArgs(t *testing.T) {
	cmd := NewResolveCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a", "b", "c"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts between 1 and 2 arg(s)")
}
