package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFieldsCommand(t *testing.T) {
	out, err := run(t, "fields", "ipv4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2+13)
	assert.Equal(t, "IPv4 Header", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "FIELD"))
	assert.Contains(t, out, "64 hops (common default)")
	assert.Contains(t, out, "Variable (0-40 bytes)")
}

func TestFieldsCommandUnknownVariant(t *testing.T) {
	_, err := run(t, "fields", "ipv5")
	assert.Error(t, err)
}

func TestServeRejectsPortOverride(t *testing.T) {
	t.Cleanup(func() {
		servePort = 8080
		serveCmd.Flags().Lookup("port").Changed = false
	})

	for _, port := range []string{"0", "70000"} {
		_, err := run(t, "serve", "-p", port)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ipxplorer dev\n", out)
}
