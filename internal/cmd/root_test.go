package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cargofree/cargo-free/internal/core/engine"
)

func TestRootWithoutNamesFails(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--no-progress"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := Execute()
	require.ErrorIs(t, err, engine.ErrNoNames)
	require.Empty(t, out.String())
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, Execute())
	require.True(t, strings.HasPrefix(out.String(), BinaryName+" "))
}
