package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	flagCheck, flagWrite, flagStdin, flagCompact, flagExpanded, flagTabs, flagQuiet, flagVersion = false, false, false, false, false, false, false, false
	flagOutput, flagIndent = "", 0
}

func TestRunFormatsToStdout(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "in.pq")
	require.NoError(t, os.WriteFile(path, []byte("let x=1 in x"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	err := run(rootCmd, []string{path})
	require.NoError(t, err)
	require.Equal(t, "let\n    x = 1\nin\n    x\n", out.String())
}

func TestRunCheckModeReportsDifference(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "in.pq")
	require.NoError(t, os.WriteFile(path, []byte("let x=1 in x"), 0o644))

	flagCheck = true
	err := run(rootCmd, []string{path})
	require.Error(t, err)
	ce, ok := err.(*cliError)
	require.True(t, ok)
	require.Equal(t, 1, ce.code)
}

func TestRunCheckModeClean(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "in.pq")
	require.NoError(t, os.WriteFile(path, []byte("let\n    x = 1\nin\n    x\n"), 0o644))

	flagCheck = true
	err := run(rootCmd, []string{path})
	require.NoError(t, err)
}

func TestRunWriteUpdatesFile(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "in.pq")
	require.NoError(t, os.WriteFile(path, []byte("let x=1 in x"), 0o644))

	flagWrite = true
	err := run(rootCmd, []string{path})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "let\n    x = 1\nin\n    x\n", string(got))
}

func TestRunWriteWithoutPathFails(t *testing.T) {
	resetFlags(t)
	flagWrite = true
	err := run(rootCmd, nil)
	require.Error(t, err)
}

func TestRunParseErrorYieldsExitCode2(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "in.pq")
	require.NoError(t, os.WriteFile(path, []byte("let x = in x"), 0o644))

	err := run(rootCmd, []string{path})
	require.Error(t, err)
	ce, ok := err.(*cliError)
	require.True(t, ok)
	require.Equal(t, 2, ce.code)
}

func TestRunCompactAndExpandedConflict(t *testing.T) {
	resetFlags(t)
	flagCompact, flagExpanded = true, true
	dir := t.TempDir()
	path := filepath.Join(dir, "in.pq")
	require.NoError(t, os.WriteFile(path, []byte("1"), 0o644))
	err := run(rootCmd, []string{path})
	require.Error(t, err)
}

func TestRunOutputFlagWritesToPath(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pq")
	out := filepath.Join(dir, "out.pq")
	require.NoError(t, os.WriteFile(in, []byte("let x=1 in x"), 0o644))

	flagOutput = out
	err := run(rootCmd, []string{in})
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "let\n    x = 1\nin\n    x\n", string(got))
}
