package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestSolveCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "instance00.txt")
	out := filepath.Join(dir, "solution00.txt")
	writeFile(t, in, "2\n0 3 3\n3 6 3\n")

	execute(t, "solve", "--input", in, "--output", out, "--format", "txt")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "0\n3\n", string(data))
}

func TestSolveCommandJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "instance00.txt")
	writeFile(t, in, "1\n0 5 3\n")

	got := execute(t, "solve", "--input", in, "--output", "", "--format", "json")
	var plan struct {
		Cost     int         `json:"cost"`
		Schedule map[int]int `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &plan))
	assert.Equal(t, 3, plan.Cost)
	assert.Equal(t, map[int]int{0: 2}, plan.Schedule)
}

func TestSolveCommandUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "instance00.txt")
	writeFile(t, in, "1\n0 5 3\n")
	rootCmd.SetArgs([]string{"solve", "--input", in, "--output", "", "--format", "xml"})
	assert.Error(t, rootCmd.Execute())
}

func TestBatchAndRunsCommands(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgFile, "runlog:\n  backend: jsonl\n  path: "+filepath.Join(dir, "runs.jsonl")+"\nlogging:\n  level: error\n")
	writeFile(t, filepath.Join(dir, "instance03.txt"), "1\n0 5 3\n")

	got := execute(t, "batch", "-c", cfgFile, "--dir", dir, "--first", "2", "--count", "2")
	assert.Contains(t, got, "1 solved, 0 failed, 1 skipped")
	_, err := os.Stat(filepath.Join(dir, "solution03.txt"))
	require.NoError(t, err)

	listing := execute(t, "runs", "-c", cfgFile, "--status", "solved", "--json")
	lines := strings.Split(strings.TrimSpace(listing), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"instance":"instance03.txt"`)
}
