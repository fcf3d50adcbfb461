package main

import (
	"bytes"
	"os"
	"path"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()

	rootCmd := newRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	return rootCmd.Execute()
}

func TestMissingFileArgument(t *testing.T) {
	err := execute(t)
	assert.ErrorContains(t, err, "missing project file argument")
}

func TestUnreadableFile(t *testing.T) {
	err := execute(t, "--check", path.Join(t.TempDir(), "nonexistent.sb3"))
	assert.Assert(t, os.IsNotExist(err))
}

func TestCheckValidProject(t *testing.T) {
	filename := path.Join(t.TempDir(), "project.json")
	projectJSON := `{"targets": [{"isStage": true, "name": "Stage", "blocks": {}}], "meta": {}}`
	assert.NilError(t, os.WriteFile(filename, []byte(projectJSON), 0o600))

	assert.NilError(t, execute(t, "--check", filename))
}

func TestCheckInvalidProject(t *testing.T) {
	filename := path.Join(t.TempDir(), "project.json")
	assert.NilError(t, os.WriteFile(filename, []byte("not a project"), 0o600))

	err := execute(t, "--check", filename)
	assert.ErrorContains(t, err, "decoding project.json")
}

func TestVersion(t *testing.T) {
	rootCmd := newRootCommand()
	rootCmd.SetArgs([]string{"--version"})

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)

	assert.NilError(t, rootCmd.Execute())
	assert.Assert(t, strings.Contains(stdout.String(), versionString))
}
