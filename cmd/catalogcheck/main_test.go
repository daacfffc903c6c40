package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingFiles(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-audio-dir", t.TempDir()}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "credo")
	assert.Contains(t, out.String(), "missing")
	assert.Contains(t, errOut.String(), "songs have problems")
}

func TestRun_SingleSongCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "songs.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[song]]
id = "credo"
title = "Credo"
latin = "Credo in unum Deum"
duration = "3:10"
path = "/audio/credo-web.mp3"
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credo-web.mp3"), []byte("not audio"), 0o600))

	var out, errOut bytes.Buffer
	code := run([]string{"-audio-dir", dir, "-catalog", path}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "error:")
	assert.NotContains(t, out.String(), "missing")
}

func TestRun_BadFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run([]string{"-nope"}, &out, &errOut))
}
