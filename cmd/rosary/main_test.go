package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// device runs commands against one badger directory so state carries
// over between invocations.
type device struct {
	t   *testing.T
	dir string
}

func newDevice(t *testing.T) *device {
	return &device{t: t, dir: t.TempDir()}
}

func (d *device) run(args ...string) (string, error) {
	d.t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--backend", "badger",
		"--data-dir", filepath.Join(d.dir, "device"),
		"--env-file", filepath.Join(d.dir, "none.env"),
		"--log-level", "error",
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (d *device) mustRun(args ...string) string {
	d.t.Helper()
	out, err := d.run(args...)
	require.NoError(d.t, err, out)
	return out
}

// addedID pulls the id out of an "added <kind> <id>" line.
func addedID(t *testing.T, out, kind string) string {
	t.Helper()
	var id int64
	_, err := fmt.Sscanf(out, "added "+kind+" %d", &id)
	require.NoError(t, err, out)
	return strconv.FormatInt(id, 10)
}

func TestProgressCommands(t *testing.T) {
	d := newDevice(t)

	assert.Contains(t, d.mustRun("status"), "Prima Oratio (1/5)")
	assert.Contains(t, d.mustRun("next"), "Mysteria Gaudiosa (2/5), mystery 1/5")
	assert.Contains(t, d.mustRun("next"), "mystery 2/5")
	assert.Contains(t, d.mustRun("prev"), "mystery 1/5")

	assert.Contains(t, d.mustRun("jump", "gloriosa", "4"), "Mysteria Gloriosa (4/5), mystery 4/5")
	assert.Contains(t, d.mustRun("section", "ultima"), "Ultima Oratio (5/5)")

	status := d.mustRun("status")
	assert.Contains(t, status, "gloriosa  4/5")
	assert.Contains(t, status, "records: guest")

	assert.Contains(t, d.mustRun("reset"), "Prima Oratio (1/5)")
}

func TestProgressCommands_BadInput(t *testing.T) {
	d := newDevice(t)

	_, err := d.run("section", "nowhere")
	assert.ErrorContains(t, err, "unknown section")

	_, err = d.run("jump", "initium", "1")
	assert.Error(t, err)

	_, err = d.run("jump", "gaudiosa", "first")
	assert.ErrorContains(t, err, "invalid mystery")
}

func TestIntentionCommands(t *testing.T) {
	d := newDevice(t)

	assert.Contains(t, d.mustRun("intentions"), "no intentions")
	first := addedID(t, d.mustRun("intentions", "add", "Pela", "minha", "família"), "intention")
	second := addedID(t, d.mustRun("intentions", "add", "Pelos doentes"), "intention")

	list := d.mustRun("intentions", "list")
	assert.Contains(t, list, first+"\tPela minha família")
	assert.Contains(t, list, second+"\tPelos doentes")

	assert.Contains(t, d.mustRun("intentions", "rm", first), "removed intention "+first)
	assert.NotContains(t, d.mustRun("intentions"), "família")

	_, err := d.run("intentions", "rm", "abc")
	assert.ErrorContains(t, err, "invalid id")
}

func TestPrayerCommands(t *testing.T) {
	d := newDevice(t)

	id := addedID(t, d.mustRun("prayers", "add", "--title", "Oração da manhã", "--section", "initium", "Senhor, abençoai este dia"), "prayer")

	_, err := d.run("prayers", "add", "--title", "Misterio", "--section", "gaudiosa", "texto")
	assert.Error(t, err)

	assert.Contains(t, d.mustRun("prayers", "edit", id, "--section", "ultima"), "updated prayer "+id)
	assert.Contains(t, d.mustRun("prayers"), id+"\t[ultima]\tOração da manhã")

	_, err = d.run("prayers", "edit", id)
	assert.ErrorContains(t, err, "nothing to change")

	d.mustRun("prayers", "rm", id)
	assert.Contains(t, d.mustRun("prayers", "list"), "no custom prayers")
}

func TestFontCommand(t *testing.T) {
	d := newDevice(t)

	assert.Contains(t, d.mustRun("font"), "font: lg (20px)")
	assert.Contains(t, d.mustRun("font", "larger"), "font: xl (24px)")
	assert.Contains(t, d.mustRun("font", "4xl"), "font: 4xl (48px)")
	assert.Contains(t, d.mustRun("font", "larger"), "font: 4xl")
	assert.Contains(t, d.mustRun("font", "smaller"), "font: 3xl")

	_, err := d.run("font", "huge")
	assert.ErrorContains(t, err, "unknown font size")
}

func TestSongsCommand(t *testing.T) {
	d := newDevice(t)

	all := d.mustRun("songs")
	assert.Contains(t, all, "credo")
	assert.Contains(t, all, "magnificat")

	found := d.mustRun("songs", "magnificat")
	assert.Contains(t, found, "magnificat")
	assert.NotContains(t, found, "credo")
}

func TestListenCommand_UnknownSong(t *testing.T) {
	d := newDevice(t)
	_, err := d.run("listen", "not-a-song", "--audio-dir", t.TempDir())
	assert.ErrorContains(t, err, "unknown song")
}
