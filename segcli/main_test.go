package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/scorekit/internal/metastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOp(t *testing.T) {
	op := parseOp("LY  MusicVoice")
	assert.Equal(t, LY, op.code)
	v, ok := op.arg(0)
	assert.True(t, ok)
	assert.Equal(t, "MusicVoice", v)
	_, ok = op.arg(1)
	assert.False(t, ok)
	assert.Equal(t, HELP, parseOp("engrave").code)
}

func TestInterpreterSession(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.cli")
	defer teardown()
	//
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	a := write("a.toml", `
[segment]
name = "A"
template = "single-staff"
time_signatures = ["2/4", "2/4"]
`)
	b := write("b.toml", `
[segment]
name = "B"
template = "single-staff"
time_signatures = ["2/4"]
previous = "A"
`)
	store, err := metastore.NewFileStore(filepath.Join(dir, "meta"))
	require.NoError(t, err)
	intp := &Intp{store: store}
	err, _ = intp.execute(parseOp("run"))
	assert.ErrorIs(t, err, ErrNoDefinition)
	require.NoError(t, intp.load(a))
	_, err = intp.result()
	assert.ErrorIs(t, err, ErrNotRun)
	err, quit := intp.execute(parseOp("run"))
	require.NoError(t, err)
	assert.False(t, quit)
	ly := filepath.Join(dir, "a.ly")
	err, _ = intp.execute(parseOp("save " + ly))
	require.NoError(t, err)
	assert.FileExists(t, ly)
	//
	require.NoError(t, intp.load(b))
	require.NoError(t, intp.run())
	assert.Equal(t, 3, intp.res.Metadata.FirstMeasureNumber)
	_, quit = intp.execute(parseOp("quit"))
	assert.True(t, quit)
}
