package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/colorsquares/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "desktop", opts.mode)
	assert.Equal(t, game.DefaultSettings(), opts.settings)

	opts, err = parseFlags([]string{"-mode", "headless", "-colors", "7", "-speed", "3", "-squares", "40", "-ticks", "10"})
	require.NoError(t, err)
	assert.Equal(t, game.Settings{Colors: 7, Speed: 3, Total: 40}, opts.settings)
	assert.Equal(t, 10, opts.ticks)

	_, err = parseFlags([]string{"-mode", "web"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-colors", "6"})
	assert.ErrorIs(t, err, game.ErrInvalidSettings)
}

func TestRunHeadless(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts, err := parseFlags([]string{"-mode", "headless", "-ticks", "120", "-frame-every", "60", "-out", dir})
	require.NoError(t, err)

	require.NoError(t, run(opts))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
