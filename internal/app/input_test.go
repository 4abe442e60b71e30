package app

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
)

func TestScreenToCell(t *testing.T) {
	size := core.Size{W: 10, H: 5}

	c, ok := screenToCell(0, 0, 3, size)
	assert.True(t, ok)
	assert.Equal(t, core.Coord{X: 0, Y: 4}, c, "top-left pixel is the top row")

	c, ok = screenToCell(29, 14, 3, size)
	assert.True(t, ok)
	assert.Equal(t, core.Coord{X: 9, Y: 0}, c)

	_, ok = screenToCell(30, 0, 3, size)
	assert.False(t, ok, "the panel right of the map")
	_, ok = screenToCell(-1, 2, 3, size)
	assert.False(t, ok)
}

func TestNextRate(t *testing.T) {
	assert.Equal(t, 20, nextRate(10, true))
	assert.Equal(t, 5, nextRate(10, false))
	assert.Equal(t, 240, nextRate(200, true))
	assert.Equal(t, 1, nextRate(1, false))
}

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := pflag.NewFlagSet("view", pflag.ContinueOnError)
	cfg.Bind(fs)
	assert.NoError(t, fs.Parse([]string{"--scale=2", "--rate", "4", "--hud=0"}))
	assert.Equal(t, 2, cfg.Scale)
	assert.Equal(t, 4, cfg.Rate)
	assert.Equal(t, 0, cfg.HUDWidth)
	assert.Equal(t, int64(1337), cfg.Seed)
}
