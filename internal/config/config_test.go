package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPullsValuesIntoRange(t *testing.T) {
	c := &Config{
		Power:     Power{MaxMilliamps: -5, Brightness: 3.2, LedFullScaleMA: 0},
		Animation: Animation{MotionBlur: 999, FPS: -1},
		Effects:   map[string]Effect{"sinus": {StartTime: -2, RunTime: 10, EndTime: -0.1}},
	}
	c.Clamp()
	assert.Equal(t, 0, c.Power.MaxMilliamps)
	assert.Equal(t, 1.0, c.Power.Brightness)
	assert.Equal(t, 1, c.Power.LedFullScaleMA)
	assert.Equal(t, 255, c.Animation.MotionBlur)
	assert.Equal(t, 1, c.Animation.FPS)
	assert.Equal(t, 0.0, c.Effects["sinus"].StartTime)
	assert.Equal(t, 10.0, c.Effects["sinus"].RunTime)
	assert.Equal(t, 0.0, c.Effects["sinus"].EndTime)
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	c := Default()
	c.Animation.MotionBlur = 100
	c.Effects = map[string]Effect{
		"helix": {StartTime: 0.5, RunTime: 12, EndTime: 2, Params: map[string]float64{"radius": 7}},
	}
	assert.NoError(t, Save(path, c))

	got, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 100, got.Animation.MotionBlur)
	assert.Equal(t, 0.5, got.Effects["helix"].StartTime)
	assert.Equal(t, 12.0, got.Effects["helix"].RunTime)
	assert.Equal(t, 7.0, got.Effects["helix"].Params["radius"])
}

func TestLoadClampsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	bad := []byte("power:\n  max_milliamps: -100\n  brightness: 9.5\nanimation:\n  motion_blur: -3\n")
	assert.NoError(t, os.WriteFile(path, bad, 0644))

	c, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 0, c.Power.MaxMilliamps)
	assert.Equal(t, 1.0, c.Power.Brightness)
	assert.Equal(t, 0, c.Animation.MotionBlur)
}

func TestEffectFallback(t *testing.T) {
	c := Default()
	e := c.Effect("unknown")
	assert.Equal(t, 1.0, e.StartTime)
	assert.Equal(t, 30.0, e.RunTime)
	assert.Equal(t, 1.0, e.EndTime)
}
