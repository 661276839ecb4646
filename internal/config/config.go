// Package config loads and persists the cube's YAML configuration. Values
// are clamped to their valid ranges at load time; a bad file can degrade the
// picture but never crash the pipeline.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Power struct {
	MaxMilliamps   int     `yaml:"max_milliamps"`
	Brightness     float64 `yaml:"brightness"`
	LedFullScaleMA int     `yaml:"led_full_scale_ma"`
}

type Animation struct {
	MotionBlur int `yaml:"motion_blur"` // compositor weight of the current frame, 0..255
	FPS        int `yaml:"fps"`
}

type SPI struct {
	Dev     string `yaml:"dev"`
	SpeedHz int    `yaml:"speed_hz"`
}

// Effect holds one effect's lifecycle timers and local parameters.
type Effect struct {
	StartTime float64            `yaml:"starttime"`
	RunTime   float64            `yaml:"runtime"`
	EndTime   float64            `yaml:"endtime"`
	Params    map[string]float64 `yaml:"params,omitempty"`
}

type Config struct {
	Driver    string            `yaml:"driver"` // spi | nrz | console | sim
	Power     Power             `yaml:"power"`
	Animation Animation         `yaml:"animation"`
	SPI       SPI               `yaml:"spi,omitempty"`
	Effects   map[string]Effect `yaml:"effects,omitempty"`
}

func Default() *Config {
	return &Config{
		Driver: "sim",
		Power: Power{
			MaxMilliamps:   18000,
			Brightness:     1.0,
			LedFullScaleMA: 60,
		},
		Animation: Animation{
			MotionBlur: 192,
			FPS:        30,
		},
		SPI: SPI{Dev: ""},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	c.Clamp()
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Clamp pulls every field to its nearest valid value.
func (c *Config) Clamp() {
	if c.Power.MaxMilliamps < 0 {
		c.Power.MaxMilliamps = 0
	}
	c.Power.Brightness = clampf(c.Power.Brightness, 0, 1)
	if c.Power.LedFullScaleMA < 1 {
		c.Power.LedFullScaleMA = 1
	}
	c.Animation.MotionBlur = clampi(c.Animation.MotionBlur, 0, 255)
	if c.Animation.FPS < 1 {
		c.Animation.FPS = 1
	}
	for name, e := range c.Effects {
		if e.StartTime < 0 {
			e.StartTime = 0
		}
		if e.RunTime < 0 {
			e.RunTime = 0
		}
		if e.EndTime < 0 {
			e.EndTime = 0
		}
		c.Effects[name] = e
	}
}

// Effect returns the named effect's configuration, falling back to the
// default fade envelope when the file does not mention it.
func (c *Config) Effect(name string) Effect {
	if e, ok := c.Effects[name]; ok {
		return e
	}
	return Effect{StartTime: 1.0, RunTime: 30.0, EndTime: 1.0}
}

// Param reads one effect-local parameter, falling back to def when the
// configuration does not set it.
func (e Effect) Param(name string, def float64) float64 {
	if v, ok := e.Params[name]; ok {
		return v
	}
	return def
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
