// Package sinus draws a rotating sine sheet: a radial wave rippling across
// the volume, rotated as a whole around the body diagonal.
package sinus

import (
	"math"

	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
	"github.com/AndrewBunn00/Mega-Cube/internal/geom"
)

type Effect struct {
	phase float64
	hue16 uint16

	phaseSpeed float64
	hueSpeed   float64
	radius     float64
	resolution int
}

func New() *Effect { return &Effect{} }

func (e *Effect) Name() string { return "sinus" }

func (e *Effect) Init(cfg config.Effect) {
	e.phase = 0
	e.hue16 = 0
	e.phaseSpeed = cfg.Param("phase_speed", 1.0)
	e.hueSpeed = cfg.Param("hue_speed", 50.0)
	e.radius = cfg.Param("radius", 7.5)
	e.resolution = int(cfg.Param("resolution", 32))
}

func (e *Effect) Update(dt float64, d *cube.Display) {
	e.phase += dt * e.phaseSpeed
	e.hue16 += uint16(dt * e.hueSpeed * 255)

	q := geom.NewQuaternion(e.phase*10, geom.Vec3{X: 1, Y: 1, Z: 1})
	res := float64(e.resolution)

	for x := 0; x <= e.resolution; x++ {
		xp := 4*float64(x)/res - 2
		for z := 0; z <= e.resolution; z++ {
			zp := 4*float64(z)/res - 2
			y := math.Sin(e.phase + math.Sqrt(xp*xp+zp*zp))

			p := geom.Vec3{
				X: 2*float64(x)/res - 1,
				Y: 2*float64(z)/res - 1,
				Z: y,
			}
			p = q.Rotate(p).Mul(e.radius)

			c := cube.Wheel(uint8(e.hue16>>8) + uint8(int8(y*64)))
			d.Radiate(p, c, 1.0)
		}
	}
}
