// Package helix draws a double helix spinning around a slowly tumbling axis.
package helix

import (
	"math"

	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
	"github.com/AndrewBunn00/Mega-Cube/internal/geom"
)

type Effect struct {
	phase float64
	angle float64
	hue16 uint16

	phaseSpeed float64
	angleSpeed float64
	hueSpeed   float64
	radius     float64
	resolution int
	thickness  float64
}

func New() *Effect { return &Effect{} }

func (e *Effect) Name() string { return "helix" }

func (e *Effect) Init(cfg config.Effect) {
	e.phase = 0
	e.angle = 0
	e.hue16 = 0
	e.phaseSpeed = cfg.Param("phase_speed", 2.0)
	e.angleSpeed = cfg.Param("angle_speed", 0.5)
	e.hueSpeed = cfg.Param("hue_speed", 50.0)
	e.radius = cfg.Param("radius", 7.0)
	e.resolution = int(cfg.Param("resolution", 32))
	e.thickness = cfg.Param("thickness", 3)
}

func (e *Effect) Update(dt float64, d *cube.Display) {
	e.phase += dt * e.phaseSpeed
	e.angle += dt * e.angleSpeed
	e.hue16 += uint16(dt * e.hueSpeed * 255)

	// The second strand is the first rotated half a turn around Y.
	q1 := geom.NewQuaternion(180, geom.Vec3{Y: 1})
	q2 := geom.NewQuaternion(e.angle, geom.Vec3{X: 1})

	res := float64(e.resolution)
	r := 1.0 + e.thickness/20.0

	for y := 0; y <= e.resolution; y++ {
		t := e.phase + float64(y)/res*2*math.Pi
		p0 := geom.Vec3{
			X: math.Sin(t),
			Y: 2*float64(y)/res - 1,
			Z: math.Cos(t),
		}.Mul(e.radius)

		p1 := q2.Rotate(p0)
		p2 := q2.Mul(q1).Rotate(p0)

		c1 := cube.Wheel(uint8(e.hue16>>8) + uint8(y*2))
		c2 := cube.Wheel(uint8(e.hue16>>8) + uint8(y*2) + 128)

		d.Radiate(p1, c1, r)
		d.Radiate(p2, c2, r)
	}
}
