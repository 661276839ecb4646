// Package twinkels fades random voxels in and out like slow static.
package twinkels

import (
	"math/rand"
	"time"

	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
)

type twinkle struct {
	col      cube.Color
	age      float64
	lifetime float64
}

type Effect struct {
	rng    *rand.Rand
	voxels [cube.Voxels]twinkle

	spawnRate float64
	minLife   float64
	maxLife   float64
	spawnAcc  float64
}

func New() *Effect {
	return &Effect{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (e *Effect) Name() string { return "twinkels" }

func (e *Effect) Init(cfg config.Effect) {
	e.spawnRate = cfg.Param("spawn_rate", 120.0)
	e.minLife = cfg.Param("min_life", 1.0)
	e.maxLife = cfg.Param("max_life", 4.0)
	e.spawnAcc = 0
	for i := range e.voxels {
		e.voxels[i] = twinkle{}
	}
}

func (e *Effect) spawn() {
	i := e.rng.Intn(cube.Voxels)
	if e.voxels[i].lifetime > 0 {
		return
	}
	e.voxels[i] = twinkle{
		col:      cube.Wheel(uint8(e.rng.Intn(256))),
		lifetime: e.minLife + e.rng.Float64()*(e.maxLife-e.minLife),
	}
}

func (e *Effect) Update(dt float64, d *cube.Display) {
	e.spawnAcc += dt * e.spawnRate
	for e.spawnAcc >= 1 {
		e.spawn()
		e.spawnAcc--
	}

	for x := 0; x < cube.Size; x++ {
		for y := 0; y < cube.Size; y++ {
			for z := 0; z < cube.Size; z++ {
				idx, _ := cube.Index(x, y, z)
				tw := &e.voxels[idx]
				if tw.lifetime == 0 {
					continue
				}
				tw.age += dt
				if tw.age >= tw.lifetime {
					*tw = twinkle{}
					continue
				}
				// Triangular envelope: fade in over the first half of the
				// lifetime, out over the second.
				f := tw.age / tw.lifetime
				if f > 0.5 {
					f = 1 - f
				}
				d.Set(x, y, z, tw.col.Scaled(uint8(2*f*255)))
			}
		}
	}
}
