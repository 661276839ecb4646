// Package anim owns the animation lifecycle: an ordered registry of effect
// modules and the fade-in/run/fade-out state machine that sequences them.
package anim

import (
	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
)

// Effect is the capability set every visual module implements. Init resets
// module state and reads its configuration; Update advances the module by dt
// seconds of real time and draws through the display primitives. Lifecycle
// state lives in the Controller, not in the module.
type Effect interface {
	Name() string
	Init(cfg config.Effect)
	Update(dt float64, d *cube.Display)
}

// Finalizer is implemented by effects that hold resources to release when
// another effect is selected.
type Finalizer interface {
	Teardown()
}

// State is the lifecycle position of the active effect.
type State uint8

const (
	Inactive State = iota
	Starting
	Running
	Ending
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Ending:
		return "ending"
	default:
		return "inactive"
	}
}
