// Package effects collects the built-in animations.
package effects

import (
	"github.com/AndrewBunn00/Mega-Cube/internal/anim"
	"github.com/AndrewBunn00/Mega-Cube/internal/effects/fireworks"
	"github.com/AndrewBunn00/Mega-Cube/internal/effects/helix"
	"github.com/AndrewBunn00/Mega-Cube/internal/effects/sinus"
	"github.com/AndrewBunn00/Mega-Cube/internal/effects/starfield"
	"github.com/AndrewBunn00/Mega-Cube/internal/effects/twinkels"
)

// All returns the built-in effects in playlist order.
func All() []anim.Effect {
	return []anim.Effect{
		sinus.New(),
		helix.New(),
		starfield.New(),
		fireworks.New(),
		twinkels.New(),
	}
}
