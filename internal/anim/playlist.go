package anim

// Playlist runs the registry as an auto-advancing show: whenever the
// controller's active effect has faded out to Inactive, the next effect in
// registration order is selected. The controller itself never self-advances,
// so manual selection keeps working while a playlist is attached.
type Playlist struct {
	ctrl    *Controller
	Enabled bool
}

func NewPlaylist(c *Controller) *Playlist {
	return &Playlist{ctrl: c, Enabled: true}
}

// Tick selects the next effect if the previous one finished, then ticks the
// controller.
func (p *Playlist) Tick(dt float64) {
	if p.Enabled && p.ctrl.Len() > 0 && p.ctrl.State() == Inactive {
		next := (p.ctrl.Index() + 1) % p.ctrl.Len()
		_ = p.ctrl.Select(next)
	}
	p.ctrl.Tick(dt)
}
