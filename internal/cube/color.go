package cube

// Color is one voxel's 8-bit RGB value.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{255, 255, 255}
)

func (c Color) IsBlack() bool { return c.R == 0 && c.G == 0 && c.B == 0 }

func scale8(v, s uint8) uint8 {
	return uint8(uint16(v) * uint16(s) / 255)
}

// Scaled returns the color dimmed by s/255.
func (c Color) Scaled(s uint8) Color {
	return Color{scale8(c.R, s), scale8(c.G, s), scale8(c.B, s)}
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// Add is a saturating per-channel addition.
func (c Color) Add(o Color) Color {
	return Color{addSat(c.R, o.R), addSat(c.G, o.G), addSat(c.B, o.B)}
}

// Maximize keeps the brighter of each channel, so overlapping radial
// contributions never darken a voxel.
func (c Color) Maximize(o Color) Color {
	if o.R > c.R {
		c.R = o.R
	}
	if o.G > c.G {
		c.G = o.G
	}
	if o.B > c.B {
		c.B = o.B
	}
	return c
}

// blend8 mixes prev and cur with weight k (0 = prev, 255 = cur).
// The (256-k)/(k+1) split keeps both endpoints exact after the shift,
// and blending a value with itself returns it unchanged.
func blend8(prev, cur, k uint8) uint8 {
	return uint8((uint16(prev)*(256-uint16(k)) + uint16(cur)*(uint16(k)+1)) >> 8)
}

// Blend mixes c toward cur by weight k.
func (c Color) Blend(k uint8, cur Color) Color {
	return Color{
		R: blend8(c.R, cur.R, k),
		G: blend8(c.G, cur.G, k),
		B: blend8(c.B, cur.B, k),
	}
}

// Wheel maps a hue byte onto a rainbow gradient.
func Wheel(h uint8) Color {
	seg := h / 43
	pos := uint8(uint16(h%43) * 6)
	switch seg {
	case 0:
		return Color{255, pos, 0}
	case 1:
		return Color{255 - pos, 255, 0}
	case 2:
		return Color{0, 255, pos}
	case 3:
		return Color{0, 255 - pos, 255}
	case 4:
		return Color{pos, 0, 255}
	default:
		return Color{255, 0, 255 - pos}
	}
}
