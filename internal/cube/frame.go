package cube

// The display volume is a fixed 16x16x16 grid. Two full frames ping-pong
// between the "current" (writable) and "previous" roles every tick; a third
// flat byte buffer receives the composited output for serialization. All
// three are allocated once and live for the process lifetime.

const (
	// Size is the edge length of the cube in voxels.
	Size = 16
	// Voxels is the total voxel count of one frame.
	Voxels = Size * Size * Size

	// center offsets centered coordinates [-7.5,7.5] into array form [0,15].
	center = 7.5

	axisMask = Size - 1
)

// Display owns the double-buffered frame pair and the composited output.
type Display struct {
	frames [2][Voxels]Color
	out    [Voxels * 3]byte
	cur    int
}

func NewDisplay() *Display {
	return &Display{}
}

// Index maps array coordinates onto the flat frame arena. It treats each
// axis as a 4-bit value; any set bit above bit 3 on any axis (including sign
// bits of negatives) marks the point out of range and ok is false.
func Index(x, y, z int) (i int, ok bool) {
	if (x|y|z)&^axisMask != 0 {
		return 0, false
	}
	return x<<8 | y<<4 | z, true
}

func inRange(x, y, z int) bool {
	_, ok := Index(x, y, z)
	return ok
}

// Set writes a voxel of the current frame. Out-of-range writes are dropped.
func (d *Display) Set(x, y, z int, c Color) {
	if i, ok := Index(x, y, z); ok {
		d.frames[d.cur][i] = c
	}
}

// Add saturating-adds into a voxel of the current frame.
func (d *Display) Add(x, y, z int, c Color) {
	if i, ok := Index(x, y, z); ok {
		d.frames[d.cur][i] = d.frames[d.cur][i].Add(c)
	}
}

// Max keeps the per-channel maximum in a voxel of the current frame.
func (d *Display) Max(x, y, z int, c Color) {
	if i, ok := Index(x, y, z); ok {
		d.frames[d.cur][i] = d.frames[d.cur][i].Maximize(c)
	}
}

// Get reads a voxel of the current frame; out of range reads black.
func (d *Display) Get(x, y, z int) Color {
	if i, ok := Index(x, y, z); ok {
		return d.frames[d.cur][i]
	}
	return Black
}

// Clear zeroes the current frame.
func (d *Display) Clear() {
	d.frames[d.cur] = [Voxels]Color{}
}

// ScaleCurrent dims every voxel of the current frame by s/255. The lifecycle
// controller applies its fade envelope through this before compositing.
func (d *Display) ScaleCurrent(s uint8) {
	if s == 255 {
		return
	}
	f := &d.frames[d.cur]
	for i := range f {
		f[i] = f[i].Scaled(s)
	}
}

// CompositeAndSwap blends the previous and current frames with weight k
// (0 = previous only, 255 = current only) into the output buffer, then swaps
// the frame roles and clears the new current frame. The frames themselves
// keep their raw drawn content, so trails come from one prior frame only.
// The returned slice aliases the display's output buffer and stays valid
// until the next call.
func (d *Display) CompositeAndSwap(k uint8) []byte {
	cur := &d.frames[d.cur]
	prev := &d.frames[1-d.cur]
	for i := 0; i < Voxels; i++ {
		c := prev[i].Blend(k, cur[i])
		d.out[i*3+0] = c.R
		d.out[i*3+1] = c.G
		d.out[i*3+2] = c.B
	}
	d.cur = 1 - d.cur
	d.Clear()
	return d.out[:]
}

// Output returns the most recent composited frame.
func (d *Display) Output() []byte {
	return d.out[:]
}
