package led

import (
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
)

// Console renders the cube's middle horizontal plane as an ANSI strip on
// stdout, so the pipeline can be watched without any hardware attached.
type Console struct {
	drawer display.Drawer
	img    *image.NRGBA
}

func NewConsole() *Console {
	d := screen.New(cube.Size * cube.Size)
	return &Console{
		drawer: d,
		img:    image.NewNRGBA(d.Bounds()),
	}
}

func (c *Console) Write(rgb []byte) error {
	const y = cube.Size / 2
	px := 0
	for z := 0; z < cube.Size; z++ {
		for x := 0; x < cube.Size; x++ {
			i, _ := cube.Index(x, y, z)
			c.img.Pix[px*4+0] = rgb[i*3+0]
			c.img.Pix[px*4+1] = rgb[i*3+1]
			c.img.Pix[px*4+2] = rgb[i*3+2]
			c.img.Pix[px*4+3] = 255
			px++
		}
	}
	return c.drawer.Draw(c.drawer.Bounds(), c.img, image.Point{})
}

func (c *Console) Close() error {
	return c.drawer.Halt()
}
