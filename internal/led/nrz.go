package led

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
)

// NRZ drives the chain through periph's nrzled device, which performs the
// NRZ bit expansion itself. It is the fallback hardware path when the
// in-process serialization engine is not wanted.
type NRZ struct {
	dev   *nrzled.Dev
	close func() error
	img   *image.NRGBA
	count int
}

// NewNRZ opens the named SPI port (empty picks the first) at the given
// symbol frequency and attaches an nrzled device for count elements.
func NewNRZ(dev string, freq physic.Frequency, count int) (*NRZ, error) {
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("led: open spi port: %w", err)
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("led: nrzled init: %w", err)
	}
	return &NRZ{
		dev:   d,
		close: p.Close,
		img:   image.NewNRGBA(d.Bounds()),
		count: count,
	}, nil
}

func (n *NRZ) Write(rgb []byte) error {
	if len(rgb) != n.count*3 {
		return fmt.Errorf("led: frame length %d does not match %d elements", len(rgb), n.count)
	}
	for i := 0; i < n.count; i++ {
		n.img.Pix[i*4+0] = rgb[i*3+0]
		n.img.Pix[i*4+1] = rgb[i*3+1]
		n.img.Pix[i*4+2] = rgb[i*3+2]
		n.img.Pix[i*4+3] = 255
	}
	return n.dev.Draw(n.dev.Bounds(), n.img, image.Point{})
}

func (n *NRZ) Close() error {
	_ = n.dev.Halt()
	return n.close()
}
