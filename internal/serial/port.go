package serial

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// The chain shifts 800k data bits per second; with three line symbols per
// data bit the reference clock is 2.4 MHz. The chips tolerate a limited
// band around that, checked once when the port is opened and never
// recomputed per frame.
const (
	dataRate      = 800 * physic.KiloHertz
	SymbolRate    = symbolBits * dataRate
	minSymbolRate = 2 * physic.MegaHertz
	maxSymbolRate = 3200 * physic.KiloHertz
)

// OpenSPI opens the named SPI port (empty string picks the first one),
// verifies the clock against the chip's bit-timing tolerance and returns an
// engine draining into it. speed 0 selects the reference SymbolRate.
func OpenSPI(dev string, speed physic.Frequency, count int) (*Engine, error) {
	if speed == 0 {
		speed = SymbolRate
	}
	if speed < minSymbolRate || speed > maxSymbolRate {
		return nil, fmt.Errorf("serial: clock %s outside driver tolerance [%s, %s]",
			speed, minSymbolRate, maxSymbolRate)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("serial: open spi port: %w", err)
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("serial: configure spi port: %w", err)
	}
	e := NewEngine(c, count)
	e.SetCloser(p)
	return e, nil
}
