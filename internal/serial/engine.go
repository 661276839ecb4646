package serial

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	diag "github.com/AndrewBunn00/Mega-Cube/internal/diagnostics"
)

// ErrTransferOverrun marks a tick whose previous transfer had not completed
// in time. The frame is dropped; the pipeline carries on with the next tick.
var ErrTransferOverrun = errors.New("serial: transfer overrun, frame dropped")

// Tx is the hardware transfer; periph's spi.Conn satisfies it.
type Tx interface {
	Tx(w, r []byte) error
}

// escalateAfter consecutive overruns indicates a timing misconfiguration
// rather than a one-off hiccup and is reported through the Escalate hook.
const escalateAfter = 3

// Engine owns the ping-pong pair of encoded bit-stream buffers. While one
// half drains through the hardware, the other is filled with the next frame;
// a half is reused only once its in-flight transfer has signalled completion.
// Write never blocks beyond the completion check, which in a healthy system
// is already satisfied because one transfer is shorter than one tick.
type Engine struct {
	port  Tx
	enc   *encoder
	count int

	bufs [2][]byte
	done [2]chan struct{}
	cur  int

	// Timeout bounds the completion check; it should be one tick period.
	Timeout time.Duration
	// Escalate, if set, receives a diagnostic after repeated overruns.
	Escalate func(diag.Diagnostic)

	closer  io.Closer
	dropped atomic.Uint64
	txErrs  atomic.Uint64
	consec  int
}

// NewEngine prepares buffers for count elements draining into port.
func NewEngine(port Tx, count int) *Engine {
	e := &Engine{
		port:    port,
		enc:     newEncoder(),
		count:   count,
		Timeout: 33 * time.Millisecond,
	}
	for i := range e.bufs {
		e.bufs[i] = make([]byte, encodedSize(count))
		e.done[i] = make(chan struct{}, 1)
		e.done[i] <- struct{}{} // both halves start idle
	}
	return e
}

// SetCloser attaches the underlying port's closer so Close releases it.
func (e *Engine) SetCloser(c io.Closer) { e.closer = c }

// Dropped reports how many frames were skipped due to transfer overruns.
func (e *Engine) Dropped() uint64 { return e.dropped.Load() }

// Write encodes one frame (len 3*count) into the idle buffer half and starts
// its transfer without waiting for it to finish.
func (e *Engine) Write(rgb []byte) error {
	if len(rgb) != e.count*3 {
		return fmt.Errorf("serial: frame length %d does not match %d elements", len(rgb), e.count)
	}

	// The half about to be refilled must have finished draining. Normally
	// this select succeeds immediately; a timeout is a budget violation.
	select {
	case <-e.done[e.cur]:
	case <-time.After(e.Timeout):
		e.overrun()
		return ErrTransferOverrun
	}
	e.consec = 0

	buf := e.bufs[e.cur]
	e.enc.encode(rgb, buf)

	idx := e.cur
	go func() {
		if err := e.port.Tx(buf, nil); err != nil {
			e.txErrs.Add(1)
			log.Warn().Err(err).Msg("serial transfer failed")
		}
		e.done[idx] <- struct{}{}
	}()

	e.cur = 1 - e.cur
	return nil
}

func (e *Engine) overrun() {
	n := e.dropped.Add(1)
	e.consec++
	log.Warn().
		Uint64("dropped_total", n).
		Int("consecutive", e.consec).
		Dur("timeout", e.Timeout).
		Msg("transfer overrun, dropping frame")
	if e.consec >= escalateAfter && e.Escalate != nil {
		e.Escalate(diag.Diagnostic{
			Severity: diag.Err,
			Code:     "SERIAL.OVERRUN",
			Summary:  "repeated transfer overruns",
			Detail:   fmt.Sprintf("%d consecutive frames dropped waiting on transfer completion", e.consec),
			LikelyCauses: []string{
				"SPI clock below the protocol reference frequency",
				"transfer length exceeds one tick period",
			},
			Evidence: map[string]any{"dropped_total": n, "timeout": e.Timeout.String()},
		})
	}
}

// Close waits briefly for in-flight transfers, then releases the port.
func (e *Engine) Close() error {
	for i := range e.done {
		select {
		case <-e.done[i]:
		case <-time.After(e.Timeout):
		}
	}
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}
