// Package led abstracts the output sink behind a single Driver interface so
// the pipeline stays agnostic of how frames leave the process.
package led

// Driver consumes composited, power-limited frames. len(rgb) is 3*N.
type Driver interface {
	Write(rgb []byte) error
	Close() error
}
