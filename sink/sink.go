package sink

import (
	"io"
	"os"
)

type writeCloserWrapper struct {
	io.Writer
	closer func() error
}

func (w *writeCloserWrapper) Close() error {
	return w.closer()
}

// NewWriteCloserWrapper returns a new io.WriteCloser.
func NewWriteCloserWrapper(w io.Writer, closer func() error) io.WriteCloser {
	return &writeCloserWrapper{
		Writer: w,
		closer: closer,
	}
}

// Open resolves a consumer output destination. The empty string
// discards everything, "-" writes to stdout, anything else names a
// file to create. Stdout and discard get a no-op Close so all three
// share one teardown path.
func Open(path string) (io.WriteCloser, error) {
	switch path {
	case "":
		return NewWriteCloserWrapper(io.Discard, func() error { return nil }), nil
	case "-":
		return NewWriteCloserWrapper(os.Stdout, func() error { return nil }), nil
	default:
		return os.Create(path)
	}
}
