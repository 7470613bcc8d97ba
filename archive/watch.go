package archive

import (
	"errors"
	"io"
	"sync"
)

// failureWatch wraps the archive's ReaderAt and records the first read failure
// of the underlying byte stream. End of file is not a failure.
type failureWatch struct {
	r    io.ReaderAt
	once sync.Once
	done chan struct{}
	err  error
}

func newFailureWatch(r io.ReaderAt) *failureWatch {
	return &failureWatch{r: r, done: make(chan struct{})}
}

func (w *failureWatch) ReadAt(p []byte, off int64) (int, error) {
	n, err := w.r.ReadAt(p, off)
	if err != nil && !errors.Is(err, io.EOF) {
		w.fail(err)
	}
	return n, err
}

func (w *failureWatch) fail(err error) {
	w.once.Do(func() {
		w.err = err
		close(w.done)
	})
}

// failed returns the recorded failure or nil
func (w *failureWatch) failed() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}
