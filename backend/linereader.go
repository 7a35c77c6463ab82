package backend

import (
	"bufio"
	"io"
)

// lineReader is a specialized reader that only hands out entire
// newline-delimited lines. This is useful when parsing a CSV file that is
// being actively written to, as partially written lines are held back until
// their newline arrives.
type lineReader struct {
	r       *bufio.Reader
	partial []byte
	pending []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

func (l *lineReader) Read(b []byte) (int, error) {
	if len(l.pending) == 0 {
		data, err := l.r.ReadBytes(byte('\n'))
		l.partial = append(l.partial, data...)
		if err != nil {
			// The unterminated tail stays buffered for the next call.
			return 0, err
		}
		l.pending, l.partial = l.partial, nil
	}
	n := copy(b, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
