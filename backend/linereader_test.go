package backend

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOnce(t *testing.T, reader io.Reader, size int) (string, error) {
	t.Helper()
	scratch := make([]byte, size)
	n, err := reader.Read(scratch)
	return string(scratch[:n]), err
}

func expectLine(t *testing.T, reader io.Reader, expected string) {
	t.Helper()
	got, err := readOnce(t, reader, 1024)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func expectEOF(t *testing.T, reader io.Reader) {
	t.Helper()
	got, err := readOnce(t, reader, 1024)
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, got)
}

func TestLineReaderHoldsBackPartialLines(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	buf.WriteString("x, a\n")
	buf.WriteString("1, 2\n")
	l := NewLineReader(buf)
	expectLine(t, l, "x, a\n")
	expectLine(t, l, "1, 2\n")

	buf.WriteString("2, ")
	expectEOF(t, l)
	buf.WriteString("4\n")
	expectLine(t, l, "2, 4\n")

	buf.WriteString("3")
	expectEOF(t, l)
	buf.WriteString(",")
	expectEOF(t, l)
	buf.WriteString(" 6\n4")
	expectLine(t, l, "3, 6\n")
	expectEOF(t, l)
}

func TestLineReaderShortBuffer(t *testing.T) {
	l := NewLineReader(bytes.NewBufferString("10, 20\n"))
	var got []string
	for {
		chunk, err := readOnce(t, l, 3)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, chunk)
	}
	assert.Equal(t, []string{"10,", " 20", "\n"}, got)
}

type failingReader struct {
	err error
}

func (f failingReader) Read([]byte) (int, error) {
	return 0, f.err
}

func TestLineReaderPassesErrors(t *testing.T) {
	boom := errors.New("disk gone")
	l := NewLineReader(failingReader{err: boom})
	_, err := readOnce(t, l, 16)
	assert.ErrorIs(t, err, boom)
}
