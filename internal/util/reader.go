package util

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
)

// ErrMaxBytesExceeded is returned by ReadAll when the data is larger than the allowed size.
var ErrMaxBytesExceeded = errors.New("max bytes exceeded")

var gzipMagic = []byte{0x1f, 0x8b} //nolint:gochecknoglobals

// CountingReader is an io.Reader decorator that keeps a running total of bytes read.
type CountingReader struct {
	r         io.Reader
	bytesRead int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{r: r}
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.bytesRead += int64(n)
	return n, err
}

// BytesRead returns the total number of bytes read so far.
func (c *CountingReader) BytesRead() int64 {
	return c.bytesRead
}

// ReadAll reads r to the end. If the data starts with the gzip header it is decompressed. If the
// data, compressed or not, is longer than maxBytes, it returns ErrMaxBytesExceeded; a maxBytes of
// zero or less means there is no limit.
//
// The limit is applied to both the compressed and the uncompressed number of bytes, so a small
// compressed file cannot expand without bound.
func ReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	counter := NewCountingReader(r)
	buffered := bufio.NewReader(counter)
	var s io.Reader = buffered

	if header, _ := buffered.Peek(len(gzipMagic)); len(header) == len(gzipMagic) &&
		header[0] == gzipMagic[0] && header[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, err
		}
		defer gz.Close() //nolint:errcheck
		s = gz
	}

	if maxBytes <= 0 {
		return io.ReadAll(s)
	}
	data, err := io.ReadAll(io.LimitReader(s, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes || counter.BytesRead() > maxBytes {
		return nil, ErrMaxBytesExceeded
	}
	return data, nil
}
