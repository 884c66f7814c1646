package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter speaks CRLF to the client and LF to the player layer.
// Telnet clients end lines with \r\n, ssh clients without a pty send a bare
// \r, and either may arrive split across reads.
type crlfReadWriter struct {
	rw io.ReadWriter

	// afterCR is set when the last byte read was a \r, so a \n starting the
	// next read belongs to the same line ending.
	afterCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n == 0 {
		return n, err
	}

	out := p[:0]
	for _, b := range p[:n] {
		switch {
		case b == '\r':
			out = append(out, '\n')
			c.afterCR = true
			continue
		case b == '\n' && c.afterCR:
		default:
			out = append(out, b)
		}
		c.afterCR = false
	}
	return len(out), err
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	_, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
