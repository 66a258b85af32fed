package stdio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxFrameSize caps a single Content-Length body.
const MaxFrameSize = 4 << 20

// Framing records how a message arrived so the reply can be written the same way.
type Framing int

const (
	// FramingHeader is Content-Length header framing.
	FramingHeader Framing = iota
	// FramingLine is one JSON document per line.
	FramingLine
)

var errFrameTooLarge = errors.New("frame exceeds maximum size")

// ReadMessage reads one message from r. Blank lines between messages are
// skipped. A Content-Length above maxSize is discarded and reported as
// errFrameTooLarge so the caller can keep reading.
func ReadMessage(r *bufio.Reader, maxSize int) ([]byte, Framing, error) {
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				trimmed := bytes.TrimSpace(line)
				if len(trimmed) == 0 {
					return nil, FramingLine, io.EOF
				}
				return trimmed, FramingLine, nil
			}
			return nil, FramingLine, err
		}

		first := strings.TrimSpace(string(line))
		if first == "" {
			continue
		}

		if !strings.HasPrefix(strings.ToLower(first), "content-length:") {
			return []byte(first), FramingLine, nil
		}

		length, convErr := strconv.Atoi(strings.TrimSpace(first[len("content-length:"):]))
		if convErr != nil || length < 0 {
			return []byte(first), FramingLine, nil
		}

		// remaining headers end at the first blank line
		for {
			header, headerErr := r.ReadBytes('\n')
			if headerErr != nil {
				return nil, FramingHeader, headerErr
			}
			if strings.TrimSpace(string(header)) == "" {
				break
			}
		}

		if length > maxSize {
			if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
				return nil, FramingHeader, err
			}
			return nil, FramingHeader, fmt.Errorf("%w: %d bytes", errFrameTooLarge, length)
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, FramingHeader, err
		}
		return bytes.TrimSpace(payload), FramingHeader, nil
	}
}

// WriteMessage writes body using framing f.
func WriteMessage(w io.Writer, f Framing, body []byte) error {
	if f == FramingHeader {
		if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
			return err
		}
		_, err := w.Write(body)
		return err
	}

	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}
