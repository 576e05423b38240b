package reader

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Reader yields card UIDs as they are presented. ReadCard blocks until a
// card is seen, the source is exhausted (io.EOF), or the context ends.
type Reader interface {
	ReadCard(ctx context.Context) (string, error)
}

// LineReader reads card UIDs one per line from an io.Reader (stdin, a
// named pipe fed by the hardware driver, or a test buffer). UIDs are
// normalized to uppercase with surrounding whitespace trimmed; blank
// lines are ignored.
type LineReader struct {
	uids chan string
}

// NewLineReader creates a reader consuming lines from src
func NewLineReader(src io.Reader) *LineReader {
	r := &LineReader{
		uids: make(chan string),
	}

	go func() {
		defer close(r.uids)
		scanner := bufio.NewScanner(src)
		for scanner.Scan() {
			uid := strings.ToUpper(strings.TrimSpace(scanner.Text()))
			if uid == "" {
				continue
			}
			r.uids <- uid
		}
	}()

	return r
}

// ReadCard returns the next scanned UID
func (r *LineReader) ReadCard(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case uid, ok := <-r.uids:
		if !ok {
			return "", io.EOF
		}
		return uid, nil
	}
}
