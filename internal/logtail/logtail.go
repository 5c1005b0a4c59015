package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// maxLineBytes bounds a single log line; zerolog entries with large error
// chains can exceed bufio's 64KiB default.
const maxLineBytes = 1 << 20

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(nil, maxLineBytes)

	var tail []string
	for sc.Scan() {
		tail = append(tail, sc.Text())
		// Compact once the window has doubled so memory stays bounded.
		if maxLines > 0 && len(tail) >= 2*maxLines {
			tail = append(tail[:0:0], tail[len(tail)-maxLines:]...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if maxLines > 0 && len(tail) > maxLines {
		tail = tail[len(tail)-maxLines:]
	}
	return tail, nil
}
