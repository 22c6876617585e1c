package releasefile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kilianp07/releaseplan/core/model"
)

// Format writes the number of windows on the first line followed by one
// "<start> <end>" line per window. Lines are separated by a newline and the
// output has no trailing newline.
func Format(w io.Writer, windows []model.Window) error {
	lines := make([]string, 0, len(windows)+1)
	lines = append(lines, strconv.Itoa(len(windows)))
	for _, win := range windows {
		lines = append(lines, fmt.Sprintf("%d %d", win.Start, win.End))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// WriteFile renders windows and writes them to path, replacing any existing
// content. Nothing is written if rendering fails.
func WriteFile(path string, windows []model.Window) error {
	var buf bytes.Buffer
	if err := Format(&buf, windows); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}
	return nil
}
