// Package source renders de-indented, line-numbered source context around a
// paused location.
package source

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// tabWidth is the column width a tab counts for when measuring indentation.
const tabWidth = 4

// Render returns the display lines for the block of source centered on
// centerLine (1-based) with radius lines of context above and below.
//
// The block is clamped at the start of the file, de-indented as a unit, and
// framed by one blank line before and after. The center line carries a "=>"
// marker. Returns ErrSourceUnavailable when path cannot be opened or radius
// is not positive; short files yield a short block, never an error.
func Render(path string, centerLine, radius int) ([]string, error) {
	if radius <= 0 {
		return nil, ErrSourceUnavailable
	}

	start := centerLine - radius
	count := 2*radius + 1
	if start < 1 {
		count -= 1 - start
		start = 1
	}
	if count <= 0 {
		return nil, ErrSourceUnavailable
	}

	lines, err := readLines(path, start+count-1)
	if err != nil {
		return nil, ErrSourceUnavailable
	}
	if start > len(lines) {
		return nil, ErrSourceUnavailable
	}
	end := start + count - 1
	if end > len(lines) {
		end = len(lines)
	}
	block := lines[start-1 : end]

	indent := commonIndent(block)

	out := make([]string, 0, len(block)+2)
	out = append(out, "")
	for i, text := range block {
		lineNo := start + i
		marker := "  "
		if lineNo == centerLine {
			marker = "=>"
		}
		out = append(out, fmt.Sprintf("%4d %s %s", lineNo, marker, stripColumns(text, indent)))
	}
	out = append(out, "")
	return out, nil
}

// readLines reads at most max lines from path. A partial read caused by a
// truncated file is not an error; the caller renders what is available.
func readLines(path string, max int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) >= max {
			break
		}
	}
	// Scanner errors past the first line mean a truncated block, which is
	// acceptable output.
	if err := scanner.Err(); err != nil && len(lines) == 0 {
		return nil, err
	}
	return lines, nil
}

// commonIndent returns the minimum leading-whitespace width in columns across
// the given lines. Blank and whitespace-only lines do not participate.
func commonIndent(lines []string) int {
	min := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w := leadingWidth(line)
		if min < 0 || w < min {
			min = w
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

// leadingWidth measures the leading whitespace of line in columns, counting
// tabs as tabWidth columns.
func leadingWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += tabWidth
		default:
			return w
		}
	}
	return w
}

// stripColumns removes up to width columns of leading whitespace from line.
// A tab that straddles the boundary is dropped whole; mid-tab splits are not
// worth preserving for display.
func stripColumns(line string, width int) string {
	if width <= 0 {
		return line
	}
	removed := 0
	for i, r := range line {
		if removed >= width {
			return line[i:]
		}
		switch r {
		case ' ':
			removed++
		case '\t':
			removed += tabWidth
		default:
			return line[i:]
		}
	}
	return ""
}
