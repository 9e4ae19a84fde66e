package precompute

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"polycubes/internal/polycube"
)

const (
	// Scanner buffer sizes for reading shape files
	scannerInitialBuffer = 64 * 1024   // 64 KB
	scannerMaxBuffer     = 1024 * 1024 // 1 MB
)

// ParseShape parses a line written by FormatShape.
func ParseShape(line string) (polycube.Grid, error) {
	dims, cells, ok := strings.Cut(strings.TrimSpace(line), " ")
	if !ok {
		return polycube.Grid{}, fmt.Errorf("shape %q: missing cells", line)
	}

	x, y, z, err := parseDims(dims)
	if err != nil {
		return polycube.Grid{}, fmt.Errorf("shape %q: bad dimensions: %w", line, err)
	}

	occupied := make([]bool, len(cells))
	for i, c := range cells {
		switch c {
		case '1':
			occupied[i] = true
		case '0':
		default:
			return polycube.Grid{}, fmt.Errorf("shape %q: unexpected cell %q", line, c)
		}
	}

	g, err := polycube.FromCells(x, y, z, occupied)
	if err != nil {
		return polycube.Grid{}, fmt.Errorf("shape %q: %w", line, err)
	}
	return g, nil
}

// parseDims parses exactly three decimal integers joined by 'x'.
func parseDims(s string) (x, y, z int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("want XxYxZ, got %q", s)
	}

	var d [3]int
	for i, p := range parts {
		if d[i], err = strconv.Atoi(p); err != nil {
			return 0, 0, 0, err
		}
	}
	return d[0], d[1], d[2], nil
}

// LoadFile reads all shapes from a file written by WriteTextFile.
// Empty lines are skipped.
func LoadFile(filename string) ([]polycube.Grid, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	var shapes []polycube.Grid
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, scannerInitialBuffer)
	scanner.Buffer(buf, scannerMaxBuffer)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		g, err := ParseShape(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineNo, err)
		}
		shapes = append(shapes, g)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filename, err)
	}

	return shapes, nil
}
