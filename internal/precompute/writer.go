package precompute

import (
	"fmt"
	"os"
	"strings"

	"polycubes/internal/polycube"
)

// FormatShape renders a grid as one line: its dimensions, a space, and one
// '1' or '0' per cell in flattening order, e.g. "3x1x1 111".
func FormatShape(g polycube.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%dx%d ", g.X, g.Y, g.Z)
	for _, c := range g.Cells {
		if c {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// WriteTextFile writes shapes to a plain text file.
// Each shape is on a separate line.
func WriteTextFile(shapes []polycube.Grid, outputPath string) error {
	var b strings.Builder
	for _, g := range shapes {
		b.WriteString(FormatShape(g))
		b.WriteByte('\n')
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write text file: %w", err)
	}

	return nil
}
