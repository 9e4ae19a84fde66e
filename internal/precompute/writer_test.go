package precompute

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polycubes/internal/polycube"
)

func TestFormatShape(t *testing.T) {
	ell, err := polycube.FromCells(2, 2, 1, []bool{true, false, true, true})
	require.NoError(t, err)

	tests := []struct {
		name string
		grid polycube.Grid
		want string
	}{
		{name: "unit", grid: polycube.Unit(), want: "1x1x1 1"},
		{name: "bar", grid: polycube.Bar(3), want: "3x1x1 111"},
		{name: "ell", grid: ell, want: "2x2x1 1011"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatShape(tt.grid))
		})
	}
}

func TestWriteTextFile(t *testing.T) {
	t.Parallel()

	four, err := New(Options{Workers: 1}).Generate(context.Background(), 4)
	require.NoError(t, err)

	tests := []struct {
		name      string
		shapes    []polycube.Grid
		wantLines int
	}{
		{name: "generation four", shapes: four, wantLines: 8},
		{name: "empty slice", shapes: []polycube.Grid{}, wantLines: 0},
		{name: "single shape", shapes: []polycube.Grid{polycube.Unit()}, wantLines: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txtPath := filepath.Join(t.TempDir(), "shapes.txt")

			require.NoError(t, WriteTextFile(tt.shapes, txtPath))

			content, err := os.ReadFile(txtPath)
			require.NoError(t, err)

			if tt.wantLines == 0 {
				assert.Empty(t, content)
				return
			}

			lines := strings.Split(strings.TrimSpace(string(content)), "\n")
			require.Len(t, lines, tt.wantLines)
			for i, g := range tt.shapes {
				assert.Equal(t, FormatShape(g), lines[i], "line %d", i+1)
			}
			assert.Equal(t, byte('\n'), content[len(content)-1], "expected trailing newline")
		})
	}
}

func TestWriteTextFile_InvalidPath(t *testing.T) {
	// Try to write to a directory that doesn't exist
	invalidPath := "/nonexistent/directory/that/should/not/exist/shapes.txt"

	err := WriteTextFile([]polycube.Grid{polycube.Unit()}, invalidPath)
	assert.Error(t, err)
}

func TestWriteTextFile_Overwrite(t *testing.T) {
	txtPath := filepath.Join(t.TempDir(), "overwrite.txt")

	require.NoError(t, WriteTextFile([]polycube.Grid{polycube.Bar(2), polycube.Bar(3)}, txtPath))
	require.NoError(t, WriteTextFile([]polycube.Grid{polycube.Unit()}, txtPath))

	content, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "1x1x1 1\n", string(content))
}
