package compile

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psprite/palette"
	"psprite/parallel"
)

func writeInputs(t *testing.T, dir string) (string, string) {
	t.Helper()

	sheetPath := filepath.Join(dir, "sheet.png")
	f, err := os.Create(sheetPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, redBlueSheet(t, 5).ToImage()))
	require.NoError(t, f.Close())

	objectsPath := filepath.Join(dir, "objects.yaml")
	require.NoError(t, os.WriteFile(objectsPath, []byte(`
X:
  position: {x: 0, y: 0}
  blend: [null, Y]
Y:
  position: {x: 1, y: 0}
  omit: true
`), 0o644))

	return sheetPath, objectsPath
}

func TestCLICmdRun(t *testing.T) {
	dir := t.TempDir()
	sheetPath, objectsPath := writeInputs(t, dir)

	cmd := &CLICmd{
		Sheet:      sheetPath,
		Objects:    objectsPath,
		Output:     filepath.Join(dir, "objects.txt"),
		CellWidth:  5,
		CellHeight: 5,
		PalDir:     filepath.Join(dir, "pal"),
		Preview:    filepath.Join(dir, "preview.png"),
		Scale:      2,
		Columns:    16,
	}
	require.NoError(t, cmd.Validate(nil))

	pool := parallel.Start(2)
	defer pool.Close()
	require.NoError(t, cmd.Run(pool))

	out, err := os.ReadFile(cmd.Output)
	require.NoError(t, err)
	assert.Equal(t, ""+
		"X\n#ff0000\n00000\n00000\n00000\n00000\n00000\n\n"+
		"X_Y\n#0000ff\n00000\n00000\n00000\n00000\n00000\n\n", string(out))

	for name, want := range map[string]palette.Color{"X": 0xff0000, "X_Y": 0x0000ff} {
		f, err := os.Open(filepath.Join(cmd.PalDir, name+".pal"))
		require.NoError(t, err)
		pals, err := palette.ReadFrom(f)
		require.NoError(t, f.Close())
		require.NoError(t, err)
		require.Len(t, pals, 1)
		require.Len(t, pals[0], 1)
		assert.Equal(t, want, palette.FromColor(pals[0][0]))
	}

	f, err := os.Open(cmd.Preview)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	// two 5x5 sprites, doubled, with a 2 pixel gap
	assert.Equal(t, image.Pt(22, 10), image.Pt(cfg.Width, cfg.Height))

	err = cmd.Run(pool)
	assert.ErrorContains(t, err, "already exists")

	cmd.Force = true
	assert.NoError(t, cmd.Run(pool))
}

func TestCLICmdRunFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	sheetPath, _ := writeInputs(t, dir)

	objectsPath := filepath.Join(dir, "cycle.yaml")
	require.NoError(t, os.WriteFile(objectsPath, []byte(`
A:
  position: {x: 0, y: 0}
B:
  position: {x: 0, y: 0}
  blend: [C]
C:
  position: {x: 1, y: 0}
  blend: [B]
`), 0o644))

	cmd := &CLICmd{
		Sheet:      sheetPath,
		Objects:    objectsPath,
		Output:     filepath.Join(dir, "objects.txt"),
		CellWidth:  5,
		CellHeight: 5,
	}
	require.NoError(t, cmd.Validate(nil))

	pool := parallel.Start(1)
	defer pool.Close()
	err := cmd.Run(pool)
	require.ErrorContains(t, err, "B -> C -> B")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "objects.txt")
	}
}

func TestCLICmdValidate(t *testing.T) {
	testCases := []struct {
		name string
		cmd  CLICmd
	}{
		{"cell width", CLICmd{CellWidth: 0, CellHeight: 5, Output: "-"}},
		{"cell height", CLICmd{CellWidth: 5, CellHeight: -1, Output: "-"}},
		{"lint distance", CLICmd{CellWidth: 5, CellHeight: 5, LintDistance: -1, Output: "-"}},
		{"preview format", CLICmd{CellWidth: 5, CellHeight: 5, Output: "-", Preview: "out.xcf", Scale: 1, Columns: 1}},
		{"preview scale", CLICmd{CellWidth: 5, CellHeight: 5, Output: "-", Preview: "out.png", Columns: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cmd.Validate(nil))
		})
	}
}
