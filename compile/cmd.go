package compile

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"psprite/catalog"
	"psprite/palette"
	"psprite/parallel"
	"psprite/pixel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Sheet        string  `arg:"" help:"Sprite sheet image" type:"existingfile"`
	Objects      string  `arg:"" help:"Object catalog (YAML)" type:"existingfile"`
	Output       string  `short:"o" help:"Output file, - for stdout" default:"-"`
	Force        bool    `help:"Overwrite existing output files" default:"false"`
	CellWidth    int     `help:"Sprite width in sheet pixels" default:"5" group:"sheet"`
	CellHeight   int     `help:"Sprite height in sheet pixels" default:"5" group:"sheet"`
	LintDistance float64 `help:"Warn about palette colors closer than this CIEDE2000 distance (0..1), 0 disables" default:"0.01" group:"sheet"`
	PalDir       string  `help:"Folder to write each sprite's palette to, as RIFF PAL files" group:"export"`
	Preview      string  `help:"Preview image of every sprite (png, gif, jpeg, bmp or tiff, by extension)" group:"export"`
	Scale        int     `help:"Preview enlargement factor" default:"8" group:"export"`
	Columns      int     `help:"Sprites per preview row" default:"16" group:"export"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	switch {
	case c.CellWidth <= 0:
		return fmt.Errorf("invalid cell width: %d", c.CellWidth)
	case c.CellHeight <= 0:
		return fmt.Errorf("invalid cell height: %d", c.CellHeight)
	case c.LintDistance < 0:
		return fmt.Errorf("invalid lint distance: %g", c.LintDistance)
	}

	if c.Output != "-" {
		out, err := filepath.Abs(c.Output)
		if err != nil {
			return fmt.Errorf("invalid output path %q: %w", c.Output, err)
		}
		c.Output = out
	}

	if c.PalDir != "" {
		dir, err := filepath.Abs(c.PalDir)
		if err != nil {
			return fmt.Errorf("invalid palette path %q: %w", c.PalDir, err)
		}
		c.PalDir = dir
	}

	if c.Preview != "" {
		if _, err := previewFormat(c.Preview); err != nil {
			return err
		}
		if c.Scale <= 0 {
			return fmt.Errorf("invalid preview scale: %d", c.Scale)
		}
		if c.Columns <= 0 {
			return fmt.Errorf("invalid preview columns: %d", c.Columns)
		}
	}

	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	var (
		sheet *pixel.Buffer
		cat   *catalog.Catalog
	)

	inputs := pool.Batch()
	inputs.Go(func() (err error) {
		sheet, err = loadSheet(c.Sheet)
		return err
	})
	inputs.Go(func() (err error) {
		cat, err = loadCatalog(c.Objects)
		return err
	})
	if err := inputs.Wait(); err != nil {
		return err
	}

	cells, err := pixel.Slice(sheet, c.CellWidth, c.CellHeight)
	if err != nil {
		return fmt.Errorf("could not slice sprite sheet %q: %w", c.Sheet, err)
	}
	slog.Info("sliced sprite sheet", "columns", cells.Columns(), "rows", len(cells),
		"width", c.CellWidth, "height", c.CellHeight)

	compiler := NewCompiler(slog.Default(), cat, cells)
	compiler.LintDistance = c.LintDistance

	sprites, err := c.writeSprites(compiler)
	if err != nil {
		return err
	}

	st := compiler.Stats
	slog.Info("stats", "objects", st.Objects, "variants", st.Variants, "emitted", st.Emitted,
		"omitted", st.Omitted, "blank", st.Blank)

	if c.PalDir != "" {
		if err := c.writePalettes(pool, sprites); err != nil {
			return err
		}
	}

	if c.Preview != "" {
		if err := c.writePreview(sprites); err != nil {
			return err
		}
	}

	return nil
}

func loadSheet(name string) (*pixel.Buffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open sprite sheet: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close sprite sheet", "file", name, "error", closeErr)
		}
	}()

	sheet, imgType, err := pixel.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("could not read sprite sheet %q: %w", name, err)
	}
	slog.Info("loaded sprite sheet", "file", name, "type", imgType, "width", sheet.Width, "height", sheet.Height)

	return sheet, nil
}

func loadCatalog(name string) (*catalog.Catalog, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open object catalog: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close object catalog", "file", name, "error", closeErr)
		}
	}()

	cat, err := catalog.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not read object catalog %q: %w", name, err)
	}
	slog.Info("loaded object catalog", "file", name, "objects", cat.Len())

	return cat, nil
}

// writeSprites streams the sprite blocks to the output and returns the
// written sprites.
func (c *CLICmd) writeSprites(compiler *Compiler) ([]*palette.Indexed, error) {
	if c.Output == "-" {
		w := bufio.NewWriter(os.Stdout)
		sprites, err := emit(w, compiler)
		if flushErr := w.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("could not write to stdout: %w", flushErr)
		}
		return sprites, err
	}

	out, err := createFile(c.Output, c.Force)
	if err != nil {
		return nil, err
	}

	w := bufio.NewWriter(out)
	sprites, err := emit(w, compiler)
	if err == nil {
		if err = w.Flush(); err != nil {
			err = fmt.Errorf("could not write %q: %w", c.Output, err)
		}
	}
	if err != nil {
		out.Abort()
		return nil, err
	}

	if err := out.Commit(); err != nil {
		return nil, err
	}
	slog.Info("wrote sprites", "file", c.Output, "count", len(sprites))

	return sprites, nil
}

func emit(w io.Writer, compiler *Compiler) ([]*palette.Indexed, error) {
	var sprites []*palette.Indexed
	for sprite, err := range compiler.Sprites() {
		if err != nil {
			return sprites, err
		}
		if _, err := sprite.WriteTo(w); err != nil {
			return sprites, fmt.Errorf("could not write sprite %q: %w", sprite.Name, err)
		}
		sprites = append(sprites, sprite)
	}
	return sprites, nil
}

func (c *CLICmd) writePalettes(pool *parallel.Pool, sprites []*palette.Indexed) error {
	if err := os.MkdirAll(c.PalDir, 0o755); err != nil {
		return fmt.Errorf("unable to create palette folder %q: %w", c.PalDir, err)
	}

	batch := pool.Batch()
	for _, sprite := range sprites {
		batch.Go(func() error {
			return writePalette(filepath.Join(c.PalDir, sprite.Name+".pal"), sprite, c.Force)
		})
	}
	if err := batch.Wait(); err != nil {
		return err
	}

	slog.Info("wrote palettes", "dir", c.PalDir, "count", len(sprites))
	return nil
}

func writePalette(dest string, sprite *palette.Indexed, force bool) error {
	out, err := createFile(dest, force)
	if err != nil {
		return err
	}

	if _, err := palette.WriteTo(out, []color.Palette{sprite.ColorPalette()}); err != nil {
		out.Abort()
		return fmt.Errorf("could not write palette of %q: %w", sprite.Name, err)
	}
	return out.Commit()
}

func (c *CLICmd) writePreview(sprites []*palette.Indexed) error {
	if len(sprites) == 0 {
		slog.Warn("no sprites to preview")
		return nil
	}

	format, err := previewFormat(c.Preview)
	if err != nil {
		return err
	}

	out, err := createFile(c.Preview, c.Force)
	if err != nil {
		return err
	}

	img := renderPreview(sprites, c.Columns, c.Scale)
	if err := encodePreview(out, img, format); err != nil {
		out.Abort()
		return err
	}
	if err := out.Commit(); err != nil {
		return err
	}

	slog.Info("wrote preview", "file", c.Preview, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}
