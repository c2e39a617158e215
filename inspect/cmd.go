package inspect

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"psprite/palette"
)

type CLICmd struct {
	Files []string `arg:"" help:"RIFF PAL files to print" type:"existingfile"`
}

// Run prints each palette of the given files as one line of #rrggbb
// colors, the way they appear in object blocks.
func (c *CLICmd) Run() error {
	var errCount int
	for _, name := range c.Files {
		if err := printFile(os.Stdout, name, len(c.Files) > 1); err != nil {
			errCount++
			slog.Error("could not print palette", "file", name, "error", err)
		}
	}

	if errCount > 0 {
		return fmt.Errorf("error reading %d files", errCount)
	}
	return nil
}

func printFile(w io.Writer, name string, withName bool) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("could not open palette file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close palette file", "file", name, "error", closeErr)
		}
	}()

	pals, err := palette.ReadFrom(f)
	if err != nil {
		return err
	}

	for _, pal := range pals {
		hex := make([]string, len(pal))
		for i, c := range pal {
			hex[i] = palette.FromColor(c).Hex()
		}

		line := strings.Join(hex, " ")
		if withName {
			line = name + ": " + line
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
