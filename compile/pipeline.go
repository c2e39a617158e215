package compile

import (
	"fmt"
	"iter"
	"log/slog"

	"psprite/catalog"
	"psprite/palette"
	"psprite/pixel"
	"psprite/variant"
)

type Stats struct {
	Objects  int
	Variants int
	Emitted  int
	Omitted  int
	Blank    int
}

// Compiler turns catalog objects into palette encoded sprites.
type Compiler struct {
	logger   *slog.Logger
	catalog  *catalog.Catalog
	expander *variant.Expander

	// LintDistance is the CIEDE2000 distance under which two colors of
	// one palette are reported. Zero disables the check.
	LintDistance float64
	Stats        Stats
}

func NewCompiler(logger *slog.Logger, c *catalog.Catalog, cells pixel.Grid) *Compiler {
	return &Compiler{
		logger:   logger,
		catalog:  c,
		expander: variant.NewExpander(c, cells),
	}
}

// Sprites yields the sprites to emit, objects in catalog order and each
// object's variants in expansion order. Variants of omitted objects and
// blank variants are encoded but not yielded. Iteration stops at the
// first error.
func (c *Compiler) Sprites() iter.Seq2[*palette.Indexed, error] {
	return func(yield func(*palette.Indexed, error) bool) {
		for _, id := range c.catalog.IDs() {
			obj, _ := c.catalog.Get(id)
			logger := c.logger.With("object", id)
			c.Stats.Objects++

			variants, err := c.expander.Expand(id)
			if err != nil {
				yield(nil, fmt.Errorf("could not expand object %q: %w", id, err))
				return
			}
			logger.Debug("expanded", "variants", len(variants))

			for _, v := range variants {
				c.Stats.Variants++

				sprite, err := palette.Encode(v.Name, v.Sprite)
				if err != nil {
					yield(nil, fmt.Errorf("could not encode object %q: %w", id, err))
					return
				}

				switch {
				case obj.Omit:
					c.Stats.Omitted++
					continue
				case sprite.IsBlank():
					c.Stats.Blank++
					logger.Debug("skipping blank variant", "variant", v.Name)
					continue
				}

				for _, p := range palette.Similar(sprite.Palette, c.LintDistance) {
					logger.Warn("similar palette colors", "variant", v.Name,
						"a", sprite.Palette[p.A].Hex(), "b", sprite.Palette[p.B].Hex(), "distance", p.Distance)
				}

				c.Stats.Emitted++
				if !yield(sprite, nil) {
					return
				}
			}
		}
	}
}
