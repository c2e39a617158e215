package variant

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"psprite/catalog"
	"psprite/pixel"
)

var (
	ErrBlendCycle        = errors.New("blend cycle")
	ErrReferenceNotFound = errors.New("reference not found")
)

// CycleError reports a chain of blend references that leads back to
// itself. Path starts and ends with the same object.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBlendCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrBlendCycle
}

// ReferenceError reports an unknown object id or an empty cell position.
type ReferenceError struct {
	Object string
	Ref    string
	Cell   *catalog.Position
}

func (e *ReferenceError) Error() string {
	switch {
	case e.Cell != nil:
		return fmt.Sprintf("%s: object %q: no cell at column %d, row %d",
			ErrReferenceNotFound, e.Object, e.Cell.X, e.Cell.Y)
	case e.Object != "":
		return fmt.Sprintf("%s: object %q: blends unknown object %q", ErrReferenceNotFound, e.Object, e.Ref)
	default:
		return fmt.Sprintf("%s: unknown object %q", ErrReferenceNotFound, e.Ref)
	}
}

func (e *ReferenceError) Unwrap() error {
	return ErrReferenceNotFound
}

// Variant is one rendering of an object.
type Variant struct {
	Name   string
	Sprite *pixel.Buffer
}

// Expander renders the variants of catalog objects from sprite sheet cells.
type Expander struct {
	catalog *catalog.Catalog
	cells   pixel.Grid
}

func NewExpander(c *catalog.Catalog, cells pixel.Grid) *Expander {
	return &Expander{catalog: c, cells: cells}
}

// Expand returns every variant of the object, in a stable order: mirror
// varies slowest, then sequence frames, then blend layers.
func (e *Expander) Expand(id string) ([]Variant, error) {
	return e.expand(id, "", nil)
}

// expand resolves id. resolving holds the ids whose blend layers are
// being expanded further up the stack.
func (e *Expander) expand(id, parent string, resolving []string) ([]Variant, error) {
	if i := slices.Index(resolving, id); i >= 0 {
		return nil, &CycleError{Path: append(slices.Clone(resolving[i:]), id)}
	}

	obj, ok := e.catalog.Get(id)
	if !ok {
		return nil, &ReferenceError{Object: parent, Ref: id}
	}

	sets, err := e.modifierSets(obj, append(slices.Clip(resolving), id))
	if err != nil {
		return nil, err
	}

	combos := Product(sets)
	variants := make([]Variant, 0, len(combos))
	for _, combo := range combos {
		opts := Apply(Options{Source: obj.Position}, combo)

		cell, ok := e.cells.Cell(opts.Source.X, opts.Source.Y)
		if !ok {
			return nil, &ReferenceError{Object: id, Cell: &opts.Source}
		}

		variants = append(variants, Variant{
			Name:   strings.Join(append([]string{id}, opts.Suffixes...), "_"),
			Sprite: cell.Mirror(opts.Horizontal).CompositeOver(opts.Blend),
		})
	}

	return variants, nil
}

func (e *Expander) modifierSets(obj *catalog.Object, resolving []string) ([][]Modifier, error) {
	var sets [][]Modifier

	if obj.Flip {
		sets = append(sets, mirrorSet())
	}

	if obj.Sequence > 0 {
		sets = append(sets, sequenceSet(obj.Sequence))
	}

	if len(obj.Blend) > 0 {
		var set []Modifier
		for _, ref := range obj.Blend {
			if ref == "" {
				set = append(set, identity)
				continue
			}

			layers, err := e.expand(ref, obj.ID, resolving)
			if err != nil {
				return nil, err
			}
			for _, layer := range layers {
				set = append(set, blendModifier(layer))
			}
		}
		sets = append(sets, set)
	}

	return sets, nil
}
