package catalog

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var ErrInvalidDeclaration = errors.New("invalid object declaration")

// Position addresses a sprite sheet cell by column and row.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Object is one declared object of the catalog.
type Object struct {
	ID       string
	Position Position
	// Flip adds a right facing and a left facing variant.
	Flip bool
	// Sequence is the number of animation frames, laid out horizontally
	// from Position. Zero means no sequence.
	Sequence int
	// Blend lists the objects drawn over this one, one variant per entry.
	// An empty entry stands for the object drawn without a layer.
	Blend []string
	// Omit excludes the object from the output. It can still be blended.
	Omit bool
}

// Catalog holds the declared objects in declaration order.
type Catalog struct {
	order   []string
	objects map[string]*Object
}

func New(objects ...*Object) (*Catalog, error) {
	c := &Catalog{objects: make(map[string]*Object, len(objects))}
	for _, obj := range objects {
		if err := c.add(obj); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(obj *Object) error {
	if _, dup := c.objects[obj.ID]; dup {
		return fmt.Errorf("%w: duplicate object %q", ErrInvalidDeclaration, obj.ID)
	}
	c.order = append(c.order, obj.ID)
	c.objects[obj.ID] = obj
	return nil
}

// IDs returns the object ids in declaration order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) Get(id string) (*Object, bool) {
	obj, ok := c.objects[id]
	return obj, ok
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Parse reads a YAML mapping of object id to declaration.
func Parse(r io.Reader) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New()
		}
		return nil, fmt.Errorf("could not parse objects: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return New()
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return New()
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: objects must be a mapping", ErrInvalidDeclaration, root.Line)
	}

	c := &Catalog{objects: make(map[string]*Object, len(root.Content)/2)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		obj, err := parseObject(key.Value, val)
		if err != nil {
			return nil, err
		}
		if err := c.add(obj); err != nil {
			return nil, err
		}
	}

	return c, nil
}

type rawObject struct {
	Position *Position  `yaml:"position"`
	Flip     bool       `yaml:"flip"`
	Sequence int        `yaml:"sequence"`
	Blend    *yaml.Node `yaml:"blend"`
	Omit     bool       `yaml:"omit"`
}

func parseObject(id string, node *yaml.Node) (*Object, error) {
	var raw rawObject
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: object %q: %w", ErrInvalidDeclaration, id, err)
	}

	if raw.Position == nil {
		return nil, fmt.Errorf("%w: object %q: missing position", ErrInvalidDeclaration, id)
	}
	if raw.Sequence < 0 {
		return nil, fmt.Errorf("%w: object %q: negative sequence %d", ErrInvalidDeclaration, id, raw.Sequence)
	}

	obj := &Object{
		ID:       id,
		Position: *raw.Position,
		Flip:     raw.Flip,
		Sequence: raw.Sequence,
		Omit:     raw.Omit,
	}

	if raw.Blend != nil && raw.Blend.Tag != "!!null" {
		if raw.Blend.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: object %q: line %d: blend must be a list", ErrInvalidDeclaration, id, raw.Blend.Line)
		}
		for _, entry := range raw.Blend.Content {
			switch {
			case entry.Kind == yaml.ScalarNode && entry.Tag == "!!null":
				obj.Blend = append(obj.Blend, "")
			case entry.Kind == yaml.ScalarNode:
				obj.Blend = append(obj.Blend, entry.Value)
			default:
				return nil, fmt.Errorf("%w: object %q: line %d: blend entries must be object ids or null",
					ErrInvalidDeclaration, id, entry.Line)
			}
		}
	}

	return obj, nil
}
