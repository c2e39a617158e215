package variant

import (
	"slices"
	"strconv"

	"psprite/catalog"
	"psprite/pixel"
)

// Options describes how one variant is rendered. Modifiers build it up
// from the declared base cell.
type Options struct {
	Source     catalog.Position
	Suffixes   []string
	Horizontal bool
	Blend      *pixel.Buffer
}

// Modifier is one alternative of a modifier set.
type Modifier func(Options) Options

func (o Options) withSuffix(s string) Options {
	// Clip so that sibling combinations never share a backing array.
	o.Suffixes = append(slices.Clip(o.Suffixes), s)
	return o
}

func mirrorSet() []Modifier {
	return []Modifier{
		func(o Options) Options {
			o.Horizontal = false
			return o.withSuffix("R")
		},
		func(o Options) Options {
			o.Horizontal = true
			return o.withSuffix("L")
		},
	}
}

func sequenceSet(n int) []Modifier {
	set := make([]Modifier, n)
	for i := range n {
		set[i] = func(o Options) Options {
			o.Source.X += i
			return o.withSuffix(strconv.Itoa(i))
		}
	}
	return set
}

func blendModifier(v Variant) Modifier {
	return func(o Options) Options {
		o.Blend = v.Sprite
		return o.withSuffix(v.Name)
	}
}

func identity(o Options) Options {
	return o
}

// Product returns every combination picking one element per set. The
// first set varies slowest. No sets yield a single empty combination.
func Product[T any](sets [][]T) [][]T {
	res := [][]T{{}}
	for _, set := range sets {
		next := make([][]T, 0, len(res)*len(set))
		for _, prefix := range res {
			for _, el := range set {
				next = append(next, append(slices.Clip(prefix), el))
			}
		}
		res = next
	}
	return res
}

// Apply folds the combination's modifiers over base, left to right.
func Apply(base Options, combo []Modifier) Options {
	for _, m := range combo {
		base = m(base)
	}
	return base
}
