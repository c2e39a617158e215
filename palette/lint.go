package palette

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Pair is two palette entries, by index, and their perceptual distance.
type Pair struct {
	A, B     int
	Distance float64
}

// Similar returns the pairs of palette entries closer than threshold,
// measured with CIEDE2000. Artists usually meant these to be one color.
func Similar(pal []Color, threshold float64) []Pair {
	if threshold <= 0 {
		return nil
	}

	cols := make([]colorful.Color, len(pal))
	for i, c := range pal {
		cols[i], _ = colorful.MakeColor(c)
	}

	var res []Pair
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			if d := cols[i].DistanceCIEDE2000(cols[j]); d < threshold {
				res = append(res, Pair{A: i, B: j, Distance: d})
			}
		}
	}
	return res
}
