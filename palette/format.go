package palette

import (
	"io"
	"strconv"
	"strings"
)

// Format renders the sprite as an object block: its name, its palette,
// one line per pixel row and a closing blank line.
func (s *Indexed) Format() string {
	var sb strings.Builder

	sb.WriteString(s.Name)
	sb.WriteByte('\n')

	for i, c := range s.Palette {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.Hex())
	}
	sb.WriteByte('\n')

	for _, row := range s.Pixels {
		for _, idx := range row {
			if idx == Transparent {
				sb.WriteByte('.')
			} else {
				sb.WriteString(strconv.Itoa(idx))
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	return sb.String()
}

func (s *Indexed) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.Format())
	return int64(n), err
}
