package pixel

import "fmt"

// Grid holds sprite sheet cells, indexed [row][column].
type Grid [][]*Buffer

// Cell returns the cell at column x, row y.
func (g Grid) Cell(x, y int) (*Buffer, bool) {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return nil, false
	}
	return g[y][x], true
}

// Columns returns the number of cells per row.
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Slice cuts sheet into cellWidth x cellHeight cells. Pixels that do not
// fill a whole cell on the right or bottom edge are dropped.
func Slice(sheet *Buffer, cellWidth, cellHeight int) (Grid, error) {
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("%w: cell size %dx%d", ErrInvalidDimension, cellWidth, cellHeight)
	}

	cols := sheet.Width / cellWidth
	rows := sheet.Height / cellHeight
	rowBytes := cellWidth * BytesPerPixel

	grid := make(Grid, rows)
	for y := range rows {
		grid[y] = make([]*Buffer, cols)
		for x := range cols {
			cell := &Buffer{
				Pix:    make([]uint8, cellWidth*cellHeight*BytesPerPixel),
				Width:  cellWidth,
				Height: cellHeight,
			}
			for row := range cellHeight {
				src := sheet.offset(x*cellWidth, y*cellHeight+row)
				copy(cell.Pix[row*rowBytes:(row+1)*rowBytes], sheet.Pix[src:src+rowBytes])
			}
			grid[y][x] = cell
		}
	}

	return grid, nil
}
