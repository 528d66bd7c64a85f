package scene

import (
	"errors"
	"math/rand/v2"
)

// ErrOccupancyFull is returned once every cell of the occupancy grid is claimed.
var ErrOccupancyFull = errors.New("scene: occupancy grid full")

// Occupancy tracks which (row, column) cells already hold a scattered duplicate.
// Rows run along the street, columns across it.
type Occupancy struct {
	rows, cols int
	cells      []bool
	used       int
}

func NewOccupancy(rows, cols int) *Occupancy {
	return &Occupancy{
		rows:  rows,
		cols:  cols,
		cells: make([]bool, rows*cols),
	}
}

// Claim picks a random free cell and marks it taken. Random probing is bounded;
// after that a linear scan from a random start finds any remaining cell.
func (o *Occupancy) Claim(rng *rand.Rand) (row, col int, err error) {
	if o.used >= len(o.cells) {
		return 0, 0, ErrOccupancyFull
	}

	for range len(o.cells) * 4 {
		r, c := rng.IntN(o.rows), rng.IntN(o.cols)
		if !o.cells[r*o.cols+c] {
			o.take(r*o.cols + c)
			return r, c, nil
		}
	}

	start := rng.IntN(len(o.cells))
	for i := range len(o.cells) {
		idx := (start + i) % len(o.cells)
		if !o.cells[idx] {
			o.take(idx)
			return idx / o.cols, idx % o.cols, nil
		}
	}
	return 0, 0, ErrOccupancyFull
}

func (o *Occupancy) take(idx int) {
	o.cells[idx] = true
	o.used++
}

// Occupied reports whether a cell has been claimed
func (o *Occupancy) Occupied(row, col int) bool {
	if row < 0 || row >= o.rows || col < 0 || col >= o.cols {
		return false
	}
	return o.cells[row*o.cols+col]
}

// Used returns the number of claimed cells
func (o *Occupancy) Used() int { return o.used }

// Capacity returns the total number of cells
func (o *Occupancy) Capacity() int { return len(o.cells) }

// Reset frees every cell
func (o *Occupancy) Reset() {
	clear(o.cells)
	o.used = 0
}
