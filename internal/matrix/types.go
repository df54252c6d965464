package matrix

// Matrix is a dense numeric grid with explicit dimensions.
type Matrix struct {
	Data [][]float64
	Rows int
	Cols int
}

// FromGrid builds a Matrix from raw row data, validating that the grid is
// non-empty and rectangular.
func FromGrid(data [][]float64) (Matrix, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return Matrix{}, ErrInvalidShape
	}
	cols := len(data[0])
	for _, row := range data {
		if len(row) != cols {
			return Matrix{}, ErrInvalidShape
		}
	}
	return Matrix{Data: data, Rows: len(data), Cols: cols}, nil
}

// Elements returns the total number of values in the matrix.
func (m Matrix) Elements() int {
	return m.Rows * m.Cols
}
