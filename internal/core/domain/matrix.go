package domain

import (
	"math"
	"strconv"
	"strings"
)

// MatrixSize is the number of elements of a homogeneous 4x4 matrix.
const MatrixSize = 16

// DefaultTolerance is the element-wise tolerance used by ApproxEqual callers
// that have no stricter requirement.
const DefaultTolerance = 1e-9

// Matrix is a 4x4 homogeneous transformation stored in row-major order.
type Matrix [MatrixSize]float64

// Identity returns the 4x4 identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// MatrixFromSlice builds a Matrix from exactly 16 row-major values.
func MatrixFromSlice(values []float64) (Matrix, bool) {
	var m Matrix
	if len(values) != MatrixSize {
		return m, false
	}
	copy(m[:], values)
	return m, true
}

// At returns the element at the given row and column.
func (m Matrix) At(row, col int) float64 {
	return m[row*4+col]
}

// Mul returns the product m·o.
func (m Matrix) Mul(o Matrix) Matrix {
	var out Matrix
	for r := range 4 {
		for c := range 4 {
			var sum float64
			for k := range 4 {
				sum += m[r*4+k] * o[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// Inverse returns the inverse of m using Gauss-Jordan elimination with partial pivoting.
// The boolean is false when m is singular, in which case the zero matrix is returned.
func (m Matrix) Inverse() (Matrix, bool) {
	var a [4][8]float64
	for r := range 4 {
		for c := range 4 {
			a[r][c] = m[r*4+c]
		}
		a[r][4+r] = 1
	}

	for col := range 4 {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Matrix{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		scale := a[col][col]
		for c := range 8 {
			a[col][c] /= scale
		}
		for r := range 4 {
			if r == col || a[r][col] == 0 {
				continue
			}
			factor := a[r][col]
			for c := range 8 {
				a[r][c] -= factor * a[col][c]
			}
		}
	}

	var inv Matrix
	for r := range 4 {
		for c := range 4 {
			inv[r*4+c] = a[r][4+c]
		}
	}
	return inv, true
}

// ApproxEqual reports whether every element of m and o differs by at most tol.
func (m Matrix) ApproxEqual(o Matrix, tol float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > tol {
			return false
		}
	}
	return true
}

// String formats the matrix as four bracketed rows.
func (m Matrix) String() string {
	var b strings.Builder
	for r := range 4 {
		if r > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		for c := range 4 {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(m.At(r, c), 'f', 6, 64))
		}
		b.WriteByte(']')
	}
	return b.String()
}
