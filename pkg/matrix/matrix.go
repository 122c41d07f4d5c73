// Package matrix wraps the sparse LU solver with a complex modified-nodal
// matrix for AC small-signal analysis.
package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

type ACMatrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	rhsImag  []float64
	solution []float64
}

// New creates a complex MNA matrix of the given size (nodes + branches,
// 1-based; index 0 is ground and is never stamped).
func New(size int) (*ACMatrix, error) {
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               true, // sweeps restamp after factorization reorders the matrix
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %v", err)
	}

	// Interleaved complex vectors want twice the 1-based length.
	return &ACMatrix{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, (size+1)*2),
		rhsImag:  make([]float64, 1),
		solution: make([]float64, (size+1)*2),
	}, nil
}

func (m *ACMatrix) AddElement(i, j int, real, imag float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return
	}
	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real
	element.Imag += imag
}

func (m *ACMatrix) AddRHS(i int, real, imag float64) {
	if i <= 0 || i > m.Size {
		return
	}
	m.rhs[2*i] += real
	m.rhs[2*i+1] += imag
}

func (m *ACMatrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

func (m *ACMatrix) Solve() error {
	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %v", err)
	}

	solution, _, err := m.matrix.SolveComplex(m.rhs, m.rhsImag)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %v", err)
	}
	m.solution = solution

	return nil
}

// Solution returns the complex value of unknown i after Solve. The solve
// vector is interleaved like the RHS: real at 2*i, imaginary at 2*i+1.
func (m *ACMatrix) Solution(i int) complex128 {
	if i <= 0 || i > m.Size {
		return 0
	}
	return complex(m.solution[2*i], m.solution[2*i+1])
}

func (m *ACMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
