package engine

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gorgonia.org/tensor"
)

// isRowMajorContiguous2D reports whether d is a 2D dense tensor with the
// standard row-major layout Gemm expects:
//
//	shape = [rows, cols]
//	strides = [cols, 1]
func isRowMajorContiguous2D(d *tensor.Dense) bool {
	if d.Dims() != 2 || d.RequiresIterator() {
		return false
	}
	shape := d.Shape()
	strides := d.Strides()
	if len(shape) != 2 || len(strides) != 2 {
		return false
	}
	rows, cols := shape[0], shape[1]
	return strides[1] == 1 && strides[0] == cols && rows > 0 && cols > 0
}

// general views a row-major float64 backing slice as a blas64.General.
func general(data []float64, rows, cols int) blas64.General {
	return blas64.General{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   data,
	}
}

// MatMul computes prealloc = a×b. Dense float64 2D row-major operands are
// multiplied with blas64.Gemm on their backing slices. Everything else
// (other dtypes, views, non-standard strides, other ranks) is handed to
// the embedded StdEng.
func (e *Eng) MatMul(a, b, prealloc tensor.Tensor) error {
	da, okA := a.(*tensor.Dense)
	db, okB := b.(*tensor.Dense)
	dc, okC := prealloc.(*tensor.Dense)
	if !okA || !okB || !okC {
		return e.StdEng.MatMul(a, b, prealloc)
	}

	if da.Dtype() != tensor.Float64 || db.Dtype() != tensor.Float64 || dc.Dtype() != tensor.Float64 {
		return e.StdEng.MatMul(a, b, prealloc)
	}

	if !isRowMajorContiguous2D(da) || !isRowMajorContiguous2D(db) || !isRowMajorContiguous2D(dc) {
		return e.StdEng.MatMul(a, b, prealloc)
	}

	shapeA := da.Shape()
	shapeB := db.Shape()
	shapeC := dc.Shape()

	m, kA := shapeA[0], shapeA[1]
	kB, n := shapeB[0], shapeB[1]

	if kA != kB {
		return errors.Errorf("engine: MatMul shape mismatch: a=%v, b=%v (inner dims %d vs %d)", shapeA, shapeB, kA, kB)
	}
	if shapeC[0] != m || shapeC[1] != n {
		return errors.Errorf("engine: MatMul prealloc shape mismatch: expected [%d %d], got %v", m, n, shapeC)
	}

	adata, ok := da.Data().([]float64)
	if !ok {
		return e.StdEng.MatMul(a, b, prealloc)
	}
	bdata, ok := db.Data().([]float64)
	if !ok {
		return e.StdEng.MatMul(a, b, prealloc)
	}
	cdata, ok := dc.Data().([]float64)
	if !ok {
		return e.StdEng.MatMul(a, b, prealloc)
	}

	if len(adata) < m*kA || len(bdata) < kB*n || len(cdata) < m*n {
		return errors.Errorf("engine: MatMul backing slice too small: a=%d, b=%d, c=%d, expected at least %d, %d, %d",
			len(adata), len(bdata), len(cdata), m*kA, kB*n, m*n)
	}

	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
		general(adata, m, kA),
		general(bdata, kB, n),
		0,
		general(cdata, m, n),
	)
	return nil
}
