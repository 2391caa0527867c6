package gait

import (
	"gonum.org/v1/gonum/mat"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
)

// #region matrix

// Matrix evaluates the model as two matrix products: Y = A·X once per trait
// change, then V·Y per query where V is five scaled identity blocks side by
// side.
type Matrix struct{}

func (Matrix) Name() string { return NameMatrix }

// Blend multiplies the stacked-axis matrix by [1, 6g, 6w, 6n, 6h, 6c].
func (Matrix) Blend(m *model.GaitModel, t Traits) (Basis, error) {
	if err := checkModel(m); err != nil {
		return Basis{}, err
	}
	w := t.weights()
	x := mat.NewVecDense(len(w), w[:])
	var y mat.VecDense
	y.MulVec(m.Matrix(), x)

	coeffs := make([]float64, y.Len())
	for i := range coeffs {
		coeffs[i] = y.AtVec(i)
	}
	return Basis{parts: m.BodyParts(), coeffs: coeffs}, nil
}

// Evaluate builds V for the current angle and returns the spatial part of V·Y.
func (Matrix) Evaluate(b Basis, walkertime, phase, initPhase float64) (PoseFrame, error) {
	if err := b.check("evaluate"); err != nil {
		return nil, err
	}
	h := harmonics(Angle(walkertime, phase, initPhase))
	block := b.blockSize()

	v := mat.NewDense(block, harmonicTerms*block, nil)
	for k := 0; k < harmonicTerms; k++ {
		for i := 0; i < block; i++ {
			v.Set(i, k*block+i, h[k])
		}
	}
	// NewVecDense shares the slice; the basis is only read.
	y := mat.NewVecDense(len(b.coeffs), b.coeffs)
	var res mat.VecDense
	res.MulVec(v, y)

	spatial := 3 * b.Landmarks()
	values := make([]float64, spatial)
	for i := range values {
		values[i] = res.AtVec(i)
	}
	return repack(b.parts, values), nil
}

// #endregion matrix
