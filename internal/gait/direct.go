package gait

import "github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"

// #region direct

// Direct evaluates the model with plain loops. It needs no numeric library and
// is the reference the matrix path is checked against.
type Direct struct{}

func (Direct) Name() string { return NameDirect }

// Blend computes basis[r] = mean[r] + 6*sum(trait_k * axis_k[r]).
func (Direct) Blend(m *model.GaitModel, t Traits) (Basis, error) {
	if err := checkModel(m); err != nil {
		return Basis{}, err
	}
	w := t.weights()
	coeffs := make([]float64, m.Len())
	for r := range coeffs {
		v := m.Coefficient(model.Mean, r)
		for a := model.Gender; a <= model.Custom; a++ {
			v += w[a] * m.Coefficient(a, r)
		}
		coeffs[r] = v
	}
	return Basis{parts: m.BodyParts(), coeffs: coeffs}, nil
}

// Evaluate sums the five harmonic blocks for every spatial slot.
func (Direct) Evaluate(b Basis, walkertime, phase, initPhase float64) (PoseFrame, error) {
	if err := b.check("evaluate"); err != nil {
		return nil, err
	}
	h := harmonics(Angle(walkertime, phase, initPhase))
	block := b.blockSize()
	spatial := 3 * b.Landmarks()

	values := make([]float64, spatial)
	for i := 0; i < spatial; i++ {
		var v float64
		for k := 0; k < harmonicTerms; k++ {
			v += b.coeffs[i+k*block] * h[k]
		}
		values[i] = v
	}
	return repack(b.parts, values), nil
}

// #endregion direct
