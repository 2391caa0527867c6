package gait

import (
	"errors"
	"fmt"
	"math"
)

// #region traits

// BlendScale multiplies every trait weight when blending the model axes. The
// axes were exported in units of one sixth of a trait step.
const BlendScale = 6

// FittedMin and FittedMax bound the trait range the model was fitted over.
const (
	FittedMin = -1.0
	FittedMax = 1.0
)

// Traits are the semantic controls of one walker. Speed divides the stride
// frequency and must be non-zero. Customness is reserved for a future axis and
// is normally zero.
type Traits struct {
	Gender      float64 `json:"gender" yaml:"gender" mapstructure:"gender"`
	Weight      float64 `json:"weight" yaml:"weight" mapstructure:"weight"`
	Nervousness float64 `json:"nervousness" yaml:"nervousness" mapstructure:"nervousness"`
	Happiness   float64 `json:"happiness" yaml:"happiness" mapstructure:"happiness"`
	Speed       float64 `json:"speed" yaml:"speed" mapstructure:"speed"`
	Customness  float64 `json:"customness" yaml:"customness" mapstructure:"customness"`
}

// Neutral returns the zero-trait walker at unit speed.
func Neutral() Traits { return Traits{Speed: 1} }

// Validate reports preconditions the evaluator cannot work around.
func (t Traits) Validate() error {
	if t.Speed == 0 || math.IsNaN(t.Speed) {
		return &DomainError{Op: "configure", Err: ErrZeroSpeed}
	}
	return nil
}

// Extrapolations lists the blend traits outside the fitted range. Values out
// there are still evaluated but drift further from recorded gaits.
func (t Traits) Extrapolations() []ExtrapolationWarning {
	var out []ExtrapolationWarning
	for _, tr := range []struct {
		name string
		v    float64
	}{
		{"gender", t.Gender},
		{"weight", t.Weight},
		{"nervousness", t.Nervousness},
		{"happiness", t.Happiness},
		{"customness", t.Customness},
	} {
		if tr.v < FittedMin || tr.v > FittedMax {
			out = append(out, ExtrapolationWarning{Trait: tr.name, Value: tr.v})
		}
	}
	return out
}

// weights returns the blend vector [1, 6g, 6w, 6n, 6h, 6c] in model axis order.
func (t Traits) weights() [6]float64 {
	return [6]float64{
		1,
		BlendScale * t.Gender,
		BlendScale * t.Weight,
		BlendScale * t.Nervousness,
		BlendScale * t.Happiness,
		BlendScale * t.Customness,
	}
}

// #endregion traits

// #region pose

// Pose is one labelled landmark position in model space.
type Pose struct {
	Part string  `json:"part" yaml:"part"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Z    float64 `json:"z" yaml:"z"`
}

// PoseFrame holds every landmark of one evaluation, in model order.
type PoseFrame []Pose

// #endregion pose

// #region basis

// Basis is the trait-weighted blend of all model axes, laid out like a model
// row: five blocks of 3N+1 coefficients.
type Basis struct {
	parts  []string
	coeffs []float64
}

// NewBasis builds a basis from landmark labels and a flat coefficient vector.
func NewBasis(parts []string, coeffs []float64) (Basis, error) {
	b := Basis{
		parts:  append([]string(nil), parts...),
		coeffs: append([]float64(nil), coeffs...),
	}
	if err := b.check("basis"); err != nil {
		return Basis{}, err
	}
	return b, nil
}

// Landmarks returns N.
func (b Basis) Landmarks() int { return len(b.parts) }

// Len returns the number of coefficients.
func (b Basis) Len() int { return len(b.coeffs) }

// At returns coefficient i.
func (b Basis) At(i int) float64 { return b.coeffs[i] }

// Coefficients returns a copy of the blended vector.
func (b Basis) Coefficients() []float64 { return append([]float64(nil), b.coeffs...) }

// BodyParts returns a copy of the landmark labels.
func (b Basis) BodyParts() []string { return append([]string(nil), b.parts...) }

// IsZero reports whether the basis was never configured.
func (b Basis) IsZero() bool { return len(b.parts) == 0 && len(b.coeffs) == 0 }

func (b Basis) blockSize() int { return 3*len(b.parts) + 1 }

func (b Basis) check(op string) error {
	if b.IsZero() {
		return &DomainError{Op: op, Err: ErrNotConfigured}
	}
	if len(b.parts) == 0 || len(b.coeffs) != harmonicTerms*b.blockSize() {
		return &DomainError{Op: op, Err: fmt.Errorf("%w: %d coefficients for %d landmarks",
			ErrBasisShape, len(b.coeffs), len(b.parts))}
	}
	return nil
}

// #endregion basis

// #region errors

var (
	// ErrNotConfigured is returned when evaluating before traits were set.
	ErrNotConfigured = errors.New("walker not configured")
	// ErrZeroSpeed is returned for a zero speed divisor.
	ErrZeroSpeed = errors.New("speed must be non-zero")
	// ErrBasisShape is returned when a basis does not match its landmark count.
	ErrBasisShape = errors.New("basis size does not match landmark count")
	// ErrUnknownEvaluator is returned by ByName.
	ErrUnknownEvaluator = errors.New("unknown evaluator")
)

// DomainError reports a violated evaluator precondition.
type DomainError struct {
	Op  string
	Err error
}

func (e *DomainError) Error() string { return fmt.Sprintf("gait %s: %v", e.Op, e.Err) }

func (e *DomainError) Unwrap() error { return e.Err }

// ExtrapolationWarning flags a trait outside the fitted range. It is advisory
// and never returned as an error.
type ExtrapolationWarning struct {
	Trait string
	Value float64
}

func (w ExtrapolationWarning) String() string {
	return fmt.Sprintf("%s=%g outside fitted range [%g, %g]", w.Trait, w.Value, FittedMin, FittedMax)
}

// #endregion errors
