// Package gait evaluates the harmonic walker model: a blend of trait axes
// expanded into a second order Fourier series per landmark coordinate.
package gait

import (
	"fmt"
	"math"
	"strings"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
)

// harmonicTerms is the number of stacked blocks: static, sin, cos, sin2, cos2.
const harmonicTerms = model.HarmonicBlocks

// #region evaluator

// Evaluator turns a model and traits into a basis, and a basis and time into
// landmark positions. Implementations are stateless and must agree with each
// other to within floating point tolerance.
type Evaluator interface {
	Name() string
	Blend(m *model.GaitModel, t Traits) (Basis, error)
	Evaluate(b Basis, walkertime, phase, initPhase float64) (PoseFrame, error)
}

// Names of the built-in strategies.
const (
	NameDirect = "direct"
	NameMatrix = "matrix"
)

// ByName returns the evaluator registered under name. An empty name selects
// the direct evaluator.
func ByName(name string) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameDirect:
		return Direct{}, nil
	case NameMatrix:
		return Matrix{}, nil
	default:
		return nil, &DomainError{Op: "select evaluator", Err: fmt.Errorf("%w %q", ErrUnknownEvaluator, name)}
	}
}

// #endregion evaluator

// #region harmonics

// Angle returns walkertime + phase + initPhase in radians; initPhase is given
// in degrees.
func Angle(walkertime, phase, initPhase float64) float64 {
	return walkertime + phase + initPhase*math.Pi/180
}

// harmonics returns the block multipliers {1, sin a, cos a, sin 2a, cos 2a}.
func harmonics(angle float64) [harmonicTerms]float64 {
	return [harmonicTerms]float64{
		1,
		math.Sin(angle),
		math.Cos(angle),
		math.Sin(2 * angle),
		math.Cos(2 * angle),
	}
}

// repack maps the 3N spatial values to poses. The model stores each block as
// z for all landmarks, then x, then y.
func repack(parts []string, values []float64) PoseFrame {
	n := len(parts)
	frame := make(PoseFrame, n)
	for i := 0; i < n; i++ {
		frame[i] = Pose{
			Part: parts[i],
			Z:    values[i],
			X:    values[i+n],
			Y:    values[i+2*n],
		}
	}
	return frame
}

func checkModel(m *model.GaitModel) error {
	if m == nil {
		return &DomainError{Op: "blend", Err: fmt.Errorf("%w: no model", ErrNotConfigured)}
	}
	return nil
}

// #endregion harmonics
