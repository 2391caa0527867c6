// Package walker holds the per-instance trait configuration of one synthetic
// walker and the basis derived from it.
package walker

import (
	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
)

// #region walker

// Walker pairs a shared gait model with one trait configuration. A Walker is
// not safe for concurrent Configure and Pose calls; give each goroutine its
// own.
type Walker struct {
	model     *model.GaitModel
	eval      gait.Evaluator
	log       zerolog.Logger
	traits    gait.Traits
	basis     gait.Basis
	phase     float64
	initPhase float64
}

// New returns an unconfigured walker. A nil evaluator selects gait.Direct.
func New(m *model.GaitModel, eval gait.Evaluator, log zerolog.Logger) *Walker {
	if eval == nil {
		eval = gait.Direct{}
	}
	return &Walker{
		model: m,
		eval:  eval,
		log:   log.With().Str("component", "walker").Str("evaluator", eval.Name()).Logger(),
	}
}

// Configure replaces every trait and recomputes the basis. On error the
// previous configuration is kept.
func (w *Walker) Configure(t gait.Traits) error {
	if err := t.Validate(); err != nil {
		return err
	}
	basis, err := w.eval.Blend(w.model, t)
	if err != nil {
		return err
	}
	for _, warn := range t.Extrapolations() {
		w.log.Warn().Str("trait", warn.Trait).Float64("value", warn.Value).
			Msg("trait outside fitted range, extrapolating")
	}
	w.traits = t
	w.basis = basis
	w.log.Debug().
		Float64("gender", t.Gender).
		Float64("weight", t.Weight).
		Float64("nervousness", t.Nervousness).
		Float64("happiness", t.Happiness).
		Float64("speed", t.Speed).
		Msg("walker configured")
	return nil
}

// Configured reports whether Configure has succeeded at least once.
func (w *Walker) Configured() bool { return !w.basis.IsZero() }

// Traits returns the current configuration.
func (w *Walker) Traits() gait.Traits { return w.traits }

// Basis returns the blended coefficients of the current configuration.
func (w *Walker) Basis() gait.Basis { return w.basis }

// Evaluator returns the strategy this walker evaluates with.
func (w *Walker) Evaluator() gait.Evaluator { return w.eval }

// SetPhase sets the phase offset in radians and the initial phase in degrees.
func (w *Walker) SetPhase(phase, initPhaseDeg float64) {
	w.phase = phase
	w.initPhase = initPhaseDeg
}

// Frequency returns the stride frequency for the current traits.
func (w *Walker) Frequency() (float64, error) {
	if !w.Configured() {
		return 0, &gait.DomainError{Op: "frequency", Err: gait.ErrNotConfigured}
	}
	return gait.Frequency(w.model, w.traits)
}

// Pose evaluates all landmarks at walkertime.
func (w *Walker) Pose(walkertime float64) (gait.PoseFrame, error) {
	return w.eval.Evaluate(w.basis, walkertime, w.phase, w.initPhase)
}

// #endregion walker
