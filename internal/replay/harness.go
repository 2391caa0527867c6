// Package replay re-evaluates golden pose fixtures against a model and reports
// drift.
package replay

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/eval"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/walker"
)

// #region types

// Result actions.
const (
	ActionMatch = "match"
	ActionDrift = "drift"
	ActionError = "error"
)

// ReplayConfig selects the evaluator and tolerances for a replay run.
type ReplayConfig struct {
	Evaluator  gait.Evaluator
	EvalConfig eval.EvalConfig
}

// DefaultReplayConfig replays with the direct evaluator.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Evaluator:  gait.Direct{},
		EvalConfig: eval.DefaultEvalConfig(),
	}
}

// ReplayResult is the outcome of one expected frame (or the frequency of a
// case, with Walkertime NaN).
type ReplayResult struct {
	Case       string
	Walkertime float64
	Action     string // "match" | "drift" | "error"
	Reason     string
	MaxAbs     float64
	MaxRel     float64
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Total   int
	Matches int
	Drifts  int
	Errors  int
}

// CaseSpec describes a case to export.
type CaseSpec struct {
	Name      string
	Traits    gait.Traits
	Phase     float64
	InitPhase float64
	Times     []float64
}

// #endregion types

// #region replay

// Replay evaluates every fixture case with a fresh walker and compares it to
// the recorded frames.
func Replay(m *model.GaitModel, f *Fixture, config ReplayConfig) []ReplayResult {
	h := eval.NewEvalHarness(config.EvalConfig)
	var results []ReplayResult

	for _, c := range f.Cases {
		w := walker.New(m, config.Evaluator, zerolog.Nop())
		if err := w.Configure(c.Traits); err != nil {
			results = append(results, ReplayResult{Case: c.Name, Walkertime: math.NaN(), Action: ActionError, Reason: err.Error()})
			continue
		}
		w.SetPhase(c.Phase, c.InitPhase)

		if c.Frequency != nil {
			results = append(results, checkFrequency(h, w, c, config.EvalConfig))
		}

		for _, fr := range c.Frames {
			got, err := w.Pose(fr.Walkertime)
			if err != nil {
				results = append(results, ReplayResult{Case: c.Name, Walkertime: fr.Walkertime, Action: ActionError, Reason: err.Error()})
				continue
			}
			abs, rel, err := h.Compare(fr.Poses, got)
			if err != nil {
				results = append(results, ReplayResult{Case: c.Name, Walkertime: fr.Walkertime, Action: ActionError, Reason: err.Error()})
				continue
			}
			r := ReplayResult{Case: c.Name, Walkertime: fr.Walkertime, Action: ActionMatch, MaxAbs: abs, MaxRel: rel}
			if rel > config.EvalConfig.RelTolerance {
				r.Action = ActionDrift
				r.Reason = fmt.Sprintf("max deviation %.3g (rel %.3g) exceeds %.3g", abs, rel, config.EvalConfig.RelTolerance)
			}
			results = append(results, r)
		}
	}
	return results
}

func checkFrequency(h *eval.EvalHarness, w *walker.Walker, c FixtureCase, cfg eval.EvalConfig) ReplayResult {
	r := ReplayResult{Case: c.Name, Walkertime: math.NaN(), Action: ActionMatch}
	got, err := w.Frequency()
	if err != nil {
		r.Action, r.Reason = ActionError, err.Error()
		return r
	}
	want := *c.Frequency
	r.MaxAbs = math.Abs(got - want)
	if r.MaxAbs > cfg.AbsTolerance {
		r.MaxRel = r.MaxAbs / math.Max(math.Abs(got), math.Abs(want))
	}
	if r.MaxRel > cfg.RelTolerance {
		r.Action = ActionDrift
		r.Reason = fmt.Sprintf("frequency %g, want %g", got, want)
	}
	return r
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{Total: len(results)}
	for _, r := range results {
		switch r.Action {
		case ActionMatch:
			s.Matches++
		case ActionDrift:
			s.Drifts++
		case ActionError:
			s.Errors++
		}
	}
	return s
}

// #endregion replay

// #region export

// Export evaluates each spec and records the frames as a new fixture.
func Export(m *model.GaitModel, ev gait.Evaluator, description string, specs []CaseSpec) (*Fixture, error) {
	if ev == nil {
		ev = gait.Direct{}
	}
	f := &Fixture{Description: description, Evaluator: ev.Name()}
	for _, spec := range specs {
		w := walker.New(m, ev, zerolog.Nop())
		if err := w.Configure(spec.Traits); err != nil {
			return nil, fmt.Errorf("export case %q: %w", spec.Name, err)
		}
		w.SetPhase(spec.Phase, spec.InitPhase)
		freq, err := w.Frequency()
		if err != nil {
			return nil, fmt.Errorf("export case %q: %w", spec.Name, err)
		}
		c := FixtureCase{
			Name:      spec.Name,
			Traits:    spec.Traits,
			Phase:     spec.Phase,
			InitPhase: spec.InitPhase,
			Frequency: &freq,
		}
		for _, wt := range spec.Times {
			poses, err := w.Pose(wt)
			if err != nil {
				return nil, fmt.Errorf("export case %q at %g: %w", spec.Name, wt, err)
			}
			c.Frames = append(c.Frames, FixtureFrame{Walkertime: wt, Poses: poses})
		}
		f.Cases = append(f.Cases, c)
	}
	return f, nil
}

// #endregion export
