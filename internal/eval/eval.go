// Package eval checks that evaluation strategies agree with each other and
// that the evaluated gait is periodic.
package eval

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
)

// #region eval-harness
// EvalHarness compares a candidate evaluator against a reference.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run blends traits with both evaluators, compares the bases, then compares
// every sampled frame. It also checks that the reference repeats after 2π.
func (h *EvalHarness) Run(m *model.GaitModel, t gait.Traits, ref, cand gait.Evaluator) (EvalResult, error) {
	var metrics []EvalMetric
	var failReasons []string

	refBasis, err := ref.Blend(m, t)
	if err != nil {
		return EvalResult{}, fmt.Errorf("blend %s: %w", ref.Name(), err)
	}
	candBasis, err := cand.Blend(m, t)
	if err != nil {
		return EvalResult{}, fmt.Errorf("blend %s: %w", cand.Name(), err)
	}

	// 1. Basis agreement
	basisRel := 0.0
	for i := 0; i < refBasis.Len(); i++ {
		_, rel := h.deviation(refBasis.At(i), candBasis.At(i))
		basisRel = math.Max(basisRel, rel)
	}
	basisPass := basisRel <= h.config.RelTolerance
	metrics = append(metrics, EvalMetric{Name: "basis_max_rel", Value: basisRel, Pass: basisPass})
	if !basisPass {
		failReasons = append(failReasons, fmt.Sprintf("basis deviation %.3g exceeds %.3g", basisRel, h.config.RelTolerance))
	}

	// 2. Frame agreement
	var frameAbs, frameRel, drift float64
	for _, wt := range h.config.Times {
		a, err := ref.Evaluate(refBasis, wt, 0, 0)
		if err != nil {
			return EvalResult{}, fmt.Errorf("evaluate %s at %g: %w", ref.Name(), wt, err)
		}
		b, err := cand.Evaluate(candBasis, wt, 0, 0)
		if err != nil {
			return EvalResult{}, fmt.Errorf("evaluate %s at %g: %w", cand.Name(), wt, err)
		}
		abs, rel, err := h.Compare(a, b)
		if err != nil {
			return EvalResult{}, err
		}
		frameAbs = math.Max(frameAbs, abs)
		frameRel = math.Max(frameRel, rel)

		// 3. Periodicity of the reference
		next, err := ref.Evaluate(refBasis, wt+2*math.Pi, 0, 0)
		if err != nil {
			return EvalResult{}, fmt.Errorf("evaluate %s at %g: %w", ref.Name(), wt+2*math.Pi, err)
		}
		_, d, err := h.Compare(a, next)
		if err != nil {
			return EvalResult{}, err
		}
		drift = math.Max(drift, d)
	}
	framePass := frameRel <= h.config.RelTolerance
	metrics = append(metrics,
		EvalMetric{Name: "frame_max_abs", Value: frameAbs, Pass: framePass},
		EvalMetric{Name: "frame_max_rel", Value: frameRel, Pass: framePass},
	)
	if !framePass {
		failReasons = append(failReasons, fmt.Sprintf("frame deviation %.3g exceeds %.3g", frameRel, h.config.RelTolerance))
	}
	periodPass := drift <= h.config.PeriodicityTolerance
	metrics = append(metrics, EvalMetric{Name: "period_max_rel", Value: drift, Pass: periodPass})
	if !periodPass {
		failReasons = append(failReasons, fmt.Sprintf("period drift %.3g exceeds %.3g", drift, h.config.PeriodicityTolerance))
	}

	reason := "all checks passed"
	if len(failReasons) > 0 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}
	return EvalResult{
		Passed:  len(failReasons) == 0,
		Metrics: metrics,
		Reason:  reason,
	}, nil
}

// Compare returns the largest absolute and relative coordinate deviation
// between two frames. Frames must list the same parts in the same order.
func (h *EvalHarness) Compare(a, b gait.PoseFrame) (maxAbs, maxRel float64, err error) {
	if len(a) != len(b) {
		return 0, 0, fmt.Errorf("compare frames: %d vs %d landmarks", len(a), len(b))
	}
	for i := range a {
		if a[i].Part != b[i].Part {
			return 0, 0, fmt.Errorf("compare frames: landmark %d is %q vs %q", i, a[i].Part, b[i].Part)
		}
		for _, pair := range [3][2]float64{{a[i].X, b[i].X}, {a[i].Y, b[i].Y}, {a[i].Z, b[i].Z}} {
			abs, rel := h.deviation(pair[0], pair[1])
			maxAbs = math.Max(maxAbs, abs)
			maxRel = math.Max(maxRel, rel)
		}
	}
	return maxAbs, maxRel, nil
}

// #endregion eval-harness

// #region helpers
// deviation returns |a-b| and the relative deviation. Differences under the
// absolute tolerance count as zero relative deviation.
func (h *EvalHarness) deviation(a, b float64) (abs, rel float64) {
	abs = math.Abs(a - b)
	if abs <= h.config.AbsTolerance {
		return abs, 0
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return abs, abs / scale
}

// #endregion helpers
