package eval

import (
	"math"
	"strings"
	"testing"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
)

func makeModel(t *testing.T) *model.GaitModel {
	t.Helper()
	const n = 4
	size := model.HarmonicBlocks * (3*n + 1)
	vec := func(seed float64) []float64 {
		v := make([]float64, size)
		for i := range v {
			v[i] = 50 * math.Sin(seed+float64(i)*1.3)
		}
		return v
	}
	m, err := model.New(model.Artifact{
		MeanWalker:  vec(0),
		GenderAxis:  vec(1),
		WeightAxis:  vec(2),
		NervousAxis: vec(3),
		HappyAxis:   vec(4),
		CustomAxis:  vec(5),
		BodyParts:   []string{"head", "pelvis", "leftFoot", "rightFoot"},
	})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	return m
}

// skewed wraps an evaluator and shifts every x coordinate.
type skewed struct {
	gait.Evaluator
	offset float64
}

func (s skewed) Name() string { return "skewed" }

func (s skewed) Evaluate(b gait.Basis, walkertime, phase, initPhase float64) (gait.PoseFrame, error) {
	frame, err := s.Evaluator.Evaluate(b, walkertime, phase, initPhase)
	if err != nil {
		return nil, err
	}
	for i := range frame {
		frame[i].X += s.offset
	}
	return frame, nil
}

func metric(t *testing.T, r EvalResult, name string) EvalMetric {
	t.Helper()
	for _, m := range r.Metrics {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("metric %s missing", name)
	return EvalMetric{}
}

func TestEvalPassesForBuiltinEvaluators(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	m := makeModel(t)

	for _, tr := range []gait.Traits{
		gait.Neutral(),
		{Gender: 1, Weight: -1, Nervousness: 0.5, Happiness: -0.5, Speed: 1},
		{Gender: 2.5, Customness: 1, Speed: 3},
	} {
		result, err := h.Run(m, tr, gait.Direct{}, gait.Matrix{})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !result.Passed {
			t.Fatalf("expected pass for %+v, got: %s", tr, result.Reason)
		}
		if result.Reason != "all checks passed" {
			t.Fatalf("unexpected reason %q", result.Reason)
		}
	}
}

func TestEvalMetricCount(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	result, err := h.Run(makeModel(t), gait.Neutral(), gait.Direct{}, gait.Matrix{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// basis_max_rel, frame_max_abs, frame_max_rel, period_max_rel
	if len(result.Metrics) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(result.Metrics))
	}
}

func TestEvalFailsOnFrameDeviation(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	result, err := h.Run(makeModel(t), gait.Neutral(), gait.Direct{}, skewed{Evaluator: gait.Direct{}, offset: 1e-3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Passed {
		t.Fatal("expected fail for a skewed evaluator")
	}
	if !metric(t, result, "basis_max_rel").Pass {
		t.Fatal("basis should still agree")
	}
	fr := metric(t, result, "frame_max_abs")
	if fr.Pass || math.Abs(fr.Value-1e-3) > 1e-9 {
		t.Fatalf("frame_max_abs = %+v, want failing 1e-3", fr)
	}
	if !strings.Contains(result.Reason, "frame deviation") {
		t.Fatalf("reason = %q", result.Reason)
	}
}

func TestEvalToleratesTinyOffset(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	result, err := h.Run(makeModel(t), gait.Neutral(), gait.Direct{}, skewed{Evaluator: gait.Direct{}, offset: 1e-12})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Passed {
		t.Fatalf("offset below the absolute tolerance should pass: %s", result.Reason)
	}
}

func TestEvalBlendError(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	if _, err := h.Run(nil, gait.Neutral(), gait.Direct{}, gait.Matrix{}); err == nil {
		t.Fatal("expected error for nil model")
	}
}

func TestCompare(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	a := gait.PoseFrame{{Part: "a", X: 100, Y: 1, Z: 0}}
	b := gait.PoseFrame{{Part: "a", X: 101, Y: 1, Z: 0}}

	abs, rel, err := h.Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if abs != 1 || math.Abs(rel-1.0/101) > 1e-15 {
		t.Fatalf("Compare = %v, %v", abs, rel)
	}

	if _, _, err := h.Compare(a, gait.PoseFrame{}); err == nil {
		t.Fatal("expected landmark count error")
	}
	if _, _, err := h.Compare(a, gait.PoseFrame{{Part: "b"}}); err == nil {
		t.Fatal("expected landmark name error")
	}
}
