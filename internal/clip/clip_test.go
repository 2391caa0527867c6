package clip

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/walker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const meanFrequency = 120.0

func testModel(t *testing.T) *model.GaitModel {
	t.Helper()
	const n = 3
	size := model.HarmonicBlocks * (3*n + 1)
	vec := func(scale float64) []float64 {
		v := make([]float64, size)
		for i := range v {
			v[i] = scale * math.Cos(float64(i)*0.7)
		}
		return v
	}
	mean := vec(10)
	mean[3*n] = meanFrequency
	m, err := model.New(model.Artifact{
		MeanWalker:  mean,
		GenderAxis:  vec(1),
		WeightAxis:  vec(2),
		NervousAxis: vec(-1),
		HappyAxis:   vec(0.5),
		CustomAxis:  vec(0),
		BodyParts:   []string{"head", "leftFoot", "rightFoot"},
	})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	return m
}

func configured(t *testing.T, tr gait.Traits) *walker.Walker {
	t.Helper()
	w := walker.New(testModel(t), nil, zerolog.Nop())
	if err := w.Configure(tr); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return w
}

// #region render

func TestRenderDefaultSettings(t *testing.T) {
	w := configured(t, gait.Neutral())
	c, err := Render(w, DefaultSettings())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(c.Keyframes) != 84 {
		t.Fatalf("expected 84 keyframes, got %d", len(c.Keyframes))
	}
	if c.ID == "" {
		t.Fatal("expected a clip ID")
	}
	if c.Frequency != meanFrequency {
		t.Fatalf("frequency = %v, want %v", c.Frequency, meanFrequency)
	}
	if c.Evaluator != gait.NameDirect {
		t.Fatalf("evaluator = %q", c.Evaluator)
	}
	if first, last := c.Keyframes[0].Frame, c.Keyframes[83].Frame; first != 1 || last != 250 {
		t.Fatalf("frame range = %d..%d, want 1..250", first, last)
	}

	// 24 fps at resolution 3 advances host time by 125 ms per keyframe; with
	// frequency 120 walkertime is curtime / 159.1549.
	for _, k := range []int{0, 1, 10, 83} {
		curtime := 1 + 125*float64(k)
		want := curtime / 159.1549
		if got := c.Keyframes[k].Walkertime; math.Abs(got-want) > 1e-12 {
			t.Fatalf("keyframe %d walkertime = %v, want %v", k, got, want)
		}
		pose, err := w.Pose(want)
		if err != nil {
			t.Fatalf("Pose: %v", err)
		}
		if diff := cmp.Diff(pose, c.Keyframes[k].Poses, cmpopts.EquateApprox(1e-12, 1e-12)); diff != "" {
			t.Fatalf("keyframe %d poses differ:\n%s", k, diff)
		}
	}
}

func TestRenderSingleFrame(t *testing.T) {
	w := configured(t, gait.Traits{Speed: 2})
	c, err := Render(w, Settings{Start: 5, End: 5, Resolution: 1, FPS: 30, Scale: 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(c.Keyframes) != 1 || c.Keyframes[0].Frame != 5 {
		t.Fatalf("unexpected keyframes: %+v", c.Keyframes)
	}
	// frequency halves with speed 2, so walkertime doubles
	want := 1 / 159.1549 * (120 / 60.0)
	if got := c.Keyframes[0].Walkertime; math.Abs(got-want) > 1e-12 {
		t.Fatalf("walkertime = %v, want %v", got, want)
	}
}

func TestRenderUnconfigured(t *testing.T) {
	w := walker.New(testModel(t), nil, zerolog.Nop())
	_, err := Render(w, DefaultSettings())
	if !errors.Is(err, gait.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
		ok   bool
	}{
		{"defaults", DefaultSettings(), true},
		{"zero scale", Settings{Start: 0, End: 0, Resolution: 1, FPS: 1}, true},
		{"negative start", Settings{Start: -1, End: 5, Resolution: 1, FPS: 24}, false},
		{"end before start", Settings{Start: 10, End: 5, Resolution: 1, FPS: 24}, false},
		{"zero resolution", Settings{Start: 1, End: 5, Resolution: 0, FPS: 24}, false},
		{"zero fps", Settings{Start: 1, End: 5, Resolution: 1, FPS: 0}, false},
		{"negative scale", Settings{Start: 1, End: 5, Resolution: 1, FPS: 24, Scale: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestWalkerTimeZeroFrequency(t *testing.T) {
	_, err := WalkerTime(1, 0)
	var de *gait.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected *gait.DomainError, got %v", err)
	}
}

func TestRestPose(t *testing.T) {
	w := configured(t, gait.Traits{Gender: -0.4, Speed: 1})
	got, err := RestPose(w)
	if err != nil {
		t.Fatalf("RestPose: %v", err)
	}
	want, _ := w.Pose(1)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rest pose differs from walkertime 1:\n%s", diff)
	}
}

// #endregion render

// #region host

func TestPlace(t *testing.T) {
	got := Place(gait.Pose{Part: "head", X: 20, Y: 40, Z: -60}, 2)
	want := Location{X: 2, Y: -6, Z: 4}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("Place (-want +got):\n%s", diff)
	}
}

func TestHostKeyframes(t *testing.T) {
	c := Clip{
		Settings: Settings{Scale: 20},
		Keyframes: []Keyframe{
			{Frame: 4, Poses: gait.PoseFrame{{Part: "a", X: 1, Y: 2, Z: 3}}},
		},
	}
	got := HostKeyframes(c)
	want := []HostKeyframe{{Frame: 4, Objects: []HostObject{{Name: "a", Location: Location{X: 1, Y: 3, Z: 2}}}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("HostKeyframes (-want +got):\n%s", diff)
	}
}

func TestWriteFormats(t *testing.T) {
	w := configured(t, gait.Neutral())
	c, err := Render(w, Settings{Start: 1, End: 7, Resolution: 3, FPS: 24, Scale: 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var jsonBuf bytes.Buffer
	if err := Write(&jsonBuf, c, "json", false); err != nil {
		t.Fatalf("Write json: %v", err)
	}
	var decoded Clip
	if err := json.Unmarshal(jsonBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded.ID != c.ID || len(decoded.Keyframes) != 3 {
		t.Fatalf("decoded clip = %s with %d keyframes", decoded.ID, len(decoded.Keyframes))
	}

	var yamlBuf bytes.Buffer
	if err := Write(&yamlBuf, c, "yaml", true); err != nil {
		t.Fatalf("Write yaml: %v", err)
	}
	var host []HostKeyframe
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &host); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(host) != 3 || host[2].Frame != 7 || host[2].Objects[0].Name != "head" {
		t.Fatalf("unexpected host keyframes: %+v", host)
	}

	if err := Write(&bytes.Buffer{}, c, "xml", false); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

// #endregion host

// #region batch

func TestRenderBatch(t *testing.T) {
	m := testModel(t)
	jobs := []Job{
		{Name: "neutral", Traits: gait.Neutral()},
		{Name: "heavy", Traits: gait.Traits{Weight: 1, Speed: 1}},
		{Name: "fast", Traits: gait.Traits{Speed: 2}},
		{Name: "happy", Traits: gait.Traits{Happiness: 0.8, Speed: 1}},
	}
	s := Settings{Start: 1, End: 30, Resolution: 3, FPS: 24, Scale: 1}

	clips, err := RenderBatch(context.Background(), m, gait.Matrix{}, jobs, s, 2, zerolog.Nop())
	if err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	if len(clips) != len(jobs) {
		t.Fatalf("expected %d clips, got %d", len(jobs), len(clips))
	}
	for i, c := range clips {
		if c.Name != jobs[i].Name {
			t.Fatalf("clip %d name = %q, want %q", i, c.Name, jobs[i].Name)
		}
		if c.Traits != jobs[i].Traits {
			t.Fatalf("clip %d traits = %+v", i, c.Traits)
		}
		if c.Evaluator != gait.NameMatrix {
			t.Fatalf("clip %d evaluator = %q", i, c.Evaluator)
		}
		if len(c.Keyframes) != 10 {
			t.Fatalf("clip %d has %d keyframes", i, len(c.Keyframes))
		}
	}

	// Each batch clip must match a clip rendered on its own.
	w := walker.New(m, gait.Matrix{}, zerolog.Nop())
	if err := w.Configure(jobs[1].Traits); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	solo, err := Render(w, s)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if diff := cmp.Diff(solo.Keyframes, clips[1].Keyframes); diff != "" {
		t.Fatalf("batch clip differs from solo render:\n%s", diff)
	}
}

func TestRenderBatchFailure(t *testing.T) {
	jobs := []Job{
		{Name: "ok", Traits: gait.Neutral()},
		{Name: "stopped", Traits: gait.Traits{Speed: 0}},
	}
	_, err := RenderBatch(context.Background(), testModel(t), nil, jobs, DefaultSettings(), 0, zerolog.Nop())
	if !errors.Is(err, gait.ErrZeroSpeed) {
		t.Fatalf("expected ErrZeroSpeed, got %v", err)
	}
	if !strings.Contains(err.Error(), `"stopped"`) {
		t.Fatalf("error does not name the job: %v", err)
	}
}

func TestRenderBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderBatch(ctx, testModel(t), nil, []Job{{Name: "x", Traits: gait.Neutral()}}, DefaultSettings(), 1, zerolog.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// #endregion batch
