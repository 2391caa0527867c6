// Package clip samples a configured walker into keyframes for an animation
// host. Frame numbering, timing and host scale live here, not in the model.
package clip

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/walker"
)

// #region constants

const (
	// msPerRadian converts host milliseconds to walker phase (1000/2π).
	msPerRadian = 159.1549
	// strideScale stretches the cycle so one stride lasts 120/frequency.
	strideScale = 120.0
	// hostUnit is the model-space size of one host unit at scale 1.
	hostUnit = 20.0
	// restWalkertime is where the rest pose is sampled.
	restWalkertime = 1.0
)

// ErrInvalidSettings is returned for unusable frame ranges.
var ErrInvalidSettings = errors.New("invalid clip settings")

// #endregion constants

// #region types

// Settings control how a walker is sampled into frames.
type Settings struct {
	Start      int     `json:"start" yaml:"start" mapstructure:"start"`
	End        int     `json:"end" yaml:"end" mapstructure:"end"`
	Resolution int     `json:"resolution" yaml:"resolution" mapstructure:"resolution"` // frames between keyframes
	FPS        int     `json:"fps" yaml:"fps" mapstructure:"fps"`
	Scale      float64 `json:"scale" yaml:"scale" mapstructure:"scale"`
}

// DefaultSettings mirrors the add-on panel defaults.
func DefaultSettings() Settings {
	return Settings{Start: 1, End: 250, Resolution: 3, FPS: 24, Scale: 1}
}

// Validate checks the frame range and timing.
func (s Settings) Validate() error {
	switch {
	case s.Start < 0:
		return fmt.Errorf("%w: start %d is negative", ErrInvalidSettings, s.Start)
	case s.End < s.Start:
		return fmt.Errorf("%w: end %d before start %d", ErrInvalidSettings, s.End, s.Start)
	case s.Resolution <= 0:
		return fmt.Errorf("%w: resolution must be positive, got %d", ErrInvalidSettings, s.Resolution)
	case s.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidSettings, s.FPS)
	case s.Scale < 0:
		return fmt.Errorf("%w: scale %g is negative", ErrInvalidSettings, s.Scale)
	}
	return nil
}

// Keyframe is one sampled frame.
type Keyframe struct {
	Frame      int            `json:"frame" yaml:"frame"`
	Walkertime float64        `json:"walkertime" yaml:"walkertime"`
	Poses      gait.PoseFrame `json:"poses" yaml:"poses"`
}

// Clip is a rendered walk cycle.
type Clip struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Traits    gait.Traits `json:"traits" yaml:"traits"`
	Evaluator string      `json:"evaluator" yaml:"evaluator"`
	Frequency float64     `json:"frequency" yaml:"frequency"`
	Settings  Settings    `json:"settings" yaml:"settings"`
	Keyframes []Keyframe  `json:"keyframes" yaml:"keyframes"`
	CreatedAt time.Time   `json:"created_at" yaml:"created_at"`
}

// #endregion types

// #region render

// WalkerTime converts host milliseconds to walker phase for a given stride
// frequency.
func WalkerTime(curtime, frequency float64) (float64, error) {
	if frequency == 0 {
		return 0, &gait.DomainError{Op: "walkertime", Err: errors.New("stride frequency is zero")}
	}
	return curtime / msPerRadian * (strideScale / frequency), nil
}

// Render samples w from s.Start to s.End every s.Resolution frames. Host time
// starts at 1 ms and advances 1000/fps ms per frame.
func Render(w *walker.Walker, s Settings) (Clip, error) {
	if err := s.Validate(); err != nil {
		return Clip{}, err
	}
	freq, err := w.Frequency()
	if err != nil {
		return Clip{}, fmt.Errorf("render: %w", err)
	}

	step := 1000 / float64(s.FPS) * float64(s.Resolution)
	curtime := 1.0
	keyframes := make([]Keyframe, 0, (s.End-s.Start)/s.Resolution+1)
	for frame := s.Start; frame <= s.End; frame += s.Resolution {
		wt, err := WalkerTime(curtime, freq)
		if err != nil {
			return Clip{}, fmt.Errorf("render frame %d: %w", frame, err)
		}
		poses, err := w.Pose(wt)
		if err != nil {
			return Clip{}, fmt.Errorf("render frame %d: %w", frame, err)
		}
		keyframes = append(keyframes, Keyframe{Frame: frame, Walkertime: wt, Poses: poses})
		curtime += step
	}

	return Clip{
		ID:        uuid.New().String(),
		Traits:    w.Traits(),
		Evaluator: w.Evaluator().Name(),
		Frequency: freq,
		Settings:  s,
		Keyframes: keyframes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// RestPose returns the pose used to create host objects before keyframing.
func RestPose(w *walker.Walker) (gait.PoseFrame, error) {
	return w.Pose(restWalkertime)
}

// #endregion render
