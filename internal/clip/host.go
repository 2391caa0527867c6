package clip

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
)

// #region placement

// Location is a position in host coordinates (z up).
type Location struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Place converts a model pose to a host location. Model y is height and model
// z is depth, so the two swap on the way out.
func Place(p gait.Pose, userScale float64) Location {
	s := userScale / hostUnit
	return Location{X: p.X * s, Y: p.Z * s, Z: p.Y * s}
}

// HostObject is one named object location on a host keyframe.
type HostObject struct {
	Name     string   `json:"name" yaml:"name"`
	Location Location `json:"location" yaml:"location"`
}

// HostKeyframe groups the object locations of one frame.
type HostKeyframe struct {
	Frame   int          `json:"frame" yaml:"frame"`
	Objects []HostObject `json:"objects" yaml:"objects"`
}

// HostKeyframes converts every keyframe of c using the clip's scale.
func HostKeyframes(c Clip) []HostKeyframe {
	out := make([]HostKeyframe, len(c.Keyframes))
	for i, kf := range c.Keyframes {
		objs := make([]HostObject, len(kf.Poses))
		for j, p := range kf.Poses {
			objs[j] = HostObject{Name: p.Part, Location: Place(p, c.Settings.Scale)}
		}
		out[i] = HostKeyframe{Frame: kf.Frame, Objects: objs}
	}
	return out
}

// #endregion placement

// #region export

// Write encodes c as "json" or "yaml". With host set, only the host keyframes
// are written.
func Write(w io.Writer, c Clip, format string, host bool) error {
	var v interface{} = c
	if host {
		v = HostKeyframes(c)
	}
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode clip yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode clip json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown clip format %q", format)
	}
}

// #endregion export
