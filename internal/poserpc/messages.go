package poserpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
)

// #region request

// Request is one evaluation query. An empty Evaluator uses the server default.
type Request struct {
	Traits     gait.Traits
	Walkertime float64
	Phase      float64
	InitPhase  float64
	Evaluator  string
}

func (r Request) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"gender":      r.Traits.Gender,
		"weight":      r.Traits.Weight,
		"nervousness": r.Traits.Nervousness,
		"happiness":   r.Traits.Happiness,
		"speed":       r.Traits.Speed,
		"customness":  r.Traits.Customness,
		"walkertime":  r.Walkertime,
		"phase":       r.Phase,
		"init_phase":  r.InitPhase,
		"evaluator":   r.Evaluator,
	})
}

// requestFromStruct reads a request; absent numbers are zero.
func requestFromStruct(s *structpb.Struct) Request {
	f := s.GetFields()
	num := func(k string) float64 { return f[k].GetNumberValue() }
	return Request{
		Traits: gait.Traits{
			Gender:      num("gender"),
			Weight:      num("weight"),
			Nervousness: num("nervousness"),
			Happiness:   num("happiness"),
			Speed:       num("speed"),
			Customness:  num("customness"),
		},
		Walkertime: num("walkertime"),
		Phase:      num("phase"),
		InitPhase:  num("init_phase"),
		Evaluator:  f["evaluator"].GetStringValue(),
	}
}

// #endregion request

// #region response

func framesToStruct(evaluator string, frame gait.PoseFrame) (*structpb.Struct, error) {
	poses := make([]interface{}, len(frame))
	for i, p := range frame {
		poses[i] = map[string]interface{}{
			"part": p.Part,
			"x":    p.X,
			"y":    p.Y,
			"z":    p.Z,
		}
	}
	return structpb.NewStruct(map[string]interface{}{
		"evaluator": evaluator,
		"poses":     poses,
	})
}

func framesFromStruct(s *structpb.Struct) (gait.PoseFrame, error) {
	list := s.GetFields()["poses"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("decode poses: missing poses list")
	}
	frame := make(gait.PoseFrame, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		ps := v.GetStructValue()
		if ps == nil {
			return nil, fmt.Errorf("decode poses: entry %d is not an object", i)
		}
		f := ps.GetFields()
		frame = append(frame, gait.Pose{
			Part: f["part"].GetStringValue(),
			X:    f["x"].GetNumberValue(),
			Y:    f["y"].GetNumberValue(),
			Z:    f["z"].GetNumberValue(),
		})
	}
	return frame, nil
}

// #endregion response
