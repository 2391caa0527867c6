package poserpc

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/walker"
)

// #region server

// Server answers pose queries from a shared model. Every request gets its own
// walker, so the server holds no per-client state.
type Server struct {
	model *model.GaitModel
	eval  gait.Evaluator
	log   zerolog.Logger
}

// NewServer returns a pose server. A nil evaluator selects gait.Direct.
func NewServer(m *model.GaitModel, eval gait.Evaluator, log zerolog.Logger) *Server {
	if eval == nil {
		eval = gait.Direct{}
	}
	return &Server{model: m, eval: eval, log: log.With().Str("component", "pose_server").Logger()}
}

// Evaluate configures a walker from the request and returns its pose.
func (s *Server) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := requestFromStruct(in)
	w, err := s.walker(req)
	if err != nil {
		return nil, err
	}
	w.SetPhase(req.Phase, req.InitPhase)
	frame, err := w.Pose(req.Walkertime)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := framesToStruct(w.Evaluator().Name(), frame)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode poses: %v", err)
	}
	return out, nil
}

// Frequency returns the stride frequency for the request traits.
func (s *Server) Frequency(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := requestFromStruct(in)
	w, err := s.walker(req)
	if err != nil {
		return nil, err
	}
	f, err := w.Frequency()
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]interface{}{"frequency": f})
}

func (s *Server) walker(req Request) (*walker.Walker, error) {
	if s.model == nil {
		return nil, status.Error(codes.FailedPrecondition, "gait model not loaded")
	}
	ev := s.eval
	if req.Evaluator != "" {
		var err error
		if ev, err = gait.ByName(req.Evaluator); err != nil {
			return nil, toStatus(err)
		}
	}
	w := walker.New(s.model, ev, s.log)
	if err := w.Configure(req.Traits); err != nil {
		s.log.Debug().Err(err).Msg("rejecting pose request")
		return nil, toStatus(err)
	}
	return w, nil
}

func toStatus(err error) error {
	var de *gait.DomainError
	if errors.As(err, &de) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	var le *model.LoadError
	if errors.As(err, &le) {
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// #endregion server
