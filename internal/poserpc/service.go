// Package poserpc exposes gait evaluation over gRPC. Messages are
// google.protobuf.Struct values so no generated stubs are needed.
package poserpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-desc

const (
	serviceName     = "walkcycle.v1.PoseService"
	evaluateMethod  = "/" + serviceName + "/Evaluate"
	frequencyMethod = "/" + serviceName + "/Frequency"
)

// PoseServer is the server API of the pose service.
type PoseServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Frequency(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the pose service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PoseServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
		{MethodName: "Frequency", Handler: frequencyHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "walkcycle/v1/pose.proto",
}

// Register attaches srv to a gRPC server.
func Register(s grpc.ServiceRegistrar, srv PoseServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PoseServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: evaluateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PoseServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func frequencyHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PoseServer).Frequency(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: frequencyMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PoseServer).Frequency(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-desc
