package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Scorer service method names. Every message is a BytesValue carrying the JSON scoring contract,
// so no generated code is needed on either side.
const (
	serviceName = "priora.scoring.v1.Scorer"

	methodMetadata = "Metadata"
	methodHealth   = "Health"
	methodAnalyze  = "Analyze"
	methodSuggest  = "Suggest"
	methodExport   = "Export"
	methodFeedback = "Feedback"
)

func fullMethod(name string) string {
	return "/" + serviceName + "/" + name
}

// ScorerServer is the server API of the scoring service.
type ScorerServer interface {
	Metadata(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Health(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Analyze(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Suggest(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Export(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Feedback(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// RegisterScorerServer registers srv on s.
func RegisterScorerServer(s grpc.ServiceRegistrar, srv ScorerServer) {
	s.RegisterService(&scorerServiceDesc, srv)
}

func unaryHandler(name string, call func(ScorerServer, context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(wrapperspb.BytesValue)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ScorerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ScorerServer), ctx, req.(*wrapperspb.BytesValue))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var scorerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ScorerServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(methodMetadata, ScorerServer.Metadata),
		unaryHandler(methodHealth, ScorerServer.Health),
		unaryHandler(methodAnalyze, ScorerServer.Analyze),
		unaryHandler(methodSuggest, ScorerServer.Suggest),
		unaryHandler(methodExport, ScorerServer.Export),
		unaryHandler(methodFeedback, ScorerServer.Feedback),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "priora/scoring/v1/scorer.proto",
}
