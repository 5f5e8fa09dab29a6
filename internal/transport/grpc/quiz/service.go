package quiz

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "quiz.v1.QuizAuthoringService"

// Method names of the service.
const (
	MethodOpenSession   = "OpenSession"
	MethodGetSession    = "GetSession"
	MethodApplyEdit     = "ApplyEdit"
	MethodValidate      = "Validate"
	MethodGetChanges    = "GetChanges"
	MethodResetSession  = "ResetSession"
	MethodClearChanges  = "ClearChanges"
	MethodSave          = "Save"
	MethodCloseSession  = "CloseSession"
	MethodListQuestions = "ListQuestions"
)

// QuizAuthoringServiceServer is the server API. Requests and replies are
// google.protobuf.Struct messages.
type QuizAuthoringServiceServer interface {
	OpenSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApplyEdit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetChanges(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearChanges(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Save(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListQuestions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(QuizAuthoringServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(QuizAuthoringServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(QuizAuthoringServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes QuizAuthoringService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QuizAuthoringServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodOpenSession, QuizAuthoringServiceServer.OpenSession),
		unaryMethod(MethodGetSession, QuizAuthoringServiceServer.GetSession),
		unaryMethod(MethodApplyEdit, QuizAuthoringServiceServer.ApplyEdit),
		unaryMethod(MethodValidate, QuizAuthoringServiceServer.Validate),
		unaryMethod(MethodGetChanges, QuizAuthoringServiceServer.GetChanges),
		unaryMethod(MethodResetSession, QuizAuthoringServiceServer.ResetSession),
		unaryMethod(MethodClearChanges, QuizAuthoringServiceServer.ClearChanges),
		unaryMethod(MethodSave, QuizAuthoringServiceServer.Save),
		unaryMethod(MethodCloseSession, QuizAuthoringServiceServer.CloseSession),
		unaryMethod(MethodListQuestions, QuizAuthoringServiceServer.ListQuestions),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quiz/v1/quiz_authoring.proto",
}

// RegisterQuizAuthoringServiceServer registers srv with s.
func RegisterQuizAuthoringServiceServer(s grpc.ServiceRegistrar, srv QuizAuthoringServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls QuizAuthoringService over conn.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with in and returns the reply.
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
