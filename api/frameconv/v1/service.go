package frameconvv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the frame conversion service.
const ServiceName = "frameconv.v1.FrameConversion"

const (
	getTransformationMethod      = "/" + ServiceName + "/GetTransformation"
	publishTransformationsMethod = "/" + ServiceName + "/PublishTransformations"
	subscribeMethod              = "/" + ServiceName + "/Subscribe"
	getCalibrationMethod         = "/" + ServiceName + "/GetCalibration"
	statusMethod                 = "/" + ServiceName + "/Status"
)

type encoder interface {
	Encode() (*structpb.Struct, error)
}

// FrameConversionServer is the server API of the frame conversion service.
type FrameConversionServer interface {
	GetTransformation(context.Context, GetTransformationRequest) (GetTransformationResponse, error)
	PublishTransformations(context.Context, PublishTransformationsRequest) (PublishTransformationsResponse, error)
	Subscribe(SubscribeRequest, SubscribeServer) error
	GetCalibration(context.Context, GetCalibrationRequest) (GetCalibrationResponse, error)
	Status(context.Context, StatusRequest) (StatusResponse, error)
}

// SubscribeServer is the server side of a Subscribe stream.
type SubscribeServer interface {
	Send(Transformation) error
	Context() context.Context
}

// FrameConversion_ServiceDesc describes the service for grpc.Server.RegisterService.
//
//nolint:revive,stylecheck // grpc naming convention
var FrameConversion_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FrameConversionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetTransformation",
			Handler:    unaryHandler(getTransformationMethod, DecodeGetTransformationRequest, FrameConversionServer.GetTransformation),
		},
		{
			MethodName: "PublishTransformations",
			Handler: unaryHandler(
				publishTransformationsMethod,
				DecodePublishTransformationsRequest,
				FrameConversionServer.PublishTransformations,
			),
		},
		{
			MethodName: "GetCalibration",
			Handler:    unaryHandler(getCalibrationMethod, DecodeGetCalibrationRequest, FrameConversionServer.GetCalibration),
		},
		{
			MethodName: "Status",
			Handler:    unaryHandler(statusMethod, DecodeStatusRequest, FrameConversionServer.Status),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "frameconv/v1",
}

// RegisterFrameConversionServer registers srv on s.
func RegisterFrameConversionServer(s grpc.ServiceRegistrar, srv FrameConversionServer) {
	s.RegisterService(&FrameConversion_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp encoder](
	method string,
	decode func(*structpb.Struct) (Req, error),
	call func(FrameConversionServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			decoded, err := decode(req.(*structpb.Struct))
			if err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			resp, err := call(srv.(FrameConversionServer), ctx, decoded)
			if err != nil {
				return nil, err
			}
			return resp.Encode()
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, handler)
	}
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	req, err := DecodeSubscribeRequest(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return srv.(FrameConversionServer).Subscribe(req, &subscribeServer{stream})
}

type subscribeServer struct {
	grpc.ServerStream
}

func (s *subscribeServer) Send(tf Transformation) error {
	msg, err := tf.Encode()
	if err != nil {
		return err
	}
	return s.SendMsg(msg)
}

// FrameConversionClient is the client API of the frame conversion service.
type FrameConversionClient interface {
	GetTransformation(ctx context.Context, req GetTransformationRequest, opts ...grpc.CallOption) (GetTransformationResponse, error)
	PublishTransformations(
		ctx context.Context, req PublishTransformationsRequest, opts ...grpc.CallOption,
	) (PublishTransformationsResponse, error)
	Subscribe(ctx context.Context, req SubscribeRequest, opts ...grpc.CallOption) (SubscribeClient, error)
	GetCalibration(ctx context.Context, req GetCalibrationRequest, opts ...grpc.CallOption) (GetCalibrationResponse, error)
	Status(ctx context.Context, req StatusRequest, opts ...grpc.CallOption) (StatusResponse, error)
}

// SubscribeClient is the client side of a Subscribe stream.
type SubscribeClient interface {
	Recv() (Transformation, error)
}

type frameConversionClient struct {
	cc grpc.ClientConnInterface
}

// NewFrameConversionClient creates a client that issues calls on cc.
func NewFrameConversionClient(cc grpc.ClientConnInterface) FrameConversionClient {
	return &frameConversionClient{cc: cc}
}

func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	req encoder,
	decode func(*structpb.Struct) (Resp, error),
	opts ...grpc.CallOption,
) (Resp, error) {
	var zero Resp
	in, err := req.Encode()
	if err != nil {
		return zero, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return zero, err
	}
	return decode(out)
}

func (c *frameConversionClient) GetTransformation(
	ctx context.Context, req GetTransformationRequest, opts ...grpc.CallOption,
) (GetTransformationResponse, error) {
	return invoke(ctx, c.cc, getTransformationMethod, req, DecodeGetTransformationResponse, opts...)
}

func (c *frameConversionClient) PublishTransformations(
	ctx context.Context, req PublishTransformationsRequest, opts ...grpc.CallOption,
) (PublishTransformationsResponse, error) {
	return invoke(ctx, c.cc, publishTransformationsMethod, req, DecodePublishTransformationsResponse, opts...)
}

func (c *frameConversionClient) GetCalibration(
	ctx context.Context, req GetCalibrationRequest, opts ...grpc.CallOption,
) (GetCalibrationResponse, error) {
	return invoke(ctx, c.cc, getCalibrationMethod, req, DecodeGetCalibrationResponse, opts...)
}

func (c *frameConversionClient) Status(
	ctx context.Context, req StatusRequest, opts ...grpc.CallOption,
) (StatusResponse, error) {
	return invoke(ctx, c.cc, statusMethod, req, DecodeStatusResponse, opts...)
}

func (c *frameConversionClient) Subscribe(
	ctx context.Context, req SubscribeRequest, opts ...grpc.CallOption,
) (SubscribeClient, error) {
	in, err := req.Encode()
	if err != nil {
		return nil, err
	}
	stream, err := c.cc.NewStream(ctx, &FrameConversion_ServiceDesc.Streams[0], subscribeMethod, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &subscribeClient{stream}, nil
}

type subscribeClient struct {
	grpc.ClientStream
}

func (c *subscribeClient) Recv() (Transformation, error) {
	out := new(structpb.Struct)
	if err := c.RecvMsg(out); err != nil {
		return Transformation{}, err
	}
	return DecodeTransformation(out)
}
