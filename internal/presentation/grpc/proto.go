package grpc

// proto.go describes safepay/fraud/v1/fraud.proto by hand. Messages travel
// with the JSON codec registered in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName             = "safepay.fraud.v1.FraudDetectionService"
	PredictFullMethod       = "/" + ServiceName + "/Predict"
	GetPredictionFullMethod = "/" + ServiceName + "/GetPrediction"
)

// FraudDetectionServiceServer is the server API for FraudDetectionService.
type FraudDetectionServiceServer interface {
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error)
	mustEmbedUnimplementedFraudDetectionServiceServer()
}

// UnimplementedFraudDetectionServiceServer provides forward-compatible default implementations.
type UnimplementedFraudDetectionServiceServer struct{}

func (UnimplementedFraudDetectionServiceServer) Predict(context.Context, *PredictRequest) (*PredictResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedFraudDetectionServiceServer) GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPrediction not implemented")
}
func (UnimplementedFraudDetectionServiceServer) mustEmbedUnimplementedFraudDetectionServiceServer() {}

// RegisterFraudDetectionServiceServer registers srv with the gRPC server.
func RegisterFraudDetectionServiceServer(s grpclib.ServiceRegistrar, srv FraudDetectionServiceServer) {
	s.RegisterService(&_FraudDetectionService_serviceDesc, srv)
}

var _FraudDetectionService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FraudDetectionServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: _FraudDetectionService_Predict_Handler},
		{MethodName: "GetPrediction", Handler: _FraudDetectionService_GetPrediction_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "safepay/fraud/v1/fraud.proto",
}

func _FraudDetectionService_Predict_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(PredictRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FraudDetectionServiceServer).Predict(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: PredictFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FraudDetectionServiceServer).Predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _FraudDetectionService_GetPrediction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetPredictionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FraudDetectionServiceServer).GetPrediction(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: GetPredictionFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FraudDetectionServiceServer).GetPrediction(ctx, req.(*GetPredictionRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// FraudDetectionServiceClient is the client API for FraudDetectionService.
type FraudDetectionServiceClient interface {
	Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error)
	GetPrediction(ctx context.Context, in *GetPredictionRequest, opts ...grpclib.CallOption) (*GetPredictionResponse, error)
}

type fraudDetectionServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewFraudDetectionServiceClient returns a client that always selects the
// JSON codec.
func NewFraudDetectionServiceClient(cc grpclib.ClientConnInterface) FraudDetectionServiceClient {
	return &fraudDetectionServiceClient{cc: cc}
}

func (c *fraudDetectionServiceClient) Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error) {
	out := new(PredictResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, PredictFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fraudDetectionServiceClient) GetPrediction(ctx context.Context, in *GetPredictionRequest, opts ...grpclib.CallOption) (*GetPredictionResponse, error) {
	out := new(GetPredictionResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, GetPredictionFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
