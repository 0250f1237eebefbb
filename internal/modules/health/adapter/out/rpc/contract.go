package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	ProviderMapKey     = "walkread"
	serviceName        = "walkread.provider.v1.StepProvider"
	jsonCodecName      = "json"
	methodGetMetadata  = "/" + serviceName + "/GetMetadata"
	methodTodaySteps   = "/" + serviceName + "/TodaySteps"
	methodStepsForDate = "/" + serviceName + "/StepsForDate"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "WALKREAD_PROVIDER",
	MagicCookieValue: "walkread",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type StepsResponse struct {
	Steps int32 `json:"steps"`
}

type StepsForDateRequest struct {
	Date string `json:"date"`
}

type StepProviderServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	TodaySteps(ctx context.Context, in *Empty) (*StepsResponse, error)
	StepsForDate(ctx context.Context, in *StepsForDateRequest) (*StepsResponse, error)
}

type StepProviderClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	TodaySteps(ctx context.Context) (*StepsResponse, error)
	StepsForDate(ctx context.Context, in *StepsForDateRequest) (*StepsResponse, error)
}

type stepProviderClient struct {
	conn *grpc.ClientConn
}

func NewStepProviderClient(conn *grpc.ClientConn) StepProviderClient {
	return &stepProviderClient{conn: conn}
}

func (c *stepProviderClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stepProviderClient) TodaySteps(ctx context.Context) (*StepsResponse, error) {
	out := &StepsResponse{}
	if err := c.conn.Invoke(ctx, methodTodaySteps, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stepProviderClient) StepsForDate(ctx context.Context, in *StepsForDateRequest) (*StepsResponse, error) {
	out := &StepsResponse{}
	if err := c.conn.Invoke(ctx, methodStepsForDate, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterStepProviderServer(server grpc.ServiceRegistrar, impl StepProviderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*StepProviderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "TodaySteps",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.TodaySteps(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodTodaySteps}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.TodaySteps(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "StepsForDate",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &StepsForDateRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.StepsForDate(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodStepsForDate}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*StepsForDateRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.StepsForDate(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/provider-rpc-v1.proto",
	}, impl)
}

type GRPCProvider struct {
	plugin.NetRPCUnsupportedPlugin
	Impl StepProviderServer
}

func (p *GRPCProvider) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterStepProviderServer(server, p.Impl)
	return nil
}

func (p *GRPCProvider) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewStepProviderClient(conn), nil
}

func PluginMap(impl StepProviderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		ProviderMapKey: &GRPCProvider{Impl: impl},
	}
}
