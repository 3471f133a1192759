package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Declared by hand in the shape protoc-gen-go-grpc emits. Requests and
// responses are google.protobuf.Struct so no generated message types are needed.

const (
	ProfileReader_GetProfile_FullMethodName    = "/linkhub.v1.ProfileReader/GetProfile"
	ProfileReader_CheckUsername_FullMethodName = "/linkhub.v1.ProfileReader/CheckUsername"
)

type ProfileReaderClient interface {
	GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CheckUsername(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type profileReaderClient struct {
	cc grpc.ClientConnInterface
}

func NewProfileReaderClient(cc grpc.ClientConnInterface) ProfileReaderClient {
	return &profileReaderClient{cc}
}

func (c *profileReaderClient) GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ProfileReader_GetProfile_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *profileReaderClient) CheckUsername(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ProfileReader_CheckUsername_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type ProfileReaderServer interface {
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckUsername(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterProfileReaderServer(s grpc.ServiceRegistrar, srv ProfileReaderServer) {
	s.RegisterService(&ProfileReader_ServiceDesc, srv)
}

func _ProfileReader_GetProfile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileReaderServer).GetProfile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ProfileReader_GetProfile_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProfileReaderServer).GetProfile(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _ProfileReader_CheckUsername_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileReaderServer).CheckUsername(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ProfileReader_CheckUsername_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProfileReaderServer).CheckUsername(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var ProfileReader_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "linkhub.v1.ProfileReader",
	HandlerType: (*ProfileReaderServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProfile",
			Handler:    _ProfileReader_GetProfile_Handler,
		},
		{
			MethodName: "CheckUsername",
			Handler:    _ProfileReader_CheckUsername_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "linkhub/v1/profile.proto",
}
