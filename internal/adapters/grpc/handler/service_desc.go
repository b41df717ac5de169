package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName は gRPC のサービス名です。
const ServiceName = "hrsync.v1.HRSyncService"

// HRSyncServer は hrsync.v1.HRSyncService のサーバー側インターフェースです。
// メッセージは well-known types で表現します。
type HRSyncServer interface {
	SyncAll(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	AddEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddAttendance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetSettings(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	SaveSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetAppSettings(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	SaveAppSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterHRSyncServer は srv を s に登録します。
func RegisterHRSyncServer(s grpc.ServiceRegistrar, srv HRSyncServer) {
	s.RegisterService(&HRSyncServiceDesc, srv)
}

// HRSyncServiceDesc は hrsync.v1.HRSyncService のサービス記述です。
var HRSyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HRSyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SyncAll", Handler: unaryHandler("SyncAll", newEmpty, HRSyncServer.SyncAll)},
		{MethodName: "AddEmployee", Handler: unaryHandler("AddEmployee", newStruct, HRSyncServer.AddEmployee)},
		{MethodName: "AddAttendance", Handler: unaryHandler("AddAttendance", newStruct, HRSyncServer.AddAttendance)},
		{MethodName: "GetSettings", Handler: unaryHandler("GetSettings", newEmpty, HRSyncServer.GetSettings)},
		{MethodName: "SaveSettings", Handler: unaryHandler("SaveSettings", newStruct, HRSyncServer.SaveSettings)},
		{MethodName: "GetAppSettings", Handler: unaryHandler("GetAppSettings", newEmpty, HRSyncServer.GetAppSettings)},
		{MethodName: "SaveAppSettings", Handler: unaryHandler("SaveAppSettings", newStruct, HRSyncServer.SaveAppSettings)},
		{MethodName: "GetSummary", Handler: unaryHandler("GetSummary", newStruct, HRSyncServer.GetSummary)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hrsync/v1/hrsync.proto",
}

func newEmpty() *emptypb.Empty {
	return new(emptypb.Empty)
}

func newStruct() *structpb.Struct {
	return new(structpb.Struct)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler[Req proto.Message](
	method string,
	newReq func() Req,
	call func(HRSyncServer, context.Context, Req) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HRSyncServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(HRSyncServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// HRSyncClient は hrsync.v1.HRSyncService のクライアントです。
type HRSyncClient struct {
	cc grpc.ClientConnInterface
}

// NewHRSyncClient は HRSyncClient を生成します。
func NewHRSyncClient(cc grpc.ClientConnInterface) *HRSyncClient {
	return &HRSyncClient{cc: cc}
}

func (c *HRSyncClient) invoke(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SyncAll は全件同期を要求します。
func (c *HRSyncClient) SyncAll(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SyncAll", &emptypb.Empty{}, opts...)
}

// AddEmployee は社員を追加します。
func (c *HRSyncClient) AddEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "AddEmployee", in, opts...)
}

// AddAttendance は勤怠記録を追加します。
func (c *HRSyncClient) AddAttendance(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "AddAttendance", in, opts...)
}

// GetSettings は接続パラメータを取得します。
func (c *HRSyncClient) GetSettings(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSettings", &emptypb.Empty{}, opts...)
}

// SaveSettings は接続パラメータを保存します。
func (c *HRSyncClient) SaveSettings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SaveSettings", in, opts...)
}

// GetAppSettings は一般設定を取得します。
func (c *HRSyncClient) GetAppSettings(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetAppSettings", &emptypb.Empty{}, opts...)
}

// SaveAppSettings は一般設定を保存します。
func (c *HRSyncClient) SaveAppSettings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SaveAppSettings", in, opts...)
}

// GetSummary はダッシュボードの集計を取得します。
func (c *HRSyncClient) GetSummary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSummary", in, opts...)
}
