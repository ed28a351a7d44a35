package client

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/keygate/internal/common"
	pb "github.com/dmitrijs2005/keygate/internal/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	lastResetReq *wrapperspb.StringValue
	resetErr     error

	pingCalls int
	pingErr   error
}

func (f *fakePB) ResetKeyData(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	f.lastResetReq = in
	if f.resetErr != nil {
		return nil, f.resetErr
	}
	return &emptypb.Empty{}, nil
}

func (f *fakePB) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	f.pingCalls++
	if f.pingErr != nil {
		return nil, f.pingErr
	}
	return &emptypb.Empty{}, nil
}

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_AttachesToken(t *testing.T) {
	c := &GRPCClient{accessToken: "A1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Equal(t, []string{"A1"}, md.Get(common.AccessTokenHeaderName))
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
}

func TestInterceptor_ReplacesExistingToken(t *testing.T) {
	c := &GRPCClient{accessToken: "fresh"}
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "stale", "x-trace", "t1")

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Equal(t, []string{"fresh"}, md.Get(common.AccessTokenHeaderName))
		require.Equal(t, []string{"t1"}, md.Get("x-trace"))
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(ctx, "/svc/Method", nil, nil, nil, invoker))
}

func TestInterceptor_NoTokenNoHeader(t *testing.T) {
	c := &GRPCClient{}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return status.Error(codes.Internal, "boom")
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.Nil(t, c.mapError(nil))
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.Unauthenticated, "x")))
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.PermissionDenied, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))

	err := c.mapError(status.Error(codes.InvalidArgument, "invalid identity"))
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorContains(t, err, "invalid identity")

	e := errors.New("plain")
	require.ErrorContains(t, c.mapError(e), "rpc error:")
}

/*************
 * ResetKeyData / Ping tests
 *************/

func TestResetKeyData_SendsIdentity(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f}

	require.NoError(t, c.ResetKeyData(context.Background(), "alice@example.com"))
	require.Equal(t, "alice@example.com", f.lastResetReq.GetValue())
}

func TestResetKeyData_MapsError(t *testing.T) {
	f := &fakePB{resetErr: status.Error(codes.Unavailable, "down")}
	c := &GRPCClient{client: f}

	require.ErrorIs(t, c.ResetKeyData(context.Background(), "alice@example.com"), ErrUnavailable)
}

func TestPing(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f}
	require.NoError(t, c.Ping(context.Background()))
	require.Equal(t, 1, f.pingCalls)

	f.pingErr = status.Error(codes.Unavailable, "down")
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestClose_WithoutConnection(t *testing.T) {
	c := &GRPCClient{}
	require.NoError(t, c.Close())
}

/*************
 * Round trip over an in-memory listener
 *************/

type stubServer struct {
	pb.UnimplementedKeyServiceServer
	gotIdentity string
	gotToken    string
}

func (s *stubServer) ResetKeyData(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	s.gotIdentity = in.GetValue()
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(common.AccessTokenHeaderName); len(v) > 0 {
			s.gotToken = v[0]
		}
	}
	return &emptypb.Empty{}, nil
}

func TestGRPCClient_RoundTrip(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	stub := &stubServer{}
	pb.RegisterKeyServiceServer(srv, stub)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewKeyServiceClient("passthrough:///bufnet", "token-1",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.ResetKeyData(context.Background(), "alice@example.com"))
	require.Equal(t, "alice@example.com", stub.gotIdentity)
	require.Equal(t, "token-1", stub.gotToken)

	// Ping is not implemented by the stub
	err = c.Ping(context.Background())
	require.ErrorContains(t, err, "rpc error:")
}
