package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/keygate/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ResetKeyData drops the key data of the requested identity. The caller's
// token must have been issued for that same identity.
func (s *GRPCServer) ResetKeyData(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	identity := req.GetValue()

	caller, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	if caller != identity {
		s.logger.Warn(ctx, "reset for foreign identity refused", "caller", caller, "identity", identity)
		return nil, status.Error(codes.PermissionDenied, "identity mismatch")
	}

	if err := s.keys.ResetKeyData(ctx, identity); err != nil {
		if errors.Is(err, common.ErrorInvalidIdentity) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		s.logger.Error(ctx, "key data reset failed", "identity", identity, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}
