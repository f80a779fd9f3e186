package grpc

import (
	"context"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "github.com/dmitrijs2005/tokenprovider/internal/proto"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// protectedMethods require a valid access token in the access_token metadata.
var protectedMethods = map[string]struct{}{
	pb.TokenService_CurrentUser_FullMethodName: {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := protectedMethods[info.FullMethod]; !ok {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := s.credentials.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(context.WithValue(ctx, claimsKey, claims), req)
}

func claimsFromContext(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}
