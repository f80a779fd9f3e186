package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/server/credentials"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	pb "github.com/dmitrijs2005/tokenprovider/internal/proto"
)

func (s *GRPCServer) Issue(ctx context.Context, req *pb.IssueRequest) (*pb.CredentialsResponse, error) {
	pair, err := s.credentials.IssueCredentialPair(ctx, toIssueRequest(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return toCredentialsResponse(pair), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *pb.IssueRequest) (*pb.CredentialsResponse, error) {
	pair, err := s.credentials.RefreshCredentialPair(ctx, toIssueRequest(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return toCredentialsResponse(pair), nil
}

func (s *GRPCServer) Validate(ctx context.Context, req *pb.ValidateRequest) (*pb.ValidateResponse, error) {
	claims, err := s.credentials.ValidateAccessToken(ctx, req.GetAccessToken())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.ValidateResponse{
		UserId:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: timestamppb.New(claims.ExpiresAt),
	}, nil
}

func (s *GRPCServer) CurrentUser(ctx context.Context, _ *pb.CurrentUserRequest) (*pb.CurrentUserResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return &pb.CurrentUserResponse{UserId: claims.UserID, Email: claims.Email}, nil
}

func toIssueRequest(req *pb.IssueRequest) credentials.IssueRequest {
	return credentials.IssueRequest{
		UserID:                req.GetUserId(),
		Email:                 req.GetEmail(),
		PresentedRenewalToken: req.GetRefreshToken(),
	}
}

func toCredentialsResponse(p credentials.CredentialPair) *pb.CredentialsResponse {
	return &pb.CredentialsResponse{
		AccessToken:      p.AccessToken,
		AccessExpiresAt:  timestamppb.New(p.AccessExpiresAt),
		RefreshToken:     p.RenewalToken,
		RefreshExpiresAt: timestamppb.New(p.RenewalExpiresAt),
	}
}

// toStatus maps service errors to gRPC status codes without leaking causes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrBadRequest):
		return status.Error(codes.InvalidArgument, "user id and email are required")
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.Unauthenticated, common.ErrNotFound.Error())
	case errors.Is(err, common.ErrExpired):
		return status.Error(codes.Unauthenticated, common.ErrExpired.Error())
	case errors.Is(err, common.ErrIssuerMismatch):
		return status.Error(codes.Unauthenticated, common.ErrIssuerMismatch.Error())
	case errors.Is(err, common.ErrAudienceMismatch):
		return status.Error(codes.Unauthenticated, common.ErrAudienceMismatch.Error())
	case errors.Is(err, common.ErrInvalidSignature):
		return status.Error(codes.Unauthenticated, common.ErrInvalidSignature.Error())
	case errors.Is(err, common.ErrCancelled):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
