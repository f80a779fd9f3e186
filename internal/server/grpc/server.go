// Package grpc serves the credential service to other services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/auth"
	"github.com/dmitrijs2005/tokenprovider/internal/server/credentials"
	"google.golang.org/grpc"

	pb "github.com/dmitrijs2005/tokenprovider/internal/proto"
)

// CredentialService is the part of credentials.Service exposed over gRPC.
type CredentialService interface {
	IssueCredentialPair(ctx context.Context, req credentials.IssueRequest) (credentials.CredentialPair, error)
	RefreshCredentialPair(ctx context.Context, req credentials.IssueRequest) (credentials.CredentialPair, error)
	ValidateAccessToken(ctx context.Context, bearer string) (auth.Claims, error)
}

type GRPCServer struct {
	pb.UnimplementedTokenServiceServer
	address     string
	credentials CredentialService
	logger      logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, cs CredentialService) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		credentials: cs,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	pb.RegisterTokenServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
