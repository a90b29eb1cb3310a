// Package rpc exposes the auth, post and comment services over gRPC. The
// messages and service stubs are generated from raiseyourvoice.proto.
package rpc

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/auth"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/posts"
	"go.vocdoni.io/dvote/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// publicMethods can be called without an access token.
var publicMethods = map[string]bool{
	AuthService_Login_FullMethodName:           true,
	AuthService_Refresh_FullMethodName:         true,
	AuthService_Logout_FullMethodName:          true,
	PostService_GetPost_FullMethodName:         true,
	PostService_ListPosts_FullMethodName:       true,
	CommentService_ListComments_FullMethodName: true,
}

// Config holds the services the gRPC server exposes.
type Config struct {
	Host  string
	Port  int
	Auth  *auth.Service
	Posts *posts.Service
}

// Server is the gRPC server.
type Server struct {
	auth  *auth.Service
	posts *posts.Service
	addr  string
	grpc  *grpc.Server
}

// New creates the server and registers the services. It does not start
// listening, use Start or Serve for that.
func New(conf *Config) (*Server, error) {
	if conf == nil || conf.Auth == nil || conf.Posts == nil {
		return nil, fmt.Errorf("incomplete gRPC configuration")
	}
	s := &Server{
		auth:  conf.Auth,
		posts: conf.Posts,
		addr:  fmt.Sprintf("%s:%d", conf.Host, conf.Port),
	}
	s.grpc = grpc.NewServer(grpc.ChainUnaryInterceptor(s.authInterceptor))
	RegisterAuthServiceServer(s.grpc, &authService{auth: s.auth})
	RegisterPostServiceServer(s.grpc, &postService{posts: s.posts})
	RegisterCommentServiceServer(s.grpc, &commentService{posts: s.posts})
	for name := range s.grpc.GetServiceInfo() {
		log.Infow("new gRPC service", "name", name)
	}
	return s, nil
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	go func() {
		log.Infow("starting gRPC server", "addr", s.addr)
		if err := s.Serve(lis); err != nil {
			log.Errorw(err, "gRPC server stopped")
		}
	}()
	return nil
}

// Serve accepts connections on the listener until the server is stopped.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Stop waits for the calls in flight and stops the server.
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}

// authInterceptor resolves the user of the bearer token in the
// authorization metadata. Calls to non public methods without a valid token
// are rejected. Service errors are translated into gRPC status errors.
func (s *Server) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	token := bearerToken(ctx)
	switch {
	case token != "":
		user, err := s.auth.Authenticate(ctx, token)
		if err != nil {
			return nil, toStatus(err)
		}
		ctx = apicommon.ContextWithUser(ctx, user)
	case !publicMethods[info.FullMethod]:
		return nil, toStatus(errors.ErrUnauthorized)
	}
	resp, err := handler(ctx, req)
	if err != nil {
		log.Debugw("gRPC call failed", "method", info.FullMethod, "error", err)
		return nil, toStatus(err)
	}
	return resp, nil
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
