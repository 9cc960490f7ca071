// Package backendtest runs an in-process backend for tests.
package backendtest

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"

	platformgrpc "github.com/civicspace/agora/internal/platform/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// Handler answers one backend method.
type Handler func(ctx context.Context, req json.RawMessage) (any, error)

// Call records one received request.
type Call struct {
	Method   string
	Request  json.RawMessage
	Metadata metadata.MD
}

// Server is an in-process backend speaking the JSON codec.
type Server struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
	listener *bufconn.Listener
}

// Start serves handlers keyed by full method name and returns a connection
// to them. Unknown methods fail with codes.Unimplemented.
func Start(t *testing.T, handlers map[string]Handler) (*Server, *grpc.ClientConn) {
	t.Helper()

	s := &Server{handlers: handlers, listener: bufconn.Listen(1 << 20)}
	server := grpc.NewServer(
		grpc.ForceServerCodec(platformgrpc.JSONCodec{}),
		grpc.UnknownServiceHandler(s.handle),
	)
	go func() {
		_ = server.Serve(s.listener)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})
	return s, conn
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) handle(_ any, stream grpc.ServerStream) error {
	method, ok := grpc.MethodFromServerStream(stream)
	if !ok {
		return status.Error(codes.Internal, "method missing from stream")
	}
	var req json.RawMessage
	if err := stream.RecvMsg(&req); err != nil {
		return err
	}
	md, _ := metadata.FromIncomingContext(stream.Context())

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: method, Request: req, Metadata: md})
	handler := s.handlers[method]
	s.mu.Unlock()

	if handler == nil {
		return status.Errorf(codes.Unimplemented, "method %s not served", method)
	}
	resp, err := handler(stream.Context(), req)
	if err != nil {
		return err
	}
	if resp == nil {
		resp = struct{}{}
	}
	return stream.SendMsg(resp)
}
