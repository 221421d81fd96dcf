package transport

import (
	"fmt"
	"net"

	pb "lister/api/proto/v1"

	"google.golang.org/grpc"
)

type Server struct {
	grpc *grpc.Server
	lis  net.Listener
}

func StartServer(port int, ctl pb.ControlServer) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	return NewServer(lis, ctl), nil
}

// NewServer registers ctl on a fresh gRPC server bound to lis.
func NewServer(lis net.Listener, ctl pb.ControlServer) *Server {
	s := &Server{
		grpc: grpc.NewServer(),
		lis:  lis,
	}
	pb.RegisterControlServer(s.grpc, ctl)
	return s
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}
