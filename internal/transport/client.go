package transport

import (
	"fmt"

	pb "lister/api/proto/v1"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial connects to a local control server. The caller owns the connection.
func Dial(port int) (pb.ControlClient, *grpc.ClientConn, error) {
	cc, err := grpc.NewClient(fmt.Sprintf("localhost:%d", port),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return pb.NewControlClient(cc), cc, nil
}
