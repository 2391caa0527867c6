package poserpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
)

// #region client-struct
// Client wraps a gRPC connection to a pose server.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewClient connects to a pose server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection. The caller
// keeps ownership of cc.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// #endregion constructor

// Close shuts down a connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #region evaluate
// Evaluate asks the server for the pose described by req.
func (c *Client) Evaluate(ctx context.Context, req Request) (gait.PoseFrame, error) {
	in, err := req.toStruct()
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, evaluateMethod, in, out); err != nil {
		return nil, fmt.Errorf("grpc evaluate: %w", err)
	}
	return framesFromStruct(out)
}

// #endregion evaluate

// #region frequency
// Frequency asks the server for the stride frequency of traits.
func (c *Client) Frequency(ctx context.Context, traits gait.Traits) (float64, error) {
	in, err := Request{Traits: traits}.toStruct()
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, frequencyMethod, in, out); err != nil {
		return 0, fmt.Errorf("grpc frequency: %w", err)
	}
	v, ok := out.GetFields()["frequency"]
	if !ok {
		return 0, fmt.Errorf("grpc frequency: missing frequency in response")
	}
	return v.GetNumberValue(), nil
}

// #endregion frequency
