package rpc

import (
	"context"
	"errors"
	"io"
	"iter"
	"path/filepath"

	frameconvv1 "go.trai.ch/frameconv/api/frameconv/v1"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

var _ ports.ServiceClient = (*Client)(nil)

// Client implements ports.ServiceClient.
type Client struct {
	conn   *grpc.ClientConn
	client frameconvv1.FrameConversionClient
	socket string
}

// Dial connects to the service over the Unix domain socket at socketPath.
// grpc.NewClient returns immediately; the connection is made on the first call.
func Dial(socketPath string) (*Client, error) {
	abs, err := filepath.Abs(socketPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid socket path"), "socket", socketPath)
	}
	return NewClient("unix://"+abs, socketPath)
}

// NewClient connects to target. socket only labels errors.
func NewClient(target, socket string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, zerr.Wrap(err, "service client creation failed")
	}
	return &Client{
		conn:   conn,
		client: frameconvv1.NewFrameConversionClient(conn),
		socket: socket,
	}, nil
}

// Lookup implements ports.ServiceClient.
func (c *Client) Lookup(ctx context.Context, path domain.Path) (*ports.Lookup, error) {
	resp, err := c.client.GetTransformation(ctx, frameconvv1.GetTransformationRequest{Path: path})
	if err != nil {
		return nil, fromStatus(err, c.socket)
	}
	tf, err := fromWire(resp.Transformation)
	if err != nil {
		return nil, err
	}
	return &ports.Lookup{Route: resp.Route, Transformation: tf}, nil
}

// Publish implements ports.ServiceClient.
func (c *Client) Publish(ctx context.Context, topic string, tfs []domain.Transformation) (int, error) {
	resp, err := c.client.PublishTransformations(ctx, frameconvv1.PublishTransformationsRequest{
		Topic:           topic,
		Transformations: toWireAll(tfs),
	})
	if err != nil {
		return 0, fromStatus(err, c.socket)
	}
	return int(resp.Applied), nil
}

// Subscribe implements ports.ServiceClient.
// The sequence ends without error when ctx is cancelled or the service closes the stream.
func (c *Client) Subscribe(ctx context.Context, path domain.Path) (iter.Seq2[domain.Transformation, error], error) {
	stream, err := c.client.Subscribe(ctx, frameconvv1.SubscribeRequest{Path: path})
	if err != nil {
		return nil, fromStatus(err, c.socket)
	}
	return func(yield func(domain.Transformation, error) bool) {
		for {
			msg, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				yield(domain.Transformation{}, fromStatus(err, c.socket))
				return
			}
			tf, err := fromWire(msg)
			if !yield(tf, err) {
				return
			}
		}
	}, nil
}

// Calibrations implements ports.ServiceClient.
func (c *Client) Calibrations(ctx context.Context, ids []int64) ([]domain.Calibration, error) {
	resp, err := c.client.GetCalibration(ctx, frameconvv1.GetCalibrationRequest{IDs: ids})
	if err != nil {
		return nil, fromStatus(err, c.socket)
	}
	calibrations := make([]domain.Calibration, len(resp.Calibrations))
	for i, wire := range resp.Calibrations {
		if calibrations[i], err = calibrationFromWire(wire); err != nil {
			return nil, err
		}
	}
	return calibrations, nil
}

// Status implements ports.ServiceClient.
func (c *Client) Status(ctx context.Context) (*domain.Status, error) {
	resp, err := c.client.Status(ctx, frameconvv1.StatusRequest{})
	if err != nil {
		return nil, fromStatus(err, c.socket)
	}
	return statusFromWire(resp), nil
}

// Close implements ports.ServiceClient.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Connector implements ports.ServiceConnector over Unix domain sockets.
type Connector struct{}

// Connect implements ports.ServiceConnector.
func (Connector) Connect(_ context.Context, socketPath string) (ports.ServiceClient, error) {
	client, err := Dial(socketPath)
	if err != nil {
		return nil, err
	}
	return client, nil
}
