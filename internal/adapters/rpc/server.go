// Package rpc serves the frame conversion service over gRPC on a Unix domain socket
// and provides the matching client.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	frameconvv1 "go.trai.ch/frameconv/api/frameconv/v1"
	"go.trai.ch/frameconv/internal/adapters/broker"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
)

var _ frameconvv1.FrameConversionServer = (*Server)(nil)

// Server implements the gRPC frame conversion service.
type Server struct {
	lifecycle    *Lifecycle
	frames       ports.FrameService
	hub          *broker.Hub
	calibrations ports.CalibrationStore
	logger       ports.Logger
	grpcServer   *grpc.Server
}

// NewServer creates a server that answers from frames, streams from hub and reads
// calibrations from calibrations.
func NewServer(
	lifecycle *Lifecycle,
	frames ports.FrameService,
	hub *broker.Hub,
	calibrations ports.CalibrationStore,
	logger ports.Logger,
) *Server {
	s := &Server{
		lifecycle:    lifecycle,
		frames:       frames,
		hub:          hub,
		calibrations: calibrations,
		logger:       logger,
		grpcServer:   grpc.NewServer(),
	}
	frameconvv1.RegisterFrameConversionServer(s.grpcServer, s)
	return s
}

// Serve listens on the Unix domain socket at socketPath and serves until ctx is
// cancelled or the lifecycle shuts down.
func (s *Server) Serve(ctx context.Context, socketPath string) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create socket directory"), "socket", socketPath)
	}

	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to remove stale socket"), "socket", socketPath)
	}

	lis, err := net.Listen("unix", socketPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen on UDS"), "socket", socketPath)
	}

	if err := os.Chmod(socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to set socket permissions")
	}

	pidPath := domain.PIDPathFor(socketPath)
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), domain.PrivateFilePerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to write pid file")
	}
	defer func() {
		_ = os.Remove(socketPath)
		_ = os.Remove(pidPath)
	}()

	s.logger.Info(fmt.Sprintf("event=RPC.Listening socket=%s", socketPath))
	return s.ServeListener(ctx, lis)
}

// ServeListener serves on lis until ctx is cancelled or the lifecycle shuts down.
func (s *Server) ServeListener(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		// Open Subscribe streams return on shutdown, which lets GracefulStop finish.
		s.lifecycle.Shutdown()
		s.grpcServer.GracefulStop()
		<-errCh
		return nil
	case <-s.lifecycle.ShutdownChan():
		s.grpcServer.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return zerr.Wrap(err, "rpc server failed")
	}
}

// GetTransformation implements FrameConversionServer.GetTransformation.
func (s *Server) GetTransformation(
	ctx context.Context,
	req frameconvv1.GetTransformationRequest,
) (frameconvv1.GetTransformationResponse, error) {
	path, err := requestPath(req.Path)
	if err != nil {
		return frameconvv1.GetTransformationResponse{}, toStatus(err)
	}
	lookup, err := s.frames.Lookup(ctx, path)
	if err != nil {
		return frameconvv1.GetTransformationResponse{}, toStatus(err)
	}
	return frameconvv1.GetTransformationResponse{
		Transformation: toWire(lookup.Transformation),
		Route:          lookup.Route,
	}, nil
}

// PublishTransformations implements FrameConversionServer.PublishTransformations.
func (s *Server) PublishTransformations(
	ctx context.Context,
	req frameconvv1.PublishTransformationsRequest,
) (frameconvv1.PublishTransformationsResponse, error) {
	tfs, err := fromWireAll(req.Transformations)
	if err != nil {
		return frameconvv1.PublishTransformationsResponse{}, toStatus(err)
	}
	applied, err := s.frames.Publish(ctx, req.Topic, tfs)
	if err != nil {
		return frameconvv1.PublishTransformationsResponse{}, toStatus(err)
	}
	return frameconvv1.PublishTransformationsResponse{Applied: int64(applied)}, nil
}

// Subscribe implements FrameConversionServer.Subscribe.
// The consumer stays bound to the topic of the path until the client goes away.
func (s *Server) Subscribe(req frameconvv1.SubscribeRequest, stream frameconvv1.SubscribeServer) error {
	path, err := requestPath(req.Path)
	if err != nil {
		return toStatus(err)
	}

	sub := s.hub.Subscribe(path.Topic())
	defer sub.Close()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.lifecycle.ShutdownChan():
			return nil
		case tf, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := stream.Send(toWire(tf)); err != nil {
				return err
			}
		}
	}
}

// GetCalibration implements FrameConversionServer.GetCalibration.
func (s *Server) GetCalibration(
	_ context.Context,
	req frameconvv1.GetCalibrationRequest,
) (frameconvv1.GetCalibrationResponse, error) {
	calibrations, err := s.calibrations.Get(req.IDs)
	if err != nil {
		return frameconvv1.GetCalibrationResponse{}, toStatus(err)
	}
	resp := frameconvv1.GetCalibrationResponse{
		Calibrations: make([]frameconvv1.Calibration, len(calibrations)),
	}
	for i, c := range calibrations {
		resp.Calibrations[i] = calibrationToWire(c)
	}
	return resp, nil
}

// Status implements FrameConversionServer.Status.
func (s *Server) Status(ctx context.Context, _ frameconvv1.StatusRequest) (frameconvv1.StatusResponse, error) {
	st, err := s.frames.Status(ctx)
	if err != nil {
		return frameconvv1.StatusResponse{}, toStatus(err)
	}
	st.UptimeSecs = int64(s.lifecycle.Uptime().Seconds())
	st.PID = os.Getpid()
	return statusToWire(st), nil
}
