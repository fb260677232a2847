package rpc

import (
	"context"
	"errors"

	frameconvv1 "go.trai.ch/frameconv/api/frameconv/v1"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/zerr"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RemoteError is an error returned by the service, carrying its gRPC code.
type RemoteError struct {
	Code    codes.Code
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Code returns the gRPC status code for err. The message is kept verbatim.
func Code(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrUnknownFrame), errors.Is(err, domain.ErrCalibrationNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrUnreachable):
		return codes.FailedPrecondition
	case errors.Is(err, domain.ErrMalformedPath),
		errors.Is(err, domain.ErrMalformedTopic),
		errors.Is(err, domain.ErrMalformedTransformation),
		errors.Is(err, frameconvv1.ErrMalformedMessage):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrLoopStopped):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

func toStatus(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(Code(err), err.Error())
}

// fromStatus turns a gRPC error into a RemoteError. An unreachable socket becomes
// domain.ErrServiceUnavailable.
func fromStatus(err error, socket string) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() == codes.Unavailable {
		return zerr.With(zerr.Wrap(domain.ErrServiceUnavailable, st.Message()), "socket", socket)
	}
	return &RemoteError{Code: st.Code(), Message: st.Message()}
}
