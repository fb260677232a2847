package rpc

import (
	frameconvv1 "go.trai.ch/frameconv/api/frameconv/v1"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/zerr"
)

func toWire(tf domain.Transformation) frameconvv1.Transformation {
	return frameconvv1.Transformation{
		From:   tf.From,
		To:     tf.To,
		Matrix: tf.Matrix[:],
	}
}

func fromWire(tf frameconvv1.Transformation) (domain.Transformation, error) {
	m, ok := domain.MatrixFromSlice(tf.Matrix)
	if !ok {
		return domain.Transformation{}, zerr.With(
			zerr.Wrap(domain.ErrMalformedTransformation, "invalid transformation"),
			"edge", domain.Edge{From: tf.From, To: tf.To}.String(),
		)
	}
	return domain.Transformation{From: tf.From, To: tf.To, Matrix: m}, nil
}

func fromWireAll(tfs []frameconvv1.Transformation) ([]domain.Transformation, error) {
	out := make([]domain.Transformation, len(tfs))
	for i, tf := range tfs {
		converted, err := fromWire(tf)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}

func toWireAll(tfs []domain.Transformation) []frameconvv1.Transformation {
	out := make([]frameconvv1.Transformation, len(tfs))
	for i, tf := range tfs {
		out[i] = toWire(tf)
	}
	return out
}

func requestPath(ids []int64) (domain.Path, error) {
	if len(ids) < 2 {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrMalformedPath, "path needs at least two frames"),
			"path", domain.Path(ids).String(),
		)
	}
	return domain.Path(ids), nil
}

func calibrationToWire(c domain.Calibration) frameconvv1.Calibration {
	return frameconvv1.Calibration{ID: c.ID, Extrinsics: toWireAll(c.Extrinsics)}
}

func calibrationFromWire(c frameconvv1.Calibration) (domain.Calibration, error) {
	extrinsics, err := fromWireAll(c.Extrinsics)
	if err != nil {
		return domain.Calibration{}, zerr.With(err, "calibration", c.ID)
	}
	return domain.Calibration{ID: c.ID, Extrinsics: extrinsics}, nil
}

func statusToWire(st *domain.Status) frameconvv1.StatusResponse {
	resp := frameconvv1.StatusResponse{
		Frames:        int64(st.Frames),
		Edges:         int64(st.Edges),
		Tracked:       make([]frameconvv1.TrackedPath, len(st.Tracked)),
		Buffered:      int64(st.Buffered),
		Subscribers:   int64(st.Subscribers),
		UptimeSeconds: st.UptimeSecs,
		PID:           int64(st.PID),
	}
	for i, p := range st.Tracked {
		resp.Tracked[i] = frameconvv1.TrackedPath{Path: p.Path, Route: p.Route, Resolved: p.Resolved}
	}
	return resp
}

func statusFromWire(resp frameconvv1.StatusResponse) *domain.Status {
	st := &domain.Status{
		Frames:      int(resp.Frames),
		Edges:       int(resp.Edges),
		Tracked:     make([]domain.TrackedPath, len(resp.Tracked)),
		Buffered:    int(resp.Buffered),
		Subscribers: int(resp.Subscribers),
		UptimeSecs:  resp.UptimeSeconds,
		PID:         int(resp.PID),
	}
	for i, p := range resp.Tracked {
		st.Tracked[i] = domain.TrackedPath{Path: p.Path, Route: p.Route, Resolved: p.Resolved}
	}
	return st
}
