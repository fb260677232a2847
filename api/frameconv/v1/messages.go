package frameconvv1

import "google.golang.org/protobuf/types/known/structpb"

// Transformation is a directed 4x4 row-major transformation between two frames.
type Transformation struct {
	From   int64
	To     int64
	Matrix []float64
}

func (t Transformation) fields() map[string]any {
	return map[string]any{
		"from":   t.From,
		"to":     t.To,
		"matrix": floats(t.Matrix),
	}
}

// Encode converts the transformation into its wire form.
func (t Transformation) Encode() (*structpb.Struct, error) {
	return structpb.NewStruct(t.fields())
}

// DecodeTransformation reads a Transformation from its wire form.
func DecodeTransformation(s *structpb.Struct) (Transformation, error) {
	var (
		t   Transformation
		err error
	)
	if t.From, err = intField(s, "from"); err != nil {
		return t, err
	}
	if t.To, err = intField(s, "to"); err != nil {
		return t, err
	}
	t.Matrix, err = floatList(s, "matrix")
	return t, err
}

// GetTransformationRequest asks for the composed transformation along a path.
type GetTransformationRequest struct {
	Path []int64
}

// Encode converts the request into its wire form.
func (r GetTransformationRequest) Encode() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"path": ints(r.Path)})
}

// DecodeGetTransformationRequest reads a GetTransformationRequest from its wire form.
func DecodeGetTransformationRequest(s *structpb.Struct) (GetTransformationRequest, error) {
	path, err := intList(s, "path")
	return GetTransformationRequest{Path: path}, err
}

// GetTransformationResponse carries the resolved route and the composed transformation.
type GetTransformationResponse struct {
	Transformation
	Route []int64
}

// Encode converts the response into its wire form.
func (r GetTransformationResponse) Encode() (*structpb.Struct, error) {
	fields := r.fields()
	fields["route"] = ints(r.Route)
	return structpb.NewStruct(fields)
}

// DecodeGetTransformationResponse reads a GetTransformationResponse from its wire form.
func DecodeGetTransformationResponse(s *structpb.Struct) (GetTransformationResponse, error) {
	tf, err := DecodeTransformation(s)
	if err != nil {
		return GetTransformationResponse{}, err
	}
	route, err := intList(s, "route")
	return GetTransformationResponse{Transformation: tf, Route: route}, err
}

// PublishTransformationsRequest is an update batch received on Topic.
type PublishTransformationsRequest struct {
	Topic           string
	Transformations []Transformation
}

// Encode converts the request into its wire form.
func (r PublishTransformationsRequest) Encode() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"topic": r.Topic,
		"tfs":   encodeList(r.Transformations),
	})
}

// DecodePublishTransformationsRequest reads a PublishTransformationsRequest from its wire form.
func DecodePublishTransformationsRequest(s *structpb.Struct) (PublishTransformationsRequest, error) {
	var (
		r   PublishTransformationsRequest
		err error
	)
	if r.Topic, err = stringField(s, "topic"); err != nil {
		return r, err
	}
	r.Transformations, err = structList(s, "tfs", DecodeTransformation)
	return r, err
}

// PublishTransformationsResponse reports how many transformations were applied.
type PublishTransformationsResponse struct {
	Applied int64
}

// Encode converts the response into its wire form.
func (r PublishTransformationsResponse) Encode() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"applied": r.Applied})
}

// DecodePublishTransformationsResponse reads a PublishTransformationsResponse from its wire form.
func DecodePublishTransformationsResponse(s *structpb.Struct) (PublishTransformationsResponse, error) {
	applied, err := intField(s, "applied")
	return PublishTransformationsResponse{Applied: applied}, err
}

// SubscribeRequest binds a consumer to the topic of Path.
type SubscribeRequest struct {
	Path []int64
}

// Encode converts the request into its wire form.
func (r SubscribeRequest) Encode() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"path": ints(r.Path)})
}

// DecodeSubscribeRequest reads a SubscribeRequest from its wire form.
func DecodeSubscribeRequest(s *structpb.Struct) (SubscribeRequest, error) {
	path, err := intList(s, "path")
	return SubscribeRequest{Path: path}, err
}

// GetCalibrationRequest asks for the calibrations with the given ids.
type GetCalibrationRequest struct {
	IDs []int64
}

// Encode converts the request into its wire form.
func (r GetCalibrationRequest) Encode() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"ids": ints(r.IDs)})
}

// DecodeGetCalibrationRequest reads a GetCalibrationRequest from its wire form.
func DecodeGetCalibrationRequest(s *structpb.Struct) (GetCalibrationRequest, error) {
	ids, err := intList(s, "ids")
	return GetCalibrationRequest{IDs: ids}, err
}

// Calibration is one camera calibration.
type Calibration struct {
	ID         int64
	Extrinsics []Transformation
}

func (c Calibration) fields() map[string]any {
	return map[string]any{
		"id":        c.ID,
		"extrinsic": encodeList(c.Extrinsics),
	}
}

func decodeCalibration(s *structpb.Struct) (Calibration, error) {
	var (
		c   Calibration
		err error
	)
	if c.ID, err = intField(s, "id"); err != nil {
		return c, err
	}
	c.Extrinsics, err = structList(s, "extrinsic", DecodeTransformation)
	return c, err
}

// GetCalibrationResponse carries the requested calibrations in request order.
type GetCalibrationResponse struct {
	Calibrations []Calibration
}

// Encode converts the response into its wire form.
func (r GetCalibrationResponse) Encode() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"calibrations": encodeList(r.Calibrations)})
}

// DecodeGetCalibrationResponse reads a GetCalibrationResponse from its wire form.
func DecodeGetCalibrationResponse(s *structpb.Struct) (GetCalibrationResponse, error) {
	calibrations, err := structList(s, "calibrations", decodeCalibration)
	return GetCalibrationResponse{Calibrations: calibrations}, err
}

// StatusRequest asks for the service status.
type StatusRequest struct{}

// Encode converts the request into its wire form.
func (StatusRequest) Encode() (*structpb.Struct, error) {
	return &structpb.Struct{}, nil
}

// DecodeStatusRequest reads a StatusRequest from its wire form.
func DecodeStatusRequest(*structpb.Struct) (StatusRequest, error) {
	return StatusRequest{}, nil
}

// TrackedPath is one path followed by the dependency tracker.
type TrackedPath struct {
	Path     []int64
	Route    []int64
	Resolved bool
}

func (p TrackedPath) fields() map[string]any {
	return map[string]any{
		"path":     ints(p.Path),
		"route":    ints(p.Route),
		"resolved": p.Resolved,
	}
}

func decodeTrackedPath(s *structpb.Struct) (TrackedPath, error) {
	var (
		p   TrackedPath
		err error
	)
	if p.Path, err = intList(s, "path"); err != nil {
		return p, err
	}
	if p.Route, err = intList(s, "route"); err != nil {
		return p, err
	}
	p.Resolved, err = boolField(s, "resolved")
	return p, err
}

// StatusResponse summarises a running service.
type StatusResponse struct {
	Frames        int64
	Edges         int64
	Tracked       []TrackedPath
	Buffered      int64
	Subscribers   int64
	UptimeSeconds int64
	PID           int64
}

// Encode converts the response into its wire form.
func (r StatusResponse) Encode() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"frames":         r.Frames,
		"edges":          r.Edges,
		"tracked":        encodeList(r.Tracked),
		"buffered":       r.Buffered,
		"subscribers":    r.Subscribers,
		"uptime_seconds": r.UptimeSeconds,
		"pid":            r.PID,
	})
}

// DecodeStatusResponse reads a StatusResponse from its wire form.
func DecodeStatusResponse(s *structpb.Struct) (StatusResponse, error) {
	var (
		r   StatusResponse
		err error
	)
	counters := []struct {
		field string
		dst   *int64
	}{
		{"frames", &r.Frames},
		{"edges", &r.Edges},
		{"buffered", &r.Buffered},
		{"subscribers", &r.Subscribers},
		{"uptime_seconds", &r.UptimeSeconds},
		{"pid", &r.PID},
	}
	for _, c := range counters {
		if *c.dst, err = intField(s, c.field); err != nil {
			return r, err
		}
	}
	r.Tracked, err = structList(s, "tracked", decodeTrackedPath)
	return r, err
}
