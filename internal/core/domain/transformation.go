package domain

// Transformation maps coordinates expressed in frame From into frame To.
type Transformation struct {
	From   int64
	To     int64
	Matrix Matrix
}

// Edge returns the directed edge the transformation is stored at.
func (t Transformation) Edge() Edge {
	return Edge{From: t.From, To: t.To}
}

// Calibration groups the extrinsic transformations of one camera.
type Calibration struct {
	ID         int64
	Extrinsics []Transformation
	// Source is the file the calibration was loaded from.
	Source string
	// Digest is the xxhash64 of the source file content.
	Digest uint64
}

// TrackedPath is a read-only view of one tracked request.
type TrackedPath struct {
	Path     Path
	Route    Path
	Resolved bool
}

// Status summarises the state of a running service.
type Status struct {
	Frames      int
	Edges       int
	Tracked     []TrackedPath
	Buffered    int
	Subscribers int
	UptimeSecs  int64
	PID         int
}
