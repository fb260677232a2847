package calibration

// File represents one camera calibration file.
type File struct {
	ID        int64          `yaml:"id"`
	Extrinsic []ExtrinsicDTO `yaml:"extrinsic"`
}

// ExtrinsicDTO is a transformation from frame From into frame To.
// TF holds the 16 entries of the 4x4 matrix in row-major order.
type ExtrinsicDTO struct {
	From int64     `yaml:"from"`
	To   int64     `yaml:"to"`
	TF   []float64 `yaml:"tf,flow"`
}
