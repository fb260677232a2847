package ports

import "go.trai.ch/frameconv/internal/core/domain"

//go:generate mockgen -source=calibration.go -destination=mocks/mock_calibration.go -package=mocks

// CalibrationStore holds the camera calibrations loaded from disk.
type CalibrationStore interface {
	// Load reads every calibration file in dir and replaces the store content.
	Load(dir string) ([]domain.Calibration, error)
	// Reload re-reads the directory given to Load and returns the calibrations
	// whose file content changed.
	Reload() ([]domain.Calibration, error)
	// Get returns the calibrations with the given ids, in request order.
	Get(ids []int64) ([]domain.Calibration, error)
	// All returns every loaded calibration ordered by id.
	All() []domain.Calibration
}
