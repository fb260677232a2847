// Package calibration loads camera calibrations from a directory of YAML files.
package calibration

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.CalibrationStore = (*Store)(nil)

// Store implements ports.CalibrationStore. It is safe for concurrent use.
type Store struct {
	logger ports.Logger

	mu    sync.RWMutex
	dir   string
	byID  map[int64]domain.Calibration
	files map[string]fileState
}

type fileState struct {
	digest uint64
	id     int64
	ok     bool
}

// NewStore creates an empty Store.
func NewStore(logger ports.Logger) *Store {
	return &Store{
		logger: logger,
		byID:   make(map[int64]domain.Calibration),
		files:  make(map[string]fileState),
	}
}

// Load replaces the store content with the calibrations found in dir.
// A missing directory and invalid files are logged and skipped.
func (s *Store) Load(dir string) ([]domain.Calibration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dir = dir
	s.byID = make(map[int64]domain.Calibration)
	s.files = make(map[string]fileState)

	if _, err := s.scanLocked(); err != nil {
		return nil, err
	}
	return s.allLocked(), nil
}

// Reload rescans the directory given to Load. It returns the calibrations whose
// file content changed, ordered by id. Calibrations of deleted files are dropped.
func (s *Store) Reload() ([]domain.Calibration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dir == "" {
		return nil, nil
	}
	return s.scanLocked()
}

// Get returns the calibrations with the given ids in request order.
// The first unknown id fails the whole request.
func (s *Store) Get(ids []int64) ([]domain.Calibration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	calibrations := make([]domain.Calibration, 0, len(ids))
	for _, id := range ids {
		c, ok := s.byID[id]
		if !ok {
			return nil, &domain.CalibrationNotFoundError{ID: id}
		}
		calibrations = append(calibrations, c)
	}
	return calibrations, nil
}

// All returns every loaded calibration ordered by id.
func (s *Store) All() []domain.Calibration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allLocked()
}

func (s *Store) allLocked() []domain.Calibration {
	return slices.SortedFunc(maps.Values(s.byID), byID)
}

func (s *Store) scanLocked() ([]domain.Calibration, error) {
	if info, err := os.Stat(s.dir); err != nil || !info.IsDir() {
		s.logger.Warn(fmt.Sprintf("event=Calibration.Load path=%q reason=%q", s.dir, "not a directory"))
		s.dropMissingLocked(nil)
		return nil, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCalibrationLoadFailed, err.Error()), "path", s.dir)
	}

	seen := make(map[string]struct{}, len(entries))
	var changed []domain.Calibration
	for _, entry := range entries {
		if entry.IsDir() || !isCalibrationFile(entry.Name()) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		seen[path] = struct{}{}

		c, updated := s.loadFileLocked(path)
		if updated {
			changed = append(changed, c)
		}
	}
	s.dropMissingLocked(seen)

	slices.SortFunc(changed, byID)
	return changed, nil
}

// loadFileLocked reads path and reports whether it produced a new calibration.
func (s *Store) loadFileLocked(path string) (domain.Calibration, bool) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from the calibration directory
	if err != nil {
		s.logger.Warn(fmt.Sprintf("event=Calibration.Load file=%q reason=%q", path, err.Error()))
		return domain.Calibration{}, false
	}

	digest := xxhash.Sum64(raw)
	if prev, ok := s.files[path]; ok && prev.digest == digest {
		return domain.Calibration{}, false
	}

	c, err := Decode(raw)
	if err != nil {
		s.files[path] = fileState{digest: digest}
		s.logger.Warn(fmt.Sprintf("event=Calibration.Load file=%q reason=%q", path, err.Error()))
		return domain.Calibration{}, false
	}
	c.Source = path
	c.Digest = digest

	if prev, ok := s.files[path]; ok && prev.ok && prev.id != c.ID {
		delete(s.byID, prev.id)
	}
	if other, ok := s.byID[c.ID]; ok && other.Source != path {
		s.logger.Warn(fmt.Sprintf("event=Calibration.Duplicate id=%d file=%q previous=%q", c.ID, path, other.Source))
	}

	s.files[path] = fileState{digest: digest, id: c.ID, ok: true}
	s.byID[c.ID] = c
	s.logger.Info(fmt.Sprintf("[+] id=%d", c.ID))
	return c, true
}

func (s *Store) dropMissingLocked(seen map[string]struct{}) {
	for path, state := range s.files {
		if _, ok := seen[path]; ok {
			continue
		}
		delete(s.files, path)
		if state.ok && s.byID[state.id].Source == path {
			delete(s.byID, state.id)
			s.logger.Info(fmt.Sprintf("[-] id=%d", state.id))
		}
	}
}

// Decode parses one calibration file.
func Decode(raw []byte) (domain.Calibration, error) {
	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return domain.Calibration{}, zerr.Wrap(domain.ErrCalibrationLoadFailed, err.Error())
	}

	c := domain.Calibration{ID: file.ID, Extrinsics: make([]domain.Transformation, 0, len(file.Extrinsic))}
	for i, ext := range file.Extrinsic {
		m, ok := domain.MatrixFromSlice(ext.TF)
		if !ok {
			err := zerr.Wrap(domain.ErrMalformedTransformation, "invalid extrinsic")
			err = zerr.With(err, "extrinsic", i)
			return domain.Calibration{}, zerr.With(err, "got", len(ext.TF))
		}
		c.Extrinsics = append(c.Extrinsics, domain.Transformation{From: ext.From, To: ext.To, Matrix: m})
	}
	return c, nil
}

// Encode renders calibrations as a YAML stream, one document per calibration.
func Encode(calibrations []domain.Calibration) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	for _, c := range calibrations {
		file := File{ID: c.ID, Extrinsic: make([]ExtrinsicDTO, 0, len(c.Extrinsics))}
		for _, tf := range c.Extrinsics {
			file.Extrinsic = append(file.Extrinsic, ExtrinsicDTO{From: tf.From, To: tf.To, TF: tf.Matrix[:]})
		}
		if err := enc.Encode(&file); err != nil {
			return nil, zerr.Wrap(err, "failed to encode calibration")
		}
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to encode calibration")
	}
	return []byte(b.String()), nil
}

func isCalibrationFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func byID(a, b domain.Calibration) int {
	return cmp.Compare(a.ID, b.ID)
}
