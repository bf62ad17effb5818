package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"showup-server/internal/features"
)

// ErrParamsNotFound is returned by ParamStore.Load when nothing was saved yet.
var ErrParamsNotFound = errors.New("model parameters not found")

// Params is everything needed to score a feature vector.
type Params struct {
	Version         string                 `json:"version"`
	ModelType       string                 `json:"model_type"`
	TrainedAt       time.Time              `json:"trained_at"`
	TrainingSamples int                    `json:"training_samples"`
	FeatureNames    [features.Size]string  `json:"feature_names"`
	Means           [features.Size]float64 `json:"means"`
	Scales          [features.Size]float64 `json:"scales"`
	Weights         [features.Size]float64 `json:"weights"`
	Bias            float64                `json:"bias"`
}

// ParamStore persists the trained parameters.
type ParamStore interface {
	Save(ctx context.Context, params *Params) error
	Load(ctx context.Context) (*Params, error)
}

// FileStore keeps the parameters as a JSON document at a fixed path.
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save writes the params atomically: to a temp file first, then renamed.
func (s *FileStore) Save(ctx context.Context, params *Params) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model params: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write model params: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace model params: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) (*Params, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrParamsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read model params: %w", err)
	}

	var params Params
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decode model params %s: %w", s.Path, err)
	}
	return &params, nil
}
