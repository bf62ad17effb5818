package app

import (
	"context"
	"path/filepath"
	"testing"

	"showup-server/internal/config"
	"showup-server/internal/features"
	"showup-server/internal/predictor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		DefaultProviderID: 1,
		ModelPath:         filepath.Join(dir, "model", "noshow_model.json"),
		Database:          config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "showup.db")},
	}
}

func TestNew_WithoutModel(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Classifier.Trained())
}

func TestNew_RestoresModel(t *testing.T) {
	cfg := testConfig(t)
	params := &predictor.Params{Version: "lr-test", ModelType: "logistic_regression", FeatureNames: features.Names}
	for i := range params.Scales {
		params.Scales[i] = 1
	}
	require.NoError(t, predictor.NewFileStore(cfg.ModelPath).Save(context.Background(), params))

	a, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	require.True(t, a.Classifier.Trained())
	assert.Equal(t, "lr-test", a.Classifier.Params().Version)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "unsupported database driver")
}
