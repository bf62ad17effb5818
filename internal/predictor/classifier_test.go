package predictor

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"showup-server/internal/features"
	"showup-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory ParamStore.
type memoryStore struct {
	mu      sync.Mutex
	params  *Params
	saveErr error
	saves   int
}

func (m *memoryStore) Save(_ context.Context, p *Params) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *p
	m.params = &cp
	m.saves++
	return nil
}

func (m *memoryStore) Load(_ context.Context) (*Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.params == nil {
		return nil, ErrParamsNotFound
	}
	cp := *m.params
	return &cp, nil
}

// syntheticSamples alternates reliable and unreliable patients so both
// classes are present.
func syntheticSamples(n int) []Sample {
	monday := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		unreliable := i%3 == 0
		patient := &models.Patient{TotalAppointments: uint(i%5 + 1)}
		if unreliable {
			patient.NoShowRate = 0.8
		} else {
			patient.NoShowRate = 0.05
		}
		at := monday.AddDate(0, 0, i%5).Add(time.Duration(i%8) * time.Hour)
		samples = append(samples, Sample{
			Features:  features.Build(at, patient),
			DidNoShow: unreliable,
		})
	}
	return samples
}

func assertUnit(t *testing.T, name string, v float64) {
	t.Helper()
	assert.GreaterOrEqual(t, v, 0.0, name)
	assert.LessOrEqual(t, v, 1.0, name)
}

func TestTrain_InsufficientData(t *testing.T) {
	store := &memoryStore{}
	c := NewClassifier(store)

	_, err := c.Train(context.Background(), syntheticSamples(9))
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.False(t, c.Trained())
	assert.Equal(t, 0, store.saves)
}

func TestTrain_MinimumSamples(t *testing.T) {
	store := &memoryStore{}
	c := NewClassifier(store)

	metrics, err := c.Train(context.Background(), syntheticSamples(10))
	require.NoError(t, err)
	assertUnit(t, "accuracy", metrics.Accuracy)
	assertUnit(t, "precision", metrics.Precision)
	assertUnit(t, "recall", metrics.Recall)
	assertUnit(t, "f1", metrics.F1Score)

	assert.True(t, c.Trained())
	assert.Equal(t, 1, store.saves)
	params := c.Params()
	require.NotNil(t, params)
	assert.Equal(t, "logistic_regression", params.ModelType)
	assert.Equal(t, 10, params.TrainingSamples)
	assert.Equal(t, features.Names, params.FeatureNames)
	assert.NotEmpty(t, params.Version)
}

func TestTrain_Deterministic(t *testing.T) {
	samples := syntheticSamples(60)

	a := NewClassifier(&memoryStore{})
	b := NewClassifier(&memoryStore{})
	ma, err := a.Train(context.Background(), samples)
	require.NoError(t, err)
	mb, err := b.Train(context.Background(), samples)
	require.NoError(t, err)

	assert.Equal(t, ma, mb)
	assert.Equal(t, a.Params().Weights, b.Params().Weights)
}

func TestTrain_LearnsSeparableHistory(t *testing.T) {
	c := NewClassifier(&memoryStore{})
	metrics, err := c.Train(context.Background(), syntheticSamples(90))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, metrics.Accuracy, 0.9)

	ctx := context.Background()
	at := time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)
	risky, err := c.Predict(ctx, features.Build(at, &models.Patient{TotalAppointments: 3, NoShowRate: 0.8}))
	require.NoError(t, err)
	safe, err := c.Predict(ctx, features.Build(at, &models.Patient{TotalAppointments: 3, NoShowRate: 0.05}))
	require.NoError(t, err)
	assert.Greater(t, risky.Probability, safe.Probability)
}

func TestTrain_SaveFailure(t *testing.T) {
	boom := errors.New("read-only file system")
	c := NewClassifier(&memoryStore{saveErr: boom})

	_, err := c.Train(context.Background(), syntheticSamples(20))
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Trained())
}

func TestPredict_NotTrained(t *testing.T) {
	c := NewClassifier(&memoryStore{})

	_, err := c.Predict(context.Background(), features.Build(time.Now(), nil))
	assert.ErrorIs(t, err, ErrModelNotTrained)
}

func TestPredict_LoadsPersistedParams(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "model", "noshow.json"))
	trainer := NewClassifier(store)
	_, err := trainer.Train(context.Background(), syntheticSamples(30))
	require.NoError(t, err)

	fresh := NewClassifier(store)
	assert.False(t, fresh.Trained())
	v := features.Build(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), nil)

	got, err := fresh.Predict(context.Background(), v)
	require.NoError(t, err)
	want, err := trainer.Predict(context.Background(), v)
	require.NoError(t, err)
	assert.InDelta(t, want.Probability, got.Probability, 1e-12)
	assert.True(t, fresh.Trained())
}

func TestPredict_ScoreAndLevel(t *testing.T) {
	c := NewClassifier(&memoryStore{})
	_, err := c.Train(context.Background(), syntheticSamples(40))
	require.NoError(t, err)

	pred, err := c.Predict(context.Background(), features.Build(time.Now(), nil))
	require.NoError(t, err)
	assertUnit(t, "probability", pred.Probability)
	assert.GreaterOrEqual(t, pred.RiskScore, 0)
	assert.LessOrEqual(t, pred.RiskScore, 100)
	assert.Equal(t, int(pred.Probability*100+0.5), pred.RiskScore)
	assert.Equal(t, LevelForScore(pred.RiskScore), pred.RiskLevel)
}

func TestSplit(t *testing.T) {
	train, test := split(syntheticSamples(10))
	assert.Len(t, test, 2)
	assert.Len(t, train, 8)

	train, test = split(syntheticSamples(11))
	assert.Len(t, test, 3)
	assert.Len(t, train, 8)
}

func TestEvaluate_ZeroDivision(t *testing.T) {
	// a model that always predicts "showed"
	params := &Params{Bias: -10}
	for j := range params.Scales {
		params.Scales[j] = 1
	}
	test := []Sample{{DidNoShow: false}, {DidNoShow: false}}

	m := evaluate(params, test)
	assert.Equal(t, 1.0, m.Accuracy)
	assert.Equal(t, 0.0, m.Precision)
	assert.Equal(t, 0.0, m.Recall)
	assert.Equal(t, 0.0, m.F1Score)
}
