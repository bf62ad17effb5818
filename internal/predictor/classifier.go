// Package predictor trains and serves the no-show risk model.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"showup-server/internal/features"

	"github.com/google/uuid"
)

// MinTrainingSamples is the smallest labeled set Train accepts.
const MinTrainingSamples = 10

const (
	modelType    = "logistic_regression"
	splitSeed    = 42
	testFraction = 0.2
	maxIter      = 1000
	learningRate = 0.1
	l2Penalty    = 1.0 // inverse of sklearn's C
	threshold    = 0.5
)

var (
	// ErrInsufficientData is returned by Train for too few samples.
	ErrInsufficientData = errors.New("insufficient training data")
	// ErrModelNotTrained is returned by Predict when no model is available.
	ErrModelNotTrained = errors.New("model not trained")
)

// Sample is one labeled appointment.
type Sample struct {
	Features  features.Vector
	DidNoShow bool
}

// Metrics is the held-out evaluation of a training run.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
}

// Prediction is the risk estimate for one appointment.
type Prediction struct {
	Probability float64   `json:"probability"`
	RiskScore   int       `json:"risk_score"`
	RiskLevel   RiskLevel `json:"risk_level"`
}

// Classifier is a logistic regression over feature vectors. It starts
// untrained; a successful Train or load of stored params makes it trained.
type Classifier struct {
	store ParamStore
	now   func() time.Time

	mu     sync.RWMutex
	params *Params
}

// NewClassifier creates an untrained classifier backed by store.
func NewClassifier(store ParamStore) *Classifier {
	return &Classifier{store: store, now: time.Now}
}

// Trained reports whether the classifier currently holds parameters.
func (c *Classifier) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params != nil
}

// Params returns a copy of the current parameters, or nil when untrained.
func (c *Classifier) Params() *Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.params == nil {
		return nil
	}
	p := *c.params
	return &p
}

// Load reads stored parameters. On failure the classifier keeps its state.
func (c *Classifier) Load(ctx context.Context) error {
	params, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.params = params
	c.mu.Unlock()
	return nil
}

// Train fits the model, evaluates it on a held-out 20% and persists it.
func (c *Classifier) Train(ctx context.Context, samples []Sample) (*Metrics, error) {
	if len(samples) < MinTrainingSamples {
		return nil, fmt.Errorf("%w: need at least %d samples, got %d", ErrInsufficientData, MinTrainingSamples, len(samples))
	}

	train, test := split(samples)
	params := fit(train)
	params.Version = fmt.Sprintf("lr-%s-%s", c.now().UTC().Format("20060102150405"), uuid.NewString()[:8])
	params.ModelType = modelType
	params.TrainedAt = c.now().UTC()
	params.TrainingSamples = len(samples)
	params.FeatureNames = features.Names

	metrics := evaluate(params, test)

	if err := c.store.Save(ctx, params); err != nil {
		return nil, fmt.Errorf("persist model: %w", err)
	}

	c.mu.Lock()
	c.params = params
	c.mu.Unlock()
	return metrics, nil
}

// Predict scores one feature vector. An untrained classifier tries to load
// stored parameters first.
func (c *Classifier) Predict(ctx context.Context, v features.Vector) (*Prediction, error) {
	params := c.Params()
	if params == nil {
		if err := c.Load(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelNotTrained, err)
		}
		params = c.Params()
	}

	p := probability(params, v)
	score := int(math.Round(p * 100))
	return &Prediction{
		Probability: p,
		RiskScore:   score,
		RiskLevel:   LevelForScore(score),
	}, nil
}

// split shuffles with a fixed seed and holds out ceil(20%) for testing.
func split(samples []Sample) (train, test []Sample) {
	n := len(samples)
	nTest := int(math.Ceil(testFraction * float64(n)))
	perm := rand.New(rand.NewSource(splitSeed)).Perm(n)

	test = make([]Sample, 0, nTest)
	train = make([]Sample, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, samples[idx])
		} else {
			train = append(train, samples[idx])
		}
	}
	return train, test
}

// fit runs batch gradient descent on the L2-regularised log-loss over
// standardised features.
func fit(samples []Sample) *Params {
	params := &Params{}
	n := float64(len(samples))

	for j := 0; j < features.Size; j++ {
		var sum float64
		for _, s := range samples {
			sum += s.Features[j]
		}
		mean := sum / n
		var sq float64
		for _, s := range samples {
			d := s.Features[j] - mean
			sq += d * d
		}
		scale := math.Sqrt(sq / n)
		if scale == 0 {
			scale = 1
		}
		params.Means[j] = mean
		params.Scales[j] = scale
	}

	xs := make([]features.Vector, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = standardize(params, s.Features)
		if s.DidNoShow {
			ys[i] = 1
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		var gradW features.Vector
		var gradB float64
		for i, x := range xs {
			diff := sigmoid(dot(params.Weights, x)+params.Bias) - ys[i]
			for j := range gradW {
				gradW[j] += diff * x[j]
			}
			gradB += diff
		}
		for j := range params.Weights {
			grad := gradW[j]/n + l2Penalty*params.Weights[j]/n
			params.Weights[j] -= learningRate * grad
		}
		params.Bias -= learningRate * gradB / n
	}
	return params
}

func evaluate(params *Params, test []Sample) *Metrics {
	var tp, tn, fp, fn float64
	for _, s := range test {
		predicted := probability(params, s.Features) >= threshold
		switch {
		case predicted && s.DidNoShow:
			tp++
		case predicted && !s.DidNoShow:
			fp++
		case !predicted && s.DidNoShow:
			fn++
		default:
			tn++
		}
	}

	m := &Metrics{
		Accuracy:  ratio(tp+tn, tp+tn+fp+fn),
		Precision: ratio(tp, tp+fp),
		Recall:    ratio(tp, tp+fn),
	}
	m.F1Score = ratio(2*m.Precision*m.Recall, m.Precision+m.Recall)
	return m
}

func probability(params *Params, v features.Vector) float64 {
	return sigmoid(dot(params.Weights, standardize(params, v)) + params.Bias)
}

func standardize(params *Params, v features.Vector) features.Vector {
	var out features.Vector
	for j := range v {
		scale := params.Scales[j]
		if scale == 0 {
			scale = 1
		}
		out[j] = (v[j] - params.Means[j]) / scale
	}
	return out
}

func dot(w, x features.Vector) float64 {
	var sum float64
	for j := range w {
		sum += w[j] * x[j]
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// ratio is num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
