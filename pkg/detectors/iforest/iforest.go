// Package iforest implements the Isolation Forest algorithm for outlier detection.
package iforest

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/hed1ad/spectrashield/pkg/detectors"
)

const eulerGamma = 0.5772156649

var (
	// ErrEmptyData is returned when fitting or scoring zero rows.
	ErrEmptyData = errors.New("iforest: empty data")
	// ErrNotTrained is returned when scoring before Fit or Load.
	ErrNotTrained = errors.New("iforest: model not trained")
)

// IsolationForest scores samples by how few random axis-aligned splits it
// takes to isolate them from the rest of the training set.
type IsolationForest struct {
	mu sync.RWMutex

	nTrees        int
	sampleSize    int
	contamination float64
	threshold     float64
	rng           *rand.Rand

	trees   []*Tree
	trained bool

	// c(n) for the effective subsample size, used to normalise path lengths.
	avgPathLength float64
}

// Tree is a single isolation tree. Fields are exported for gob.
type Tree struct {
	Root *Node
}

// Node is an isolation tree node. A node without children is a leaf.
type Node struct {
	Feature int
	Split   float64
	Left    *Node
	Right   *Node
	// Size is the number of training rows that reached a leaf.
	Size int
}

func (n *Node) leaf() bool {
	return n.Left == nil && n.Right == nil
}

// snapshot is the persisted form of a trained forest.
type snapshot struct {
	NTrees        int
	SampleSize    int
	Contamination float64
	Threshold     float64
	AvgPathLength float64
	Trees         []*Tree
}

// Option configures an IsolationForest.
type Option func(*IsolationForest)

// WithTrees sets the number of isolation trees.
func WithTrees(n int) Option {
	return func(f *IsolationForest) {
		if n > 0 {
			f.nTrees = n
		}
	}
}

// WithSampleSize sets the subsample size for each tree.
func WithSampleSize(n int) Option {
	return func(f *IsolationForest) {
		if n > 0 {
			f.sampleSize = n
		}
	}
}

// WithContamination sets the expected proportion of outliers. Zero disables
// the contamination threshold and keeps the fixed score threshold.
func WithContamination(c float64) Option {
	return func(f *IsolationForest) {
		f.contamination = c
	}
}

// WithSeed sets the random seed for reproducibility.
func WithSeed(seed int64) Option {
	return func(f *IsolationForest) {
		f.rng = rand.New(rand.NewSource(seed))
	}
}

// WithConfig applies a shared detector configuration.
func WithConfig(cfg detectors.Config) Option {
	return func(f *IsolationForest) {
		f.contamination = cfg.Contamination
		if cfg.Threshold > 0 {
			f.threshold = cfg.Threshold
		}
		f.rng = rand.New(rand.NewSource(cfg.RandomSeed))
	}
}

// New creates a new IsolationForest with the given options.
func New(opts ...Option) *IsolationForest {
	def := detectors.DefaultConfig()
	f := &IsolationForest{
		nTrees:        100,
		sampleSize:    256,
		contamination: def.Contamination,
		threshold:     def.Threshold,
		rng:           rand.New(rand.NewSource(def.RandomSeed)),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fit grows the forest on data and, when contamination is set, places the
// threshold so that roughly that fraction of the training rows score above it.
func (f *IsolationForest) Fit(data [][]float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fit(data)
}

func (f *IsolationForest) fit(data [][]float64) error {
	nFeatures, err := validate(data)
	if err != nil {
		return err
	}
	if f.contamination < 0 || f.contamination >= 0.5 {
		return fmt.Errorf("iforest: contamination must be in [0, 0.5): %g", f.contamination)
	}

	nSamples := len(data)
	sampleSize := min(f.sampleSize, nSamples)
	maxDepth := int(math.Ceil(math.Log2(float64(max(sampleSize, 2)))))

	f.trees = make([]*Tree, f.nTrees)
	for i := range f.trees {
		// Subsample without replacement.
		indices := f.rng.Perm(nSamples)[:sampleSize]
		sample := make([][]float64, sampleSize)
		for j, idx := range indices {
			sample[j] = data[idx]
		}

		f.trees[i] = &Tree{Root: f.grow(sample, nFeatures, 0, maxDepth)}
	}

	f.avgPathLength = averagePathLength(float64(sampleSize))
	f.trained = true

	if f.contamination > 0 {
		scores := f.predict(data)
		f.threshold = percentile(scores, 100*(1-f.contamination))
	}

	return nil
}

func (f *IsolationForest) grow(data [][]float64, nFeatures, depth, maxDepth int) *Node {
	n := len(data)
	if depth >= maxDepth || n <= 1 {
		return &Node{Size: n}
	}

	feature := f.rng.Intn(nFeatures)

	lo, hi := data[0][feature], data[0][feature]
	for _, row := range data[1:] {
		lo = min(lo, row[feature])
		hi = max(hi, row[feature])
	}

	// Identical values cannot be split any further.
	if lo == hi {
		return &Node{Size: n}
	}

	split := lo + f.rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, row := range data {
		if row[feature] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &Node{
		Feature: feature,
		Split:   split,
		Left:    f.grow(left, nFeatures, depth+1, maxDepth),
		Right:   f.grow(right, nFeatures, depth+1, maxDepth),
	}
}

// FitScore fits the forest on data and labels every row of it.
func (f *IsolationForest) FitScore(data [][]float64) ([]detectors.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fit(data); err != nil {
		return nil, err
	}

	values := f.predict(data)
	scores := make([]detectors.Score, len(data))
	for i, v := range values {
		scores[i] = detectors.Score{
			Value:     v,
			IsAnomaly: v > f.threshold,
			Features:  data[i],
		}
	}
	return scores, nil
}

// Predict returns anomaly scores for the given samples.
func (f *IsolationForest) Predict(data [][]float64) ([]float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.trained {
		return nil, ErrNotTrained
	}
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	return f.predict(data), nil
}

func (f *IsolationForest) predict(data [][]float64) []float64 {
	scores := make([]float64, len(data))
	for i, sample := range data {
		scores[i] = f.score(sample)
	}
	return scores
}

// PredictOne returns the anomaly score for a single sample.
func (f *IsolationForest) PredictOne(sample []float64) (float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.trained {
		return 0, ErrNotTrained
	}

	return f.score(sample), nil
}

// score is 2^(-E[h(x)] / c(n)); higher means easier to isolate.
func (f *IsolationForest) score(sample []float64) float64 {
	if f.avgPathLength == 0 {
		// A single-row subsample gives no information.
		return 0.5
	}

	var total float64
	for _, tree := range f.trees {
		total += pathLength(sample, tree.Root, 0)
	}
	avg := total / float64(len(f.trees))

	return math.Pow(2, -avg/f.avgPathLength)
}

func pathLength(sample []float64, n *Node, depth int) float64 {
	for !n.leaf() {
		if sample[n.Feature] < n.Split {
			n = n.Left
		} else {
			n = n.Right
		}
		depth++
	}
	// Unresolved leaves add the expected depth of a random BST of their size.
	return float64(depth) + averagePathLength(float64(n.Size))
}

// averagePathLength is c(n) = 2H(n-1) - 2(n-1)/n, with H(i) ~ ln(i) + gamma.
func averagePathLength(n float64) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	return 2*(math.Log(n-1)+eulerGamma) - 2*(n-1)/n
}

// Save serializes the trained model.
func (f *IsolationForest) Save() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.trained {
		return nil, ErrNotTrained
	}

	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(snapshot{
		NTrees:        f.nTrees,
		SampleSize:    f.sampleSize,
		Contamination: f.contamination,
		Threshold:     f.threshold,
		AvgPathLength: f.avgPathLength,
		Trees:         f.trees,
	})
	if err != nil {
		return nil, fmt.Errorf("iforest: encode: %w", err)
	}

	return buf.Bytes(), nil
}

// Load deserializes a trained model.
func (f *IsolationForest) Load(data []byte) error {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("iforest: decode: %w", err)
	}
	if len(s.Trees) == 0 {
		return ErrEmptyData
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nTrees = s.NTrees
	f.sampleSize = s.SampleSize
	f.contamination = s.Contamination
	f.threshold = s.Threshold
	f.avgPathLength = s.AvgPathLength
	f.trees = s.Trees
	f.trained = true

	return nil
}

// Threshold returns the current anomaly threshold.
func (f *IsolationForest) Threshold() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.threshold
}

// SetThreshold updates the anomaly threshold.
func (f *IsolationForest) SetThreshold(t float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threshold = t
}

func validate(data [][]float64) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmptyData
	}
	nFeatures := len(data[0])
	if nFeatures == 0 {
		return 0, errors.New("iforest: rows have no features")
	}
	for i, row := range data {
		if len(row) != nFeatures {
			return 0, fmt.Errorf("iforest: row %d has %d features, want %d", i, len(row), nFeatures)
		}
	}
	return nFeatures, nil
}

// percentile returns the element at rank p (0-100) of data, by nearest lower index.
func percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sorted := slices.Clone(data)
	slices.Sort(sorted)

	idx := int(float64(len(sorted)-1) * p / 100)
	return sorted[idx]
}

var _ detectors.Labeler = (*IsolationForest)(nil)
