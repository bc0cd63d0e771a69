package ml

import (
	"math"
	"math/rand"
	"sort"
)

// isolationForest is a deterministic isolation forest. Anomalies isolate in
// fewer random splits than inliers, so short average path lengths map to
// anomaly scores near 1.
type isolationForest struct {
	trees         []*isoNode
	subsample     int
	contamination float64
	offset        float64
	dims          int
}

type isoNode struct {
	feature int
	split   float64
	left    *isoNode
	right   *isoNode
	size    int
}

type forestConfig struct {
	Trees         int
	Subsample     int
	Contamination float64
	Seed          int64
}

func defaultForestConfig() forestConfig {
	return forestConfig{
		Trees:         100,
		Subsample:     64,
		Contamination: 0.1,
		Seed:          42,
	}
}

// fitForest trains the forest on the given rows and fixes the decision
// offset at the contamination quantile of the training scores.
func fitForest(rows [][]float64, cfg forestConfig) *isolationForest {
	if len(rows) == 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	sub := cfg.Subsample
	if sub > len(rows) {
		sub = len(rows)
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sub))))
	if maxDepth < 1 {
		maxDepth = 1
	}

	f := &isolationForest{
		subsample:     sub,
		contamination: cfg.Contamination,
		dims:          len(rows[0]),
	}

	for t := 0; t < cfg.Trees; t++ {
		sample := make([][]float64, 0, sub)
		for i := 0; i < sub; i++ {
			sample = append(sample, rows[rng.Intn(len(rows))])
		}
		f.trees = append(f.trees, buildTree(sample, 0, maxDepth, rng))
	}

	// Decision offset: the contamination quantile of training scores, so
	// roughly that fraction of the training window is flagged.
	training := make([]float64, len(rows))
	for i, row := range rows {
		training[i] = f.scoreSample(row)
	}
	sort.Float64s(training)
	idx := int(cfg.Contamination * float64(len(training)))
	if idx >= len(training) {
		idx = len(training) - 1
	}
	f.offset = training[idx]

	return f
}

func buildTree(rows [][]float64, depth, maxDepth int, rng *rand.Rand) *isoNode {
	if depth >= maxDepth || len(rows) <= 1 {
		return &isoNode{size: len(rows)}
	}

	dims := len(rows[0])
	feature := rng.Intn(dims)

	lo, hi := rows[0][feature], rows[0][feature]
	for _, r := range rows[1:] {
		if r[feature] < lo {
			lo = r[feature]
		}
		if r[feature] > hi {
			hi = r[feature]
		}
	}
	if hi <= lo {
		return &isoNode{size: len(rows)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, r := range rows {
		if r[feature] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &isoNode{size: len(rows)}
	}

	return &isoNode{
		feature: feature,
		split:   split,
		left:    buildTree(left, depth+1, maxDepth, rng),
		right:   buildTree(right, depth+1, maxDepth, rng),
		size:    len(rows),
	}
}

// pathLength walks a point down a tree; external nodes are credited with the
// average unbuilt subtree depth c(size).
func pathLength(n *isoNode, row []float64, depth float64) float64 {
	if n.left == nil && n.right == nil {
		return depth + avgPathLength(n.size)
	}
	if row[n.feature] < n.split {
		return pathLength(n.left, row, depth+1)
	}
	return pathLength(n.right, row, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+0.5772156649) - 2*(fn-1)/fn
}

// anomalyScore computes s(x) = 2^(-E[h(x)]/c(psi)) in (0, 1]; closer to 1
// means more anomalous.
func (f *isolationForest) anomalyScore(row []float64) float64 {
	if len(f.trees) == 0 {
		return 0.5
	}
	total := 0.0
	for _, tree := range f.trees {
		total += pathLength(tree, row, 0)
	}
	mean := total / float64(len(f.trees))
	c := avgPathLength(f.subsample)
	if c <= 0 {
		return 0.5
	}
	return math.Pow(2, -mean/c)
}

// scoreSample returns the negated anomaly score, so lower is more anomalous.
func (f *isolationForest) scoreSample(row []float64) float64 {
	return -f.anomalyScore(row)
}

// predict reports whether the point falls below the fitted offset. On a
// degenerate (constant) training window every point scores identically and
// nothing is flagged.
func (f *isolationForest) predict(row []float64) bool {
	return f.scoreSample(row) < f.offset
}

// threshold converts the fitted offset back into anomaly-score space.
func (f *isolationForest) threshold() float64 {
	return -f.offset
}
