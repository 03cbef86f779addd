// Package tree implements a binary decision-tree classifier with
// information-gain splitting, class weighting, and the two pruning controls
// the study sweeps: minimum records to attempt a split and maximum depth.
package tree

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/core/model"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// node is one tree node. Internal nodes split on feature <= threshold; leaf
// nodes carry the class-weighted positive share used as the predicted
// probability.
type node struct {
	leaf      bool
	feature   int
	threshold float64
	left      *node
	right     *node

	nSamples int
	counts   [2]float64 // class-weighted negative/positive mass
	depth    int
}

func (nd *node) probability() float64 {
	total := nd.counts[0] + nd.counts[1]
	if total == 0 {
		return 0
	}
	return nd.counts[1] / total
}

// Classifier is a binary decision tree satisfying model.Classifier.
type Classifier struct {
	state *model.StateManager

	criterion   string     // "entropy" or "gini"
	minSplit    int        // minimum records required to attempt a split
	maxDepth    int        // maximum depth, 0 = unlimited
	minLeaf     int        // minimum records in each child
	maxFeatures int        // features considered per split, 0 = all
	seed        uint64     // drives feature subsampling when maxFeatures > 0
	weights     [2]float64 // class weights for negative/positive

	root      *node
	nFeatures int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCriterion sets the split criterion, "entropy" (default) or "gini".
func WithCriterion(criterion string) Option {
	return func(c *Classifier) { c.criterion = criterion }
}

// WithMinSplit sets the minimum number of records required to attempt a
// split.
func WithMinSplit(n int) Option {
	return func(c *Classifier) { c.minSplit = n }
}

// WithMaxDepth sets the maximum tree depth. 0 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(c *Classifier) { c.maxDepth = depth }
}

// WithMinLeaf sets the minimum number of records required in each child of a
// split.
func WithMinLeaf(n int) Option {
	return func(c *Classifier) { c.minLeaf = n }
}

// WithMaxFeatures sets how many randomly chosen features are considered at
// each split. 0 means all features. Used by the random forest.
func WithMaxFeatures(n int) Option {
	return func(c *Classifier) { c.maxFeatures = n }
}

// WithSeed sets the seed driving feature subsampling.
func WithSeed(seed uint64) Option {
	return func(c *Classifier) { c.seed = seed }
}

// WithClassWeights sets the weight applied to negative and positive records
// in impurity computations, letting a rare positive class pull splits toward
// itself.
func WithClassWeights(negative, positive float64) Option {
	return func(c *Classifier) { c.weights = [2]float64{negative, positive} }
}

// New creates a decision-tree classifier. Defaults: entropy criterion,
// minSplit 2, unlimited depth, minLeaf 1, all features, unit class weights.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		state:     model.NewStateManager(),
		criterion: "entropy",
		minSplit:  2,
		maxDepth:  0,
		minLeaf:   1,
		weights:   [2]float64{1, 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fit trains the tree on X and 0/1 labels y.
func (c *Classifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "tree.Fit")
	}
	if yCols != 1 {
		return adoptmlErrors.NewDimensionError("tree.Fit", 1, yCols, 1)
	}
	if yRows != nSamples {
		return adoptmlErrors.NewDimensionError("tree.Fit", nSamples, yRows, 0)
	}

	labels := make([]int, nSamples)
	for i := 0; i < nSamples; i++ {
		v := y.At(i, 0)
		if v != 0 && v != 1 {
			return adoptmlErrors.NewValidationError("y", "labels must be 0 or 1", v)
		}
		labels[i] = int(v)
	}

	c.nFeatures = nFeatures

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	var rng *rand.Rand
	if c.maxFeatures > 0 && c.maxFeatures < nFeatures {
		rng = rand.New(rand.NewPCG(c.seed, c.seed))
	}
	c.root = c.build(X, labels, indices, 0, rng)

	c.state.SetDimensions(nFeatures, nSamples)
	c.state.SetFitted()
	return nil
}

// build grows the tree recursively over the records named by indices.
func (c *Classifier) build(X mat.Matrix, labels, indices []int, depth int, rng *rand.Rand) *node {
	nd := &node{nSamples: len(indices), depth: depth}
	for _, idx := range indices {
		nd.counts[labels[idx]] += c.weights[labels[idx]]
	}

	impurity := c.impurity(nd.counts)
	if c.stop(len(indices), impurity, depth) {
		nd.leaf = true
		return nd
	}

	feat, threshold, gain := c.bestSplit(X, labels, indices, impurity, rng)
	if feat < 0 || gain <= 0 {
		nd.leaf = true
		return nd
	}

	var left, right []int
	for _, idx := range indices {
		if X.At(idx, feat) <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) < c.minLeaf || len(right) < c.minLeaf {
		nd.leaf = true
		return nd
	}

	nd.feature = feat
	nd.threshold = threshold
	nd.left = c.build(X, labels, left, depth+1, rng)
	nd.right = c.build(X, labels, right, depth+1, rng)
	return nd
}

func (c *Classifier) stop(nSamples int, impurity float64, depth int) bool {
	if c.maxDepth > 0 && depth >= c.maxDepth {
		return true
	}
	if nSamples < c.minSplit {
		return true
	}
	return impurity == 0
}

// impurity computes entropy or Gini over class-weighted counts.
func (c *Classifier) impurity(counts [2]float64) float64 {
	total := counts[0] + counts[1]
	if total == 0 {
		return 0
	}
	p0 := counts[0] / total
	p1 := counts[1] / total

	if c.criterion == "gini" {
		return 1 - p0*p0 - p1*p1
	}
	h := 0.0
	if p0 > 0 {
		h -= p0 * math.Log2(p0)
	}
	if p1 > 0 {
		h -= p1 * math.Log2(p1)
	}
	return h
}

// bestSplit scans candidate features for the threshold with the largest
// impurity decrease. Each feature is scanned once in sorted order with
// incrementally updated left/right counts.
func (c *Classifier) bestSplit(X mat.Matrix, labels, indices []int, parentImpurity float64, rng *rand.Rand) (int, float64, float64) {
	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0

	var total [2]float64
	for _, idx := range indices {
		total[labels[idx]] += c.weights[labels[idx]]
	}
	totalMass := total[0] + total[1]

	order := make([]int, len(indices))

	for _, feat := range c.candidateFeatures(rng) {
		copy(order, indices)
		sort.Slice(order, func(i, j int) bool {
			return X.At(order[i], feat) < X.At(order[j], feat)
		})

		var left [2]float64
		nLeft := 0
		for i := 0; i < len(order)-1; i++ {
			idx := order[i]
			left[labels[idx]] += c.weights[labels[idx]]
			nLeft++

			v, next := X.At(idx, feat), X.At(order[i+1], feat)
			if v == next {
				continue
			}
			if nLeft < c.minLeaf || len(order)-nLeft < c.minLeaf {
				continue
			}

			right := [2]float64{total[0] - left[0], total[1] - left[1]}
			leftMass := left[0] + left[1]
			rightMass := right[0] + right[1]
			weighted := (leftMass*c.impurity(left) + rightMass*c.impurity(right)) / totalMass

			if gain := parentImpurity - weighted; gain > bestGain {
				bestGain = gain
				bestFeature = feat
				bestThreshold = (v + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

// candidateFeatures returns the feature indices considered for a split:
// all features, or a random subset of maxFeatures when configured.
func (c *Classifier) candidateFeatures(rng *rand.Rand) []int {
	all := make([]int, c.nFeatures)
	for i := range all {
		all[i] = i
	}
	if rng == nil || c.maxFeatures <= 0 || c.maxFeatures >= c.nFeatures {
		return all
	}
	rng.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	subset := all[:c.maxFeatures]
	sort.Ints(subset)
	return subset
}

// Predict returns the 0/1 label per record at the 0.5 threshold.
func (c *Classifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}

	n := proba.Len()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if proba.AtVec(i) > 0.5 {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// PredictProba returns the positive-class probability per record, read from
// the class-weighted counts of the leaf each record lands in.
func (c *Classifier) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if err := c.state.RequireFitted("DecisionTree", "PredictProba"); err != nil {
		return nil, err
	}

	n, cols := X.Dims()
	if cols != c.nFeatures {
		return nil, adoptmlErrors.NewDimensionError("tree.PredictProba", c.nFeatures, cols, 1)
	}

	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		nd := c.root
		for !nd.leaf {
			if X.At(i, nd.feature) <= nd.threshold {
				nd = nd.left
			} else {
				nd = nd.right
			}
		}
		out.SetVec(i, nd.probability())
	}
	return out, nil
}

// Depth returns the depth of the fitted tree.
func (c *Classifier) Depth() int {
	return maxDepth(c.root)
}

func maxDepth(nd *node) int {
	if nd == nil {
		return 0
	}
	if nd.leaf {
		return nd.depth
	}
	l, r := maxDepth(nd.left), maxDepth(nd.right)
	if l > r {
		return l
	}
	return r
}

// Leaves returns the number of leaf nodes in the fitted tree.
func (c *Classifier) Leaves() int {
	return countLeaves(c.root)
}

func countLeaves(nd *node) int {
	if nd == nil {
		return 0
	}
	if nd.leaf {
		return 1
	}
	return countLeaves(nd.left) + countLeaves(nd.right)
}

// Render returns an indented text rendering of the fitted tree, naming split
// columns through featureNames. Used for the report artifact.
func (c *Classifier) Render(featureNames []string) string {
	if c.root == nil {
		return "<unfitted tree>"
	}
	var sb strings.Builder
	renderNode(&sb, c.root, featureNames, 0)
	return sb.String()
}

func renderNode(sb *strings.Builder, nd *node, names []string, indent int) {
	prefix := strings.Repeat("  ", indent)
	if nd.leaf {
		fmt.Fprintf(sb, "%sleaf: p(adopter)=%.3f n=%d\n", prefix, nd.probability(), nd.nSamples)
		return
	}
	name := fmt.Sprintf("x%d", nd.feature)
	if nd.feature < len(names) {
		name = names[nd.feature]
	}
	fmt.Fprintf(sb, "%s%s <= %.4g (n=%d)\n", prefix, name, nd.threshold, nd.nSamples)
	renderNode(sb, nd.left, names, indent+1)
	renderNode(sb, nd.right, names, indent+1)
}
