package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// TreeNode is one node of a fitted decision tree. Samples with
// feature <= Threshold descend left.
type TreeNode struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Proba     [2]float64
	Left      *TreeNode
	Right     *TreeNode
}

// DecisionTree is a CART binary classifier splitting on gini or entropy
// impurity. MaxFeatures limits the features considered per split (0 means
// all); the random forest uses it for per-split feature subsampling.
type DecisionTree struct {
	Criterion       string
	MaxDepth        int // 0 = unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	Balanced        bool
	MaxFeatures     int
	Seed            int64

	Root       *TreeNode
	NFeatures  int
	Importance []float64
}

// NewDecisionTree configures a tree from grid parameters.
func NewDecisionTree(p Params) (Classifier, error) {
	criterion := p.String("criterion", "gini")
	if criterion != "gini" && criterion != "entropy" {
		return nil, fmt.Errorf("decision tree: unsupported criterion %q", criterion)
	}
	return &DecisionTree{
		Criterion:       criterion,
		MaxDepth:        p.Int("max_depth", 0),
		MinSamplesSplit: p.Int("min_samples_split", 2),
		MinSamplesLeaf:  p.Int("min_samples_leaf", 1),
		Balanced:        p.String("class_weight", "") == "balanced",
		MaxFeatures:     p.Int("max_features", 0),
		Seed:            int64(p.Int("seed", 0)),
	}, nil
}

type treeFitter struct {
	x           [][]float64
	y           []float64
	classWeight [2]float64
	rng         *rand.Rand
	tree        *DecisionTree
	totalWeight float64
}

func (m *DecisionTree) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("decision tree: %d rows, %d labels", len(x), len(y))
	}
	m.NFeatures = len(x[0])
	m.Importance = make([]float64, m.NFeatures)

	f := &treeFitter{
		x:           x,
		y:           y,
		classWeight: classWeights(y, m.Balanced),
		rng:         rand.New(rand.NewSource(m.Seed)),
		tree:        m,
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	f.totalWeight = f.weightOf(idx)

	m.Root = f.build(idx, 0)

	if sum := floats.Sum(m.Importance); sum > 0 {
		for i := range m.Importance {
			m.Importance[i] /= sum
		}
	}
	return nil
}

func (f *treeFitter) weightOf(idx []int) float64 {
	var w float64
	for _, i := range idx {
		w += f.classWeight[int(f.y[i])]
	}
	return w
}

func (f *treeFitter) counts(idx []int) [2]float64 {
	var c [2]float64
	for _, i := range idx {
		c[int(f.y[i])] += f.classWeight[int(f.y[i])]
	}
	return c
}

func (f *treeFitter) build(idx []int, depth int) *TreeNode {
	counts := f.counts(idx)
	node := &TreeNode{Proba: normalize(counts)}

	pure := counts[0] == 0 || counts[1] == 0
	if pure || len(idx) < f.tree.MinSamplesSplit ||
		(f.tree.MaxDepth > 0 && depth >= f.tree.MaxDepth) {
		node.Leaf = true
		return node
	}

	feature, threshold, decrease, ok := f.bestSplit(idx, counts)
	if !ok {
		node.Leaf = true
		return node
	}

	var left, right []int
	for _, i := range idx {
		if f.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	f.tree.Importance[feature] += decrease

	node.Feature = feature
	node.Threshold = threshold
	node.Left = f.build(left, depth+1)
	node.Right = f.build(right, depth+1)
	return node
}

// bestSplit scans candidate features for the threshold with the highest
// weighted impurity decrease. Ties keep the first split found, so the result
// is deterministic for a fixed seed.
func (f *treeFitter) bestSplit(idx []int, counts [2]float64) (feature int, threshold, decrease float64, ok bool) {
	nodeWeight := counts[0] + counts[1]
	parentImp := f.impurity(counts, nodeWeight)

	features := f.candidateFeatures()

	order := make([]int, len(idx))
	for _, feat := range features {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return f.x[order[a]][feat] < f.x[order[b]][feat] })

		var leftCounts [2]float64
		leftN := 0
		for i := 0; i < len(order)-1; i++ {
			s := order[i]
			leftCounts[int(f.y[s])] += f.classWeight[int(f.y[s])]
			leftN++

			v, next := f.x[s][feat], f.x[order[i+1]][feat]
			if v == next {
				continue
			}
			if leftN < f.tree.MinSamplesLeaf || len(order)-leftN < f.tree.MinSamplesLeaf {
				continue
			}

			rightCounts := [2]float64{counts[0] - leftCounts[0], counts[1] - leftCounts[1]}
			lw := leftCounts[0] + leftCounts[1]
			rw := rightCounts[0] + rightCounts[1]

			childImp := (lw*f.impurity(leftCounts, lw) + rw*f.impurity(rightCounts, rw)) / nodeWeight
			d := (nodeWeight / f.totalWeight) * (parentImp - childImp)
			if d > decrease {
				decrease = d
				feature = feat
				threshold = (v + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, decrease, ok
}

// candidateFeatures returns all feature indices, or a random subset of size
// MaxFeatures when subsampling is enabled.
func (f *treeFitter) candidateFeatures() []int {
	n := f.tree.NFeatures
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	if f.tree.MaxFeatures <= 0 || f.tree.MaxFeatures >= n {
		return all
	}
	f.rng.Shuffle(n, func(a, b int) { all[a], all[b] = all[b], all[a] })
	sub := all[:f.tree.MaxFeatures]
	sort.Ints(sub)
	return sub
}

func (f *treeFitter) impurity(counts [2]float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	p0 := counts[0] / total
	p1 := counts[1] / total
	if f.tree.Criterion == "entropy" {
		return entropyTerm(p0) + entropyTerm(p1)
	}
	return 1 - p0*p0 - p1*p1
}

func entropyTerm(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return -p * math.Log2(p)
}

func (m *DecisionTree) Predict(x [][]float64) ([]float64, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	pred := make([]float64, len(proba))
	for i, p := range proba {
		if p[1] > p[0] {
			pred[i] = 1
		}
	}
	return pred, nil
}

func (m *DecisionTree) PredictProba(x [][]float64) ([][]float64, error) {
	if m.Root == nil {
		return nil, fmt.Errorf("decision tree is not fitted")
	}
	proba := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != m.NFeatures {
			return nil, fmt.Errorf("decision tree: row has %d features, fitted on %d", len(row), m.NFeatures)
		}
		node := m.Root
		for !node.Leaf {
			if row[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		proba[i] = []float64{node.Proba[0], node.Proba[1]}
	}
	return proba, nil
}

// FeatureImportances reports normalized impurity-decrease importances.
func (m *DecisionTree) FeatureImportances() []float64 {
	return m.Importance
}

func normalize(counts [2]float64) [2]float64 {
	total := counts[0] + counts[1]
	if total == 0 {
		return [2]float64{0.5, 0.5}
	}
	return [2]float64{counts[0] / total, counts[1] / total}
}
