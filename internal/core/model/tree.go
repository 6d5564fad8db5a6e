package model

// TreeConfig holds the hyperparameters for one boosted ensemble. Temperature
// and humidity are tuned independently.
type TreeConfig struct {
	Trees          int
	LearningRate   float64
	MaxDepth       int
	MinSamplesLeaf int
}

// DefaultTemperatureConfig returns the deeper, slower-learning configuration
// used for the temperature target
func DefaultTemperatureConfig() TreeConfig {
	return TreeConfig{Trees: 300, LearningRate: 0.05, MaxDepth: 4, MinSamplesLeaf: 3}
}

// DefaultHumidityConfig returns the configuration used for the humidity target
func DefaultHumidityConfig() TreeConfig {
	return TreeConfig{Trees: 250, LearningRate: 0.06, MaxDepth: 3, MinSamplesLeaf: 2}
}

// TreeNode is one node of a regression tree. Fields are exported so trained
// models can be gob-encoded for caching.
type TreeNode struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

func (n *TreeNode) predict(row []float64) float64 {
	node := n
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// BoostedTrees is a gradient-boosted ensemble for one regression target
type BoostedTrees struct {
	Base         float64
	LearningRate float64
	Trees        []*TreeNode
}

func (b *BoostedTrees) predict(row []float64) float64 {
	out := b.Base
	for _, tree := range b.Trees {
		out += b.LearningRate * tree.predict(row)
	}
	return out
}

// trainBoosted fits an ensemble to the (already scaled) rows by iteratively
// fitting trees to the weighted residuals of the running prediction. The
// procedure is fully deterministic: no subsampling, features scanned in
// order, splits accepted only on strict improvement.
func trainBoosted(rows [][]float64, targets, weights []float64, cfg TreeConfig) *BoostedTrees {
	base := weightedMean(targets, weights)
	preds := make([]float64, len(targets))
	for i := range preds {
		preds[i] = base
	}

	ensemble := &BoostedTrees{Base: base, LearningRate: cfg.LearningRate}
	residuals := make([]float64, len(targets))
	builder := treeBuilder{rows: rows, weights: weights, cfg: cfg}

	for t := 0; t < cfg.Trees; t++ {
		for i := range residuals {
			residuals[i] = targets[i] - preds[i]
		}
		builder.targets = residuals

		indices := make([]int, len(rows))
		for i := range indices {
			indices[i] = i
		}
		tree := builder.build(indices, 0)
		ensemble.Trees = append(ensemble.Trees, tree)

		for i, row := range rows {
			preds[i] += cfg.LearningRate * tree.predict(row)
		}
	}
	return ensemble
}

type treeBuilder struct {
	rows    [][]float64
	targets []float64
	weights []float64
	cfg     TreeConfig
}

func (tb *treeBuilder) build(indices []int, depth int) *TreeNode {
	if depth >= tb.cfg.MaxDepth || len(indices) < 2*tb.cfg.MinSamplesLeaf {
		return tb.leaf(indices)
	}

	feature, threshold, ok := tb.bestSplit(indices)
	if !ok {
		return tb.leaf(indices)
	}

	var left, right []int
	for _, idx := range indices {
		if tb.rows[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      tb.build(left, depth+1),
		Right:     tb.build(right, depth+1),
	}
}

func (tb *treeBuilder) leaf(indices []int) *TreeNode {
	var sum, wsum float64
	for _, idx := range indices {
		sum += tb.weights[idx] * tb.targets[idx]
		wsum += tb.weights[idx]
	}
	value := 0.0
	if wsum > 0 {
		value = sum / wsum
	}
	return &TreeNode{Leaf: true, Value: value}
}

// bestSplit scans every feature for the threshold that minimizes the total
// weighted squared error of the two children. Thresholds are midpoints
// between adjacent distinct feature values.
func (tb *treeBuilder) bestSplit(indices []int) (int, float64, bool) {
	minLeaf := tb.cfg.MinSamplesLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}

	parentErr := tb.weightedSSE(indices)
	bestErr := parentErr
	bestFeature, bestThreshold := -1, 0.0

	n := len(indices)
	order := make([]int, n)
	nFeatures := len(tb.rows[indices[0]])

	for feature := 0; feature < nFeatures; feature++ {
		copy(order, indices)
		sortByFeature(order, tb.rows, feature)

		// prefix sums over the sorted order
		var wl, wly, wly2 float64
		wr, wry, wry2 := tb.sums(order)

		for i := 0; i < n-1; i++ {
			idx := order[i]
			w, y := tb.weights[idx], tb.targets[idx]
			wl += w
			wly += w * y
			wly2 += w * y * y
			wr -= w
			wry -= w * y
			wry2 -= w * y * y

			cur := tb.rows[idx][feature]
			next := tb.rows[order[i+1]][feature]
			if cur == next {
				continue
			}
			if i+1 < minLeaf || n-i-1 < minLeaf {
				continue
			}
			if wl <= 0 || wr <= 0 {
				continue
			}

			err := (wly2 - wly*wly/wl) + (wry2 - wry*wry/wr)
			if err < bestErr-1e-12 {
				bestErr = err
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func (tb *treeBuilder) sums(indices []int) (w, wy, wy2 float64) {
	for _, idx := range indices {
		wi, yi := tb.weights[idx], tb.targets[idx]
		w += wi
		wy += wi * yi
		wy2 += wi * yi * yi
	}
	return w, wy, wy2
}

func (tb *treeBuilder) weightedSSE(indices []int) float64 {
	w, wy, wy2 := tb.sums(indices)
	if w <= 0 {
		return 0
	}
	return wy2 - wy*wy/w
}

func sortByFeature(indices []int, rows [][]float64, feature int) {
	// insertion sort keeps equal-value runs stable, which keeps split
	// selection deterministic
	for i := 1; i < len(indices); i++ {
		j := i
		for j > 0 && rows[indices[j-1]][feature] > rows[indices[j]][feature] {
			indices[j-1], indices[j] = indices[j], indices[j-1]
			j--
		}
	}
}

func weightedMean(values, weights []float64) float64 {
	var sum, wsum float64
	for i, v := range values {
		sum += weights[i] * v
		wsum += weights[i]
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}
