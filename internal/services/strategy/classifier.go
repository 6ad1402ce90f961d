package strategy

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

const (
	// DefaultProbabilityThreshold is the minimum positive-class probability
	// for a candidate to survive. The threshold is empirical.
	DefaultProbabilityThreshold = 0.6

	numFeatures     = 3
	trainingSamples = 2000
	trainingEpochs  = 500
	learningRate    = 0.1
)

// Classifier is the learned decision engine: a binary logistic model over
// {moving-average difference, oscillator, gap flag}. The model is trained
// once at construction on synthetic feature distributions and is never
// retrained inside a cycle.
type Classifier struct {
	threshold float64
	weights   [numFeatures]float64
	bias      float64
	featMean  [numFeatures]float64
	featStd   [numFeatures]float64
}

// NewClassifier trains a classifier with the given acceptance threshold.
// The seed fixes the synthetic training set, so the model is deterministic
// per deployment.
func NewClassifier(threshold float64, seed int64) (*Classifier, error) {
	if threshold <= 0 || threshold >= 1 {
		return nil, errors.Errorf("threshold must be in (0,1), got %f", threshold)
	}

	c := &Classifier{threshold: threshold}
	features, labels := syntheticTrainingSet(rand.New(rand.NewSource(seed)))
	c.fit(features, labels)
	return c, nil
}

// Decide rejects the candidate unless the positive-class probability reaches
// the threshold. Direction is Buy when the fast moving average sits above the
// slow one, Sell otherwise.
func (c *Classifier) Decide(snapshot *domain.IndicatorSnapshot) domain.Decision {
	p := c.Probability(snapshot)
	if p < c.threshold {
		return domain.Hold(p, 0)
	}

	direction := domain.DirectionSell
	if snapshot.BullishLean() {
		direction = domain.DirectionBuy
	}
	return domain.Decision{Direction: direction, Confidence: p}
}

// Probability returns the positive-class probability for the snapshot.
func (c *Classifier) Probability(snapshot *domain.IndicatorSnapshot) float64 {
	return c.predict(snapshotFeatures(snapshot))
}

// snapshotFeatures extracts the model's feature vector. The moving-average
// difference is taken as a percentage of the slow average so that FX and
// index price scales feed the model uniformly.
func snapshotFeatures(snapshot *domain.IndicatorSnapshot) [numFeatures]float64 {
	fast, _ := snapshot.EMAFast.Float64()
	slow, _ := snapshot.EMASlow.Float64()
	osc, _ := snapshot.Oscillator.Float64()

	maDiffPct := 0.0
	if slow != 0 {
		maDiffPct = (fast - slow) / slow * 100
	}

	gap := 0.0
	if snapshot.GapFlag {
		gap = 1.0
	}
	return [numFeatures]float64{maDiffPct, osc, gap}
}

// syntheticTrainingSet draws balanced samples from two separated feature
// distributions: bullish setups (positive class) have a positive MA spread,
// a cooler oscillator and a likely gap; bearish setups the reverse.
func syntheticTrainingSet(rng *rand.Rand) ([][numFeatures]float64, []float64) {
	features := make([][numFeatures]float64, trainingSamples)
	labels := make([]float64, trainingSamples)

	for i := range features {
		positive := i%2 == 0
		if positive {
			labels[i] = 1
			features[i] = [numFeatures]float64{
				rng.NormFloat64()*0.6 + 1.2,
				rng.NormFloat64()*10 + 42,
				bernoulli(rng, 0.7),
			}
		} else {
			features[i] = [numFeatures]float64{
				rng.NormFloat64()*0.6 - 1.2,
				rng.NormFloat64()*10 + 58,
				bernoulli(rng, 0.3),
			}
		}
	}
	return features, labels
}

func bernoulli(rng *rand.Rand, p float64) float64 {
	if rng.Float64() < p {
		return 1
	}
	return 0
}

// fit standardizes the features and runs batch gradient descent on the
// logistic loss.
func (c *Classifier) fit(features [][numFeatures]float64, labels []float64) {
	n := float64(len(features))

	for j := 0; j < numFeatures; j++ {
		sum := 0.0
		for _, f := range features {
			sum += f[j]
		}
		mean := sum / n

		variance := 0.0
		for _, f := range features {
			d := f[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / n)
		if std == 0 {
			std = 1
		}
		c.featMean[j], c.featStd[j] = mean, std
	}

	scaled := make([][numFeatures]float64, len(features))
	for i, f := range features {
		for j := 0; j < numFeatures; j++ {
			scaled[i][j] = (f[j] - c.featMean[j]) / c.featStd[j]
		}
	}

	for epoch := 0; epoch < trainingEpochs; epoch++ {
		var gradW [numFeatures]float64
		gradB := 0.0
		for i, f := range scaled {
			err := sigmoid(c.raw(f)) - labels[i]
			for j := 0; j < numFeatures; j++ {
				gradW[j] += err * f[j]
			}
			gradB += err
		}
		for j := 0; j < numFeatures; j++ {
			c.weights[j] -= learningRate * gradW[j] / n
		}
		c.bias -= learningRate * gradB / n
	}
}

func (c *Classifier) predict(features [numFeatures]float64) float64 {
	var scaled [numFeatures]float64
	for j := 0; j < numFeatures; j++ {
		scaled[j] = (features[j] - c.featMean[j]) / c.featStd[j]
	}
	return sigmoid(c.raw(scaled))
}

func (c *Classifier) raw(features [numFeatures]float64) float64 {
	z := c.bias
	for j := 0; j < numFeatures; j++ {
		z += c.weights[j] * features[j]
	}
	return z
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
