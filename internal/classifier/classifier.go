package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Labels is the fixed, ordered label set the scorer is trained on. The
// scorer's output vector is indexed by this slice.
var Labels = []string{"daisy", "dandelion", "rose", "sunflower", "tulip"}

const (
	// InputSize is the square resolution the model expects.
	InputSize = 224

	// ConfidenceThreshold is the minimum max-probability to accept a result.
	ConfidenceThreshold = 0.7

	// EntropyThreshold is the maximum output entropy to accept a result.
	EntropyThreshold = 0.5

	// epsilon avoids ln(0) in the entropy sum.
	epsilon = 1e-10
)

var (
	// ErrInvalidImage indicates the uploaded bytes could not be decoded.
	ErrInvalidImage = errors.New("could not decode image")

	// ErrLowConfidence indicates the model output was not peaked enough
	// to trust; the classification is rejected rather than guessed.
	ErrLowConfidence = errors.New("could not recognize a flower in this image")
)

// Scorer maps a preprocessed image tensor (InputSize x InputSize x 3 RGB
// values in [0,1], flattened row-major) to a probability distribution over
// Labels. The trained model behind it is opaque to this package.
type Scorer func(pixels []float32) ([]float32, error)

// Prediction is an accepted classification result.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Entropy    float64 `json:"entropy"`
}

// Classifier gates an opaque scorer with confidence and entropy checks.
type Classifier struct {
	score Scorer
}

// New constructs a Classifier around the given scorer.
func New(score Scorer) *Classifier {
	return &Classifier{score: score}
}

// Classify decodes, preprocesses, and scores the image bytes. It returns
// ErrInvalidImage for undecodable input and ErrLowConfidence when the
// output distribution fails the gate.
func (c *Classifier) Classify(imageBytes []byte) (Prediction, error) {
	pixels, err := Preprocess(imageBytes)
	if err != nil {
		return Prediction{}, err
	}

	probs, err := c.score(pixels)
	if err != nil {
		return Prediction{}, fmt.Errorf("scoring image: %w", err)
	}
	if len(probs) != len(Labels) {
		return Prediction{}, fmt.Errorf("scorer returned %d probabilities, expected %d", len(probs), len(Labels))
	}

	best := 0
	entropy := 0.0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
		entropy -= float64(p) * math.Log(float64(p)+epsilon)
	}
	confidence := float64(probs[best])

	if confidence < ConfidenceThreshold || entropy > EntropyThreshold {
		return Prediction{}, ErrLowConfidence
	}

	return Prediction{
		Label:      Labels[best],
		Confidence: confidence,
		Entropy:    entropy,
	}, nil
}

// Preprocess decodes the image, resizes it to InputSize x InputSize, and
// scales RGB intensities to [0,1], flattened row-major.
func Preprocess(imageBytes []byte) ([]float32, error) {
	src, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, ErrInvalidImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	pixels := make([]float32, 0, InputSize*InputSize*3)
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			px := dst.RGBAAt(x, y)
			pixels = append(pixels,
				float32(px.R)/255.0,
				float32(px.G)/255.0,
				float32(px.B)/255.0,
			)
		}
	}

	return pixels, nil
}

// KnownLabel reports whether name is one of the supported species labels.
func KnownLabel(name string) bool {
	for _, label := range Labels {
		if label == name {
			return true
		}
	}
	return false
}
