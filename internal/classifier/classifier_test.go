package classifier

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImageBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 6), G: 128, B: uint8(y * 8), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClassifyAcceptsConfidentResult(t *testing.T) {
	cls := New(func(pixels []float32) ([]float32, error) {
		return []float32{0.005, 0.01, 0.97, 0.01, 0.005}, nil
	})

	prediction, err := cls.Classify(testImageBytes(t))
	require.NoError(t, err)

	assert.Equal(t, "rose", prediction.Label)
	assert.InDelta(t, 0.97, prediction.Confidence, 1e-6)
	assert.Less(t, prediction.Entropy, EntropyThreshold)
}

func TestClassifyRejectsLowConfidence(t *testing.T) {
	cls := New(func(pixels []float32) ([]float32, error) {
		return []float32{0.3, 0.3, 0.2, 0.1, 0.1}, nil
	})

	_, err := cls.Classify(testImageBytes(t))
	assert.ErrorIs(t, err, ErrLowConfidence)
}

func TestClassifyRejectsHighEntropy(t *testing.T) {
	// Confidence passes the threshold but the distribution is too flat.
	cls := New(func(pixels []float32) ([]float32, error) {
		return []float32{0.75, 0.0625, 0.0625, 0.0625, 0.0625}, nil
	})

	_, err := cls.Classify(testImageBytes(t))
	assert.ErrorIs(t, err, ErrLowConfidence)
}

func TestClassifyRejectsInvalidImage(t *testing.T) {
	cls := New(func(pixels []float32) ([]float32, error) {
		t.Fatal("scorer must not be called for undecodable input")
		return nil, nil
	})

	_, err := cls.Classify([]byte("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestClassifyRejectsWrongVectorLength(t *testing.T) {
	cls := New(func(pixels []float32) ([]float32, error) {
		return []float32{0.5, 0.5}, nil
	})

	_, err := cls.Classify(testImageBytes(t))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLowConfidence)
}

func TestClassifyPropagatesScorerError(t *testing.T) {
	scorerErr := errors.New("model server unreachable")
	cls := New(func(pixels []float32) ([]float32, error) {
		return nil, scorerErr
	})

	_, err := cls.Classify(testImageBytes(t))
	assert.ErrorIs(t, err, scorerErr)
}

func TestPreprocessShapeAndRange(t *testing.T) {
	pixels, err := Preprocess(testImageBytes(t))
	require.NoError(t, err)

	require.Len(t, pixels, InputSize*InputSize*3)
	for _, v := range pixels {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestKnownLabel(t *testing.T) {
	for _, label := range Labels {
		assert.True(t, KnownLabel(label))
	}
	assert.False(t, KnownLabel("orchid"))
	assert.False(t, KnownLabel(""))
}
