package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/example/flowershop/internal/classifier"
)

// ScoringService calls a TensorFlow Serving instance hosting the trained
// flower model. It satisfies classifier.Scorer via Score.
type ScoringService struct {
	baseURL   string
	modelName string
	client    *http.Client
}

// NewScoringService creates a new ScoringService.
func NewScoringService(baseURL, modelName string) *ScoringService {
	return &ScoringService{
		baseURL:   baseURL,
		modelName: modelName,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type predictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float32 `json:"predictions"`
	Error       string      `json:"error"`
}

// Score sends a single preprocessed image tensor to the model server and
// returns its probability vector.
func (s *ScoringService) Score(pixels []float32) ([]float32, error) {
	body, err := json.Marshal(predictRequest{
		Instances: [][][][]float32{reshape(pixels)},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", s.baseURL, s.modelName)
	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Scoring] Request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding model response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Scoring] Model server returned status %d: %s", resp.StatusCode, parsed.Error)
		return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	if len(parsed.Predictions) == 0 {
		return nil, fmt.Errorf("model server returned no predictions")
	}

	return parsed.Predictions[0], nil
}

// reshape converts a flat row-major tensor into the HxWx3 nesting the
// serving API expects.
func reshape(pixels []float32) [][][]float32 {
	size := classifier.InputSize
	rows := make([][][]float32, size)
	for y := 0; y < size; y++ {
		row := make([][]float32, size)
		for x := 0; x < size; x++ {
			offset := (y*size + x) * 3
			row[x] = pixels[offset : offset+3 : offset+3]
		}
		rows[y] = row
	}
	return rows
}
