package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/classifier"
	"github.com/example/flowershop/internal/models"
	"github.com/example/flowershop/internal/storage"
)

func newFlowerApp(t *testing.T, score classifier.Scorer) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	images := storage.NewImageStore(t.TempDir())
	handler := NewFlowerHandler(db, images, classifier.New(score))

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/flowers/predict", handler.Predict)
	app.Get("/flowers", handler.ListFlowers)
	app.Get("/flowers/:id", handler.GetFlower)

	return app, db
}

func predictRequest(t *testing.T) *http.Request {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 30, B: 60, A: 255})
		}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "upload.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/flowers/predict", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestPredictReturnsMatchingFlowers(t *testing.T) {
	app, db := newFlowerApp(t, func(pixels []float32) ([]float32, error) {
		return []float32{0.005, 0.01, 0.97, 0.01, 0.005}, nil
	})

	for _, f := range []models.Flower{
		{Name: "Red rose", FlowerType: "rose", Price: 10},
		{Name: "White rose", FlowerType: "rose", Price: 12},
		{Name: "Common daisy", FlowerType: "daisy", Price: 3},
	} {
		flower := f
		require.NoError(t, db.Create(&flower).Error)
	}

	resp, err := app.Test(predictRequest(t))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "rose", body["flower_name"])
	assert.InDelta(t, 0.97, body["confidence"].(float64), 1e-6)
	assert.EqualValues(t, 2, body["total_records"].(float64))
	assert.Len(t, body["related_flowers"].([]interface{}), 2)
}

func TestPredictRejectsUncertainModel(t *testing.T) {
	app, _ := newFlowerApp(t, func(pixels []float32) ([]float32, error) {
		return []float32{0.2, 0.2, 0.2, 0.2, 0.2}, nil
	})

	resp, err := app.Test(predictRequest(t))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, classifier.ErrLowConfidence.Error(), body["error"])
}

func TestPredictRequiresFile(t *testing.T) {
	app, _ := newFlowerApp(t, func(pixels []float32) ([]float32, error) {
		t.Fatal("scorer must not run without an upload")
		return nil, nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/flowers/predict", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
