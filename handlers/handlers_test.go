package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"leaf-analyze-service/config"
	"leaf-analyze-service/knowledge"
	"leaf-analyze-service/metrics"
	"leaf-analyze-service/models"
	"leaf-analyze-service/service"
	"leaf-analyze-service/stubmodel"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newMockRouter(t *testing.T, maxUpload int64) (*gin.Engine, *knowledge.Base) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics.Register()

	kb := knowledge.NewBase()
	cfg := &config.Config{
		UploadDir:      t.TempDir(),
		MaxUploadBytes: maxUpload,
	}
	svc, err := service.New(cfg, kb, stubmodel.New(knowledge.DefaultRawClasses(), 42), true)
	if err != nil {
		t.Fatalf("service.New failed: %v", err)
	}

	h := NewHandlers(svc, kb, maxUpload)
	router := gin.New()
	router.GET("/", h.HealthCheck)
	router.POST("/predict", h.Predict)
	router.GET("/diseases", h.Diseases)
	router.GET("/nanoparticles", h.Nanoparticles)
	return router, kb
}

// multipartImage builds a multipart body with the given bytes under the
// "image" field.
func multipartImage(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "leaf.jpg")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()
	return &body, writer.FormDataContentType()
}

func greenJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestHealthCheckDegradedInMockMode(t *testing.T) {
	router, _ := newMockRouter(t, 16<<20)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status      string `json:"status"`
		ModelLoaded bool   `json:"model_loaded"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.False(t, resp.ModelLoaded)
}

func TestPredictSuccess(t *testing.T) {
	router, kb := newMockRouter(t, 16<<20)

	body, contentType := multipartImage(t, greenJPEG(t))
	req := httptest.NewRequest("POST", "/predict", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result models.PredictionResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	record, ok := kb.Describe(result.Disease)
	assert.True(t, ok, "disease %q must be canonical", result.Disease)
	assert.Equal(t, record.Severity, result.Severity)
	assert.Equal(t, record.Description, result.Description)
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.NotEmpty(t, result.Nanoparticles)
	assert.Len(t, result.AllPredictions, 4)
}

func TestPredictSchemaParityAcrossCalls(t *testing.T) {
	router, _ := newMockRouter(t, 16<<20)

	// Mock mode must keep the exact response shape of real inference:
	// repeated calls always produce a fully populated result.
	for i := 0; i < 10; i++ {
		body, contentType := multipartImage(t, greenJPEG(t))
		req := httptest.NewRequest("POST", "/predict", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var raw map[string]json.RawMessage
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		for _, field := range []string{"disease", "confidence", "severity", "description", "nanoparticles"} {
			assert.Contains(t, raw, field)
		}
	}
}

func TestPredictMissingImageField(t *testing.T) {
	router, _ := newMockRouter(t, 16<<20)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("note", "no image here")
	writer.Close()

	req := httptest.NewRequest("POST", "/predict", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorBody(t, w)
}

func TestPredictEmptyUpload(t *testing.T) {
	router, _ := newMockRouter(t, 16<<20)

	body, contentType := multipartImage(t, nil)
	req := httptest.NewRequest("POST", "/predict", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorBody(t, w)
}

func TestPredictUndecodableUpload(t *testing.T) {
	router, _ := newMockRouter(t, 16<<20)

	body, contentType := multipartImage(t, []byte("not an image at all"))
	req := httptest.NewRequest("POST", "/predict", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorBody(t, w)
}

func TestPredictOversizedUpload(t *testing.T) {
	router, _ := newMockRouter(t, 256)

	body, contentType := multipartImage(t, greenJPEG(t))
	req := httptest.NewRequest("POST", "/predict", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Either the body reader or the size check trips, both are 4xx.
	assert.GreaterOrEqual(t, w.Code, 400)
	assert.Less(t, w.Code, 500)
	assertErrorBody(t, w)
}

func TestDiseasesDump(t *testing.T) {
	router, _ := newMockRouter(t, 16<<20)

	req := httptest.NewRequest("GET", "/diseases", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var records []models.DiseaseRecord
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 4)

	names := make(map[string]bool)
	for _, r := range records {
		names[r.Name] = true
		assert.NotEmpty(t, r.Description)
		assert.NotEmpty(t, r.Treatments)
	}
	for _, want := range []string{
		knowledge.DiseaseHealthy,
		knowledge.DiseaseBlight,
		knowledge.DiseaseRust,
		knowledge.DiseaseGraySpot,
	} {
		assert.True(t, names[want], "missing disease %q", want)
	}
}

func TestNanoparticlesDump(t *testing.T) {
	router, _ := newMockRouter(t, 16<<20)

	req := httptest.NewRequest("GET", "/nanoparticles", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var treatments []models.NanoTreatment
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &treatments))
	assert.Len(t, treatments, 10)

	seen := make(map[models.NanoTreatment]bool)
	for _, tr := range treatments {
		assert.False(t, seen[tr], "duplicate treatment %+v", tr)
		seen[tr] = true
	}
}

func assertErrorBody(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
}
