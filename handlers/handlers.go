package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"leaf-analyze-service/classifier"
	"leaf-analyze-service/knowledge"
	"leaf-analyze-service/metrics"
	"leaf-analyze-service/service"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

// Handlers represents the HTTP handlers
type Handlers struct {
	svc       *service.Service
	kb        *knowledge.Base
	maxUpload int64
}

// NewHandlers creates new HTTP handlers
func NewHandlers(svc *service.Service, kb *knowledge.Base, maxUpload int64) *Handlers {
	return &Handlers{svc: svc, kb: kb, maxUpload: maxUpload}
}

// HealthCheck reports service status. "degraded" means the service is
// answering from the stub classifier because no model artifact loaded.
func (h *Handlers) HealthCheck(c *gin.Context) {
	status := "ok"
	if !h.svc.ModelLoaded() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"model_loaded": h.svc.ModelLoaded(),
		"service":      "leaf-analyze-service",
	})
}

// Predict handles a multipart image upload and returns the prediction.
func (h *Handlers) Predict(c *gin.Context) {
	start := time.Now()
	result := "error"
	defer func() {
		metrics.PredictTotal.WithLabelValues(result).Inc()
		metrics.PredictDurationSeconds.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		result = "bad_request"
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}
	if fileHeader.Size > h.maxUpload {
		result = "too_large"
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds upload size limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		result = "internal"
		log.Errorf("Failed to open uploaded file %q: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		result = "internal"
		log.Errorf("Failed to read uploaded file %q: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image"})
		return
	}

	prediction, err := h.svc.Predict(c.Request.Context(), imageData)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidImage):
			result = "bad_request"
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing file"})
		case errors.Is(err, classifier.ErrInference):
			result = "inference_error"
			log.Errorf("Inference failed for %d byte upload %q: %v", len(imageData), fileHeader.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Classification failed"})
		default:
			result = "internal"
			log.Errorf("Prediction failed for %d byte upload %q: %v", len(imageData), fileHeader.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Classification failed"})
		}
		return
	}

	result = "success"
	metrics.PredictedClassTotal.WithLabelValues(prediction.Disease).Inc()
	c.JSON(http.StatusOK, prediction)
}

// Diseases dumps the full knowledge base.
func (h *Handlers) Diseases(c *gin.Context) {
	c.JSON(http.StatusOK, h.kb.All())
}

// Nanoparticles returns the distinct treatments across all diseases.
func (h *Handlers) Nanoparticles(c *gin.Context) {
	c.JSON(http.StatusOK, h.kb.AllTreatments())
}
