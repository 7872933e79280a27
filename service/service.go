// Package service implements the inference flow: stage the upload,
// preprocess, classify, look up the matched disease record and assemble
// the prediction result.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"leaf-analyze-service/classifier"
	"leaf-analyze-service/config"
	"leaf-analyze-service/knowledge"
	"leaf-analyze-service/models"
	"leaf-analyze-service/preprocess"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// ErrInvalidImage marks payloads the service refused before inference:
// empty bodies and bytes that do not decode as an image.
var ErrInvalidImage = errors.New("invalid image payload")

// Service classifies uploaded leaf images. The knowledge base, the
// classifier and the operating mode are fixed at construction; requests
// share them read-only.
type Service struct {
	cfg  *config.Config
	kb   *knowledge.Base
	clf  classifier.Classifier
	mock bool
}

// New builds the inference service and validates the classifier's class
// list against the knowledge base, failing fast on any mismatch.
func New(cfg *config.Config, kb *knowledge.Base, clf classifier.Classifier, mock bool) (*Service, error) {
	if err := kb.ValidateClasses(clf.Classes()); err != nil {
		return nil, fmt.Errorf("classifier/knowledge base mismatch: %w", err)
	}
	return &Service{cfg: cfg, kb: kb, clf: clf, mock: mock}, nil
}

// ModelLoaded reports whether a trained model backs this service.
func (s *Service) ModelLoaded() bool {
	return !s.mock
}

// Predict classifies one uploaded image and returns the populated
// prediction result. It is a pure function of the image bytes and the
// loaded model; nothing is retried and no state survives the request.
func (s *Service) Predict(ctx context.Context, imageData []byte) (*models.PredictionResult, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}

	staged, err := s.stage(imageData)
	if err != nil {
		// Staging is transient bookkeeping; classification proceeds
		// from the in-memory bytes either way.
		log.Warnf("Failed to stage upload: %v", err)
	} else {
		defer func() {
			if err := os.Remove(staged); err != nil {
				log.Warnf("Failed to remove staged upload %s: %v", staged, err)
			}
		}()
	}

	tensor, err := preprocess.FromImageBytes(imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	pred, err := s.clf.Classify(ctx, tensor)
	if err != nil {
		return nil, err
	}
	if pred.Confidence < 0 || pred.Confidence > 1 || math.IsNaN(pred.Confidence) {
		return nil, fmt.Errorf("%w: confidence %v out of range", classifier.ErrInference, pred.Confidence)
	}

	diseaseName := knowledge.ResolveRawClass(pred.Class)
	record, ok := s.kb.Describe(diseaseName)
	if !ok {
		return nil, fmt.Errorf("%w: predicted class %q not in knowledge base", classifier.ErrInference, pred.Class)
	}

	all := make(map[string]float64, len(pred.Probabilities))
	for raw, p := range pred.Probabilities {
		all[knowledge.ResolveRawClass(raw)] = round3(p)
	}

	return &models.PredictionResult{
		Disease:        record.Name,
		Confidence:     round3(pred.Confidence),
		Severity:       record.Severity,
		Description:    record.Description,
		Nanoparticles:  record.Treatments,
		AllPredictions: all,
	}, nil
}

// stage writes the upload to the staging directory for the duration of
// the request. The file is the only side effect of a prediction and is
// removed before the response is written.
func (s *Service) stage(imageData []byte) (string, error) {
	path := filepath.Join(s.cfg.UploadDir, uuid.New().String()+".img")
	if err := os.WriteFile(path, imageData, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
