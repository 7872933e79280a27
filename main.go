package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leaf-analyze-service/classifier"
	"leaf-analyze-service/config"
	"leaf-analyze-service/handlers"
	"leaf-analyze-service/knowledge"
	"leaf-analyze-service/metrics"
	"leaf-analyze-service/service"
	"leaf-analyze-service/stubmodel"

	"github.com/apex/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory %s: %v", cfg.UploadDir, err)
	}

	// Build the read-only knowledge base
	kb := knowledge.NewBase()

	// Resolve the operating mode once: a loadable model artifact means
	// real inference, anything else means the stub classifier. The
	// fallback is logged here and never re-checked per request.
	clf, mock := buildClassifier(cfg)

	metrics.Register()
	if mock {
		metrics.ModelLoaded.Set(0)
	} else {
		metrics.ModelLoaded.Set(1)
	}

	svc, err := service.New(cfg, kb, clf, mock)
	if err != nil {
		log.Fatalf("Failed to initialize inference service: %v", err)
	}

	// Initialize handlers
	h := handlers.NewHandlers(svc, kb, cfg.MaxUploadBytes)

	// Setup HTTP server
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST"}
	corsConfig.AllowHeaders = []string{"Content-Type"}
	router.Use(cors.New(corsConfig))

	router.GET("/", h.HealthCheck)
	router.POST("/predict", h.Predict)
	router.GET("/diseases", h.Diseases)
	router.GET("/nanoparticles", h.Nanoparticles)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on port %s (classifier=%s)", cfg.Port, clf.SourceName())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// buildClassifier loads the model artifact or falls back to the stub.
// The returned bool reports mock mode.
func buildClassifier(cfg *config.Config) (classifier.Classifier, bool) {
	linear, err := classifier.LoadLinear(cfg.ModelPath)
	if err == nil {
		log.Infof("Model loaded from %s", cfg.ModelPath)
		return linear, false
	}

	seed := time.Now().UnixNano()
	if cfg.MockSeedSet {
		seed = cfg.MockSeed
	}
	log.Warnf("Model artifact unavailable (%v), running in mock mode with seed %d", err, seed)
	return stubmodel.New(knowledge.DefaultRawClasses(), seed), true
}
