// Package api provides the REST API server for melodygen
package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/melodygen/pkg/config"
	"github.com/james-see/melodygen/pkg/encoder"
	"github.com/james-see/melodygen/pkg/generator"
	"github.com/james-see/melodygen/pkg/midigen"
)

// @title Melodygen API
// @version 1.0
// @description API for generating melodies and chord progressions as Standard MIDI Files
// @host localhost:8080
// @BasePath /api/v1

// SeedHeader carries the seed used for a generated file
const SeedHeader = "X-Melodygen-Seed"

// StartServer starts the API server on cfg.Port
func StartServer(cfg *config.Config, logger *slog.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := NewRouter(cfg, logger)
	logger.Info("starting server", "port", cfg.Port, "environment", cfg.Environment)
	return r.Run(fmt.Sprintf(":%d", cfg.Port))
}

// NewRouter builds the gin engine with every route registered
func NewRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestTracking(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Disposition", SeedHeader, requestIDHeader},
	}))

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/options", listOptions)
		v1.POST("/generate/melody", handleGenerateMelody)
		v1.POST("/generate/chords", handleGenerateChords)
		v1.POST("/generate/arpeggio", handleGenerateArpeggio)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "melodygen",
	})
}

// listOptions godoc
// @Summary List generation options
// @Description Returns the names a generation request may use, with roman numerals for each preset progression
// @Tags info
// @Produce json
// @Success 200 {object} midigen.Options
// @Router /api/v1/options [get]
func listOptions(c *gin.Context) {
	c.JSON(http.StatusOK, midigen.ListOptions())
}

// handleGenerateMelody godoc
// @Summary Generate a melody
// @Description Generates a melody and returns it as a Standard MIDI File
// @Tags generate
// @Accept json
// @Produce audio/midi
// @Param params body generator.Params false "Generation parameters"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/generate/melody [post]
func handleGenerateMelody(c *gin.Context) {
	handleGeneration(c, generator.KindMelody)
}

// handleGenerateChords godoc
// @Summary Generate a chord progression
// @Description Generates a chord progression and returns it as a Standard MIDI File
// @Tags generate
// @Accept json
// @Produce audio/midi
// @Param params body generator.Params true "Generation parameters"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/generate/chords [post]
func handleGenerateChords(c *gin.Context) {
	handleGeneration(c, generator.KindChords)
}

// handleGenerateArpeggio godoc
// @Summary Generate an arpeggio
// @Description Runs the scale up, down or in random order and returns it as a Standard MIDI File
// @Tags generate
// @Accept json
// @Produce audio/midi
// @Param params body generator.Params false "Generation parameters"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/generate/arpeggio [post]
func handleGenerateArpeggio(c *gin.Context) {
	handleGeneration(c, generator.KindArpeggio)
}

func handleGeneration(c *gin.Context, kind generator.Kind) {
	var params generator.Params
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	// The route decides what is generated
	params.Kind = kind

	result, err := midigen.Generate(params)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.Filename))
	c.Header(SeedHeader, strconv.FormatUint(result.Seed, 10))
	c.Data(http.StatusOK, "audio/midi", result.Data)
}

// statusFor maps request errors to 400 and encoder defects to 500
func statusFor(err error) int {
	switch {
	case encoder.IsInternal(err):
		return http.StatusInternalServerError
	case generator.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
