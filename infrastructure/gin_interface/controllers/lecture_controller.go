package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"generate-lecture-service/application/ports/inbound"
	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/domain"
	"generate-lecture-service/infrastructure/gin_interface/dto"
	"generate-lecture-service/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusClientClosedRequest mirrors nginx's non-standard 499 for runs the
// caller abandoned.
const statusClientClosedRequest = 499

const defaultFormality = "neutral"
const defaultLanguage = "English"

type LectureController interface {
	GenerateFromText(c *gin.Context)
	GenerateFromPdf(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type lectureController struct {
	logger    outbound.LoggerPort
	pipeline  inbound.LecturePipelinePort
	extractor outbound.TranscriptExtractorPort
}

func NewLectureController(logger outbound.LoggerPort, pipeline inbound.LecturePipelinePort,
	extractor outbound.TranscriptExtractorPort) LectureController {
	return &lectureController{
		logger:    logger,
		pipeline:  pipeline,
		extractor: extractor,
	}
}

func (l *lectureController) GenerateFromText(c *gin.Context) {
	var req dto.GenerateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l.generate(c, req)
}

// GenerateFromPdf accepts a multipart upload: a `transcript` PDF plus the
// same style fields as the JSON endpoint, as form values.
func (l *lectureController) GenerateFromPdf(c *gin.Context) {
	fileHeader, err := c.FormFile("transcript")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "transcript file is required"})
		return
	}

	durationMinutes, err := strconv.Atoi(c.PostForm("duration_minutes"))
	if err != nil || durationMinutes <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "duration_minutes must be a positive integer"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.Error(err, "failed to close uploaded file")
		}
	}()

	text, err := l.extractor.Extract(file, fileHeader.Size)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	l.generate(c, dto.GenerateLectureRequest{
		Input:            text,
		DurationMinutes:  durationMinutes,
		TargetLanguage:   c.PostForm("target_language"),
		Formality:        c.PostForm("formality"),
		IncludeExercises: c.PostForm("include_exercises") == "true",
		GuidingPrompt:    c.PostForm("guiding_prompt"),
	})
}

func (l *lectureController) generate(c *gin.Context, req dto.GenerateLectureRequest) {
	newCtx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	runID := uuid.NewString()

	style := domain.StyleConfig{
		TargetLanguage:       req.TargetLanguage,
		Formality:            req.Formality,
		TotalDurationSeconds: req.DurationMinutes * 60,
		IncludeInteractive:   req.IncludeExercises,
		GuidingPrompt:        req.GuidingPrompt,
	}
	if style.TargetLanguage == "" {
		style.TargetLanguage = defaultLanguage
	}
	if style.Formality == "" {
		style.Formality = defaultFormality
	}

	result, err := l.pipeline.Run(newCtx, inbound.GenerateLectureParams{
		RunID:  runID,
		UserID: c.GetString(middleware.ContextUserIDKey),
		Input:  req.Input,
		Style:  style,
	})
	if err != nil {
		l.abortWithPipelineError(c, runID, err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateLectureResponse{
		RunID:           runID,
		Title:           result.Script.Header.Title,
		DurationSeconds: style.TotalDurationSeconds,
		SegmentCount:    len(result.Script.Segments),
		Script:          result.Rendered,
		ScriptURL:       result.ScriptURL,
	})
}

func (l *lectureController) abortWithPipelineError(c *gin.Context, runID string, err error) {
	l.logger.ErrorWithFields(err, "Lecture generation failed", map[string]interface{}{
		"runID": runID,
	})

	var invalidCfg *domain.InvalidConfigurationError
	var unavailable *domain.TransformUnavailableError
	var malformed *domain.MalformedSegmentError

	switch {
	case errors.As(err, &invalidCfg):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRunCancelled):
		c.AbortWithStatusJSON(statusClientClosedRequest, gin.H{"error": "run cancelled"})
	case errors.As(err, &unavailable), errors.As(err, &malformed):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (l *lectureController) RegisterRoutes(g *gin.Engine) {
	g.POST("/lectures", l.GenerateFromText)
	g.POST("/lectures/pdf", l.GenerateFromPdf)
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
