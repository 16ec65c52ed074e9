package main

import (
	"fmt"
	"time"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/application/services"
	"generate-lecture-service/config"
	"generate-lecture-service/infrastructure/adapters"
	"generate-lecture-service/infrastructure/gin_interface/controllers"
	"generate-lecture-service/middleware"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	providerConfig, err := config.GetProviderConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get provider config")
	}

	serverConfig := config.GetServerConfig()

	logger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		logger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	// bounded to the provider's rate limits; only chunk transforms run here
	transformPool, err := ants.NewPool(pipelineConfig.ConcurrencyLimit, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create transform worker pool")
	}
	defer transformPool.Release()

	fetcher := adapters.NewContentFetcher(logger)

	generator, err := buildGenerator(logger, fetcher, providerConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build provider adapter")
	}

	scriptStore, runCache := buildPersistence(logger)

	sanitizer := services.NewTextSanitizer()
	segmenter := services.NewSegmenter(logger)
	headerGenerator := services.NewHeaderGenerator(logger, generator)
	chunkTransformer := services.NewChunkTransformer(logger, generator, transformPool,
		pipelineConfig.MaxRetryAttempts, time.Duration(pipelineConfig.RetryBaseDelayMs)*time.Millisecond)
	allocator := services.NewTimelineAllocator(logger)
	stitcher := services.NewCoherenceStitcher(logger, pipelineConfig.StitchSimilarityThreshold)
	assembler := services.NewScriptAssembler()

	pipeline := services.NewLecturePipelineOrchestrator(logger, sanitizer, segmenter, headerGenerator,
		chunkTransformer, allocator, stitcher, assembler, scriptStore, runCache, pipelineConfig)

	pdfExtractor := adapters.NewPdfExtractor(logger)

	lectureController := controllers.NewLectureController(logger, pipeline, pdfExtractor)

	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	if serverConfig.JwksUrl != "" {
		authHandler, err := middleware.NewAuthHandler(serverConfig.JwksUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}
		router.Use(authHandler.AuthMiddleware())
	} else {
		log.Warn().Msg("JWKS_URL not set, running without authentication")
	}

	lectureController.RegisterRoutes(router)

	if err := router.Run(":" + serverConfig.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}

func buildGenerator(logger outbound.LoggerPort, fetcher adapters.ContentFetcher,
	providerConfig *config.ProviderConfig) (outbound.TextGeneratorPort, error) {
	switch providerConfig.Name {
	case config.ProviderOpenAI:
		return adapters.NewOpenAIGenerator(logger, fetcher, providerConfig), nil
	case config.ProviderGemini:
		return adapters.NewGeminiGenerator(logger, fetcher, providerConfig), nil
	case config.ProviderLocal:
		return adapters.NewLocalGenerator(logger, fetcher, providerConfig), nil
	case config.ProviderStatic:
		return adapters.NewStaticGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerConfig.Name)
	}
}

// buildPersistence wires the S3 script store and the DynamoDB run cache when
// their config is present; both are optional and the pipeline runs without
// them.
func buildPersistence(logger outbound.LoggerPort) (outbound.ScriptStorePort, outbound.RunCachePort) {
	s3Config, s3Err := config.GetS3Config()
	dynamoConfig, dynamoErr := config.GetDynamoConfig()
	if s3Err != nil && dynamoErr != nil {
		log.Warn().Msg("No storage configured, scripts will only be returned inline")
		return nil, nil
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	var scriptStore outbound.ScriptStorePort
	if s3Err == nil {
		scriptStore = adapters.NewS3ScriptStore(logger, s3.New(sess), s3Config)
	} else {
		log.Warn().Err(s3Err).Msg("S3 not configured, skipping script store")
	}

	var runCache outbound.RunCachePort
	if dynamoErr == nil {
		runCache = adapters.NewDynamoRunCache(logger, dynamodb.New(sess), dynamoConfig)
	} else {
		log.Warn().Err(dynamoErr).Msg("DynamoDB not configured, skipping run cache")
	}

	return scriptStore, runCache
}
