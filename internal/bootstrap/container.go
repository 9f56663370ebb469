package bootstrap

import (
	"log"

	"moodmuse-be/internal/config"
	"moodmuse-be/internal/controller"
	"moodmuse-be/internal/pkg/logger"
	"moodmuse-be/internal/pkg/mailer"
	"moodmuse-be/internal/repository/implementation"
	"moodmuse-be/internal/repository/unitofwork"
	"moodmuse-be/internal/scheduler"
	"moodmuse-be/internal/service"
	"moodmuse-be/pkg/embedding"
	"moodmuse-be/pkg/llm/factory"
	"moodmuse-be/pkg/mood"
	"moodmuse-be/pkg/palette"
	"moodmuse-be/pkg/playlist"
	"moodmuse-be/pkg/rag/index"
	"moodmuse-be/pkg/rag/ingest"
	"moodmuse-be/pkg/rag/retrieve"

	pktNats "moodmuse-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	MoodController controller.IMoodController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ReportScheduler *scheduler.Scheduler

	// Ingestion (Exposed for the ingest command)
	IngestPipeline *ingest.Pipeline

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 5. Suggestion Pipeline Components
	corpusIndex := index.NewPgVectorIndex(embeddingProvider, implementation.NewCorpusChunkRepository(db))
	retriever := retrieve.NewRetriever(corpusIndex)
	classifier := mood.NewClassifier(llmProvider)
	paletteGen := palette.NewGenerator(sysLogger)
	spotify := playlist.NewSpotifyClient(cfg.Keys.SpotifyClientID, cfg.Keys.SpotifyClientSecret, sysLogger)
	ingestPipeline := ingest.NewPipeline(embeddingProvider, corpusIndex, sysLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedEntryTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedEntryTopic,
		uowFactory,
		embeddingProvider,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	moodService := service.NewMoodService(
		uowFactory,
		classifier,
		paletteGen,
		spotify,
		retriever,
		llmProvider,
		embeddingProvider,
		publisherService,
		natsPub,
		sysLogger,
	)

	reportService := service.NewReportService(uowFactory, emailService, sysLogger)
	reportScheduler := scheduler.NewScheduler(reportService, 0, sysLogger)

	// 7. Controllers
	return &Container{
		AuthController: controller.NewAuthController(authService),
		MoodController: controller.NewMoodController(moodService),

		ConsumerService: consumerService,
		ReportScheduler: reportScheduler,
		IngestPipeline:  ingestPipeline,

		Logger: sysLogger,
	}
}
