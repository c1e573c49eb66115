package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/analysis"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/api"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/auth"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/config"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/ingest"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/logger"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/providers"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/storage"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	files, err := storage.NewFileStore(cfg.UploadRoot)
	if err != nil {
		log.Fatal(err)
	}

	ocr := ingest.NewOCREngine(ingest.OCRConfig{
		Pdftoppm:  cfg.Pdftoppm,
		Tesseract: cfg.Tesseract,
		DPI:       cfg.OCRDPI,
		Workers:   cfg.OCRWorkers,
		MaxPages:  cfg.OCRMaxPages,
	}, logger.WithComponent(lg, "ocr"))
	if cfg.DebugImageDir != "" {
		ocr.SetPageHook(ingest.DebugImageHook(cfg.DebugImageDir, logger.WithComponent(lg, "ocr")))
	}
	parser := ingest.NewParser(ocr, logger.WithComponent(lg, "ingest"))

	dispatcher := providers.NewDispatcher(
		providers.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.ProviderTimeout),
		providers.NewGroqClient(cfg.GroqKey, cfg.GroqModel, cfg.ProviderTimeout),
		providers.NewOllamaClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.ProviderTimeout),
	)
	if cfg.MockProviders {
		// Offline mode: every selector answers with deterministic mock text.
		mock := providers.NewMockClient()
		dispatcher = providers.NewDispatcher(mock, mock, mock)
	}

	historyRepo := storage.NewHistoryRepo(db)
	analyzer := analysis.NewService(parser, dispatcher, files, historyRepo, logger.WithComponent(lg, "analysis"))

	server := api.NewServer(
		logger.WithComponent(lg, "api"),
		analyzer,
		files,
		parser,
		storage.NewUserRepo(db),
		historyRepo,
		auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry),
	)

	log.Printf("pyquer api listening on %s", cfg.APIAddr)
	if err := http.ListenAndServe(cfg.APIAddr, server.Routes()); err != nil {
		log.Fatal(err)
	}
}
