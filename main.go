package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/auth"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/logger"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/openrouter"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/pdf"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/repository"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/services"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/stylizer"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/telegram"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/workers"
)

type Config struct {
	TelegramBotToken          string        `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramAuthorizedUserIDs []int64       `env:"TELEGRAM_AUTHORIZED_USER_IDS" envSeparator:" "`
	OpenRouterAPIKey          string        `env:"OPENROUTER_API_KEY,required"`
	OpenRouterModel           string        `env:"OPENROUTER_MODEL" envDefault:"openai/gpt-4o-mini"`
	OpenRouterTimeout         time.Duration `env:"OPENROUTER_TIMEOUT" envDefault:"30s"`
	AdminContact              string        `env:"ADMIN_CONTACT" envDefault:"the bot owner"`
	AdminChatID               int64         `env:"ADMIN_CHAT_ID"`
	ChatTTL                   time.Duration `env:"CHAT_TTL" envDefault:"30m"`
	ImageSetTTL               time.Duration `env:"IMAGE_SET_TTL" envDefault:"30m"`
	MaxImagesPerPDF           int           `env:"MAX_IMAGES_PER_PDF" envDefault:"50"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, err := setupWorkers()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers() (workers.Group, error) {
	// Local development reads secrets from .env; in production they come
	// straight from the environment.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded configuration from .env")
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	telegramClient, err := telegram.NewClient(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}

	authenticator := auth.NewAuthenticator(cfg.TelegramAuthorizedUserIDs)

	openRouterClient, err := openrouter.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterTimeout)
	if err != nil {
		return nil, fmt.Errorf("creating openrouter client: %w", err)
	}

	chatRepository := repository.NewChatRepository(cfg.ChatTTL)
	imageSetRepository := repository.NewImageSetRepository(cfg.ImageSetTTL, cfg.MaxImagesPerPDF)
	stateRepository := repository.NewStateRepository()

	responseCh := make(chan domain.Response)

	chatService := services.NewChatService(
		openRouterClient,
		chatRepository,
		responseCh,
	)

	documentService := services.NewDocumentService(
		imageSetRepository,
		telegramClient,
		pdf.NewBuilder(cfg.MaxImagesPerPDF),
		pdf.NewExtractor(),
		responseCh,
	)

	styleService := services.NewStyleService(
		stylizer.New(),
		stateRepository,
		telegramClient,
		responseCh,
	)

	adminService := services.NewAdminService(
		cfg.AdminContact,
		cfg.AdminChatID,
		stateRepository,
		telegramClient,
		responseCh,
	)

	handler := telegram.NewHandler(
		chatService,
		documentService,
		styleService,
		adminService,
		responseCh,
	)

	var workerGroup workers.Group

	listener, err := workers.NewTelegramUpdateListener(
		telegramClient,
		authenticator,
		handler,
		responseCh,
	)
	if err != nil {
		return nil, fmt.Errorf("creating telegram update listener: %w", err)
	}
	workerGroup = append(workerGroup, listener)

	return workerGroup, nil
}
