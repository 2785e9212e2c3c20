package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"fitzone-api/handler"
	"fitzone-api/internal/config"
	"fitzone-api/internal/devserver"
	"fitzone-api/internal/integrations/paramstore"
	"fitzone-api/internal/logging"
	"fitzone-api/internal/repository"
	"fitzone-api/internal/usecase"
)

// store is what every service needs from the persistence layer. Both the
// DynamoDB client and the SQLite store satisfy it.
type store interface {
	usecase.CatalogStore
	usecase.MealPlanStore
	usecase.TranscriptStore
}

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		logging.L().Error("invalid configuration", zap.Error(err))
		exit()
	}
	logging.SetLogger(logging.New(cfg.Debug))
	log := logging.L()

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Error("failed to load AWS config", zap.Error(err))
		exit()
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		log.Error("failed to create SSM client", zap.Error(err))
		exit()
	}
	checkParameters(ctx, ssmClient, cfg.ParamPrefix)

	var st store
	switch cfg.Store {
	case config.StoreSQLite:
		sqliteStore, err := repository.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Error("failed to open sqlite store", zap.String("path", cfg.SQLitePath), zap.Error(err))
			exit()
		}
		defer sqliteStore.Close()
		st = sqliteStore
	default:
		dynamoClient, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.StateTable)
		if err != nil {
			log.Error("failed to create state client", zap.Error(err))
			exit()
		}
		st = dynamoClient
	}

	// ---- Services ----
	chat, err := usecase.NewChatService(st, st, ssmClient, cfg.ParamPrefix, usecase.ChatConfig{
		MaxMessageLen:   cfg.MaxMessageLength,
		MaxTurns:        cfg.MaxConversationTurns,
		TranscriptLimit: cfg.TranscriptLimit,
	})
	if err != nil {
		log.Error("failed to create chat service", zap.Error(err))
		exit()
	}
	mealPlans, err := usecase.NewMealPlanService(st)
	if err != nil {
		log.Error("failed to create meal plan service", zap.Error(err))
		exit()
	}
	catalog, err := usecase.NewCatalogService(st)
	if err != nil {
		log.Error("failed to create catalog service", zap.Error(err))
		exit()
	}
	admin, err := handler.NewAdminAuth(ssmClient, cfg.ParamPrefix)
	if err != nil {
		log.Error("failed to create admin auth", zap.Error(err))
		exit()
	}

	// ---- Handler ----
	h, err := handler.NewHandler(handler.Deps{
		Chat:      chat,
		MealPlans: mealPlans,
		Catalog:   catalog,
		Admin:     admin,
		Limiter:   handler.NewIPRateLimiter(cfg.ChatRatePerSecond, cfg.ChatRateBurst),
	})
	if err != nil {
		log.Error("failed to create handler", zap.Error(err))
		exit()
	}

	if cfg.LocalAddr == "" {
		log.Info("starting lambda handler", zap.String("store", cfg.Store))
		lambda.Start(h.Handle)
		return
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := devserver.Serve(sigCtx, cfg.LocalAddr, h.Handle); err != nil {
		log.Error("local server failed", zap.Error(err))
	}
	logging.Sync()
}

// checkParameters warns at cold start about runtime parameters that are
// missing; requests still work with built-in fallbacks.
func checkParameters(ctx context.Context, p *paramstore.Client, prefix string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, missing, err := p.GetParameters(ctx, prefix+"/chat/greeting", prefix+"/admin-jwt-secret")
	if err != nil {
		logging.L().Warn("runtime parameters unavailable", zap.Error(err))
		return
	}
	for _, name := range missing {
		logging.L().Warn("runtime parameter not set", zap.String("name", name))
	}
}

func exit() {
	logging.Sync()
	os.Exit(1)
}
