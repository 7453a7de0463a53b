package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mkrupp/exercise-tracker/internal/infra/config"
	"github.com/mkrupp/exercise-tracker/internal/infra/logging"
	"github.com/mkrupp/exercise-tracker/internal/infra/transport/http"
	"github.com/mkrupp/exercise-tracker/internal/repo/user"
	"github.com/mkrupp/exercise-tracker/internal/svc/trackersvc"
)

const (
	appName = "tracker"
	svcName = "trackersvc"
)

type Config struct {
	config.EnvConfig

	Log  logging.LoggerConfig            `envPrefix:"LOG_"`
	HTTP trackersvc.HTTPTransportConfig  `envPrefix:"HTTP_"`
	User user.SQLiteUserRepositoryConfig `envPrefix:"USER_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	_ = godotenv.Load()

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.trackersvc")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
			panic(err)
		}

		log.InfoContext(ctx, "shutdown")
	}()

	// The repository is constructed once here and injected into every
	// service; its lifecycle is owned by the process.
	userRepo, err := user.SQLiteUserRepositoryFactory(cfg.User)()
	if err != nil {
		return fmt.Errorf("new user repo: %w", err)
	}
	defer userRepo.Close()

	httpTransport := trackersvc.NewHTTPTransport(
		trackersvc.NewUserService(userRepo),
		trackersvc.NewExerciseService(userRepo),
		trackersvc.NewLogService(userRepo),
		cfg.HTTP,
	)

	if err := http.ListenAndServe(ctx, httpTransport, cfg.HTTP.HTTPTransportConfig); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
