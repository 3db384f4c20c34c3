package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/taskdesk/internal/api/http/client"
	"github.com/dtroode/taskdesk/internal/api/http/middleware"
	"github.com/dtroode/taskdesk/internal/cli"
	"github.com/dtroode/taskdesk/internal/config"
	"github.com/dtroode/taskdesk/internal/logger"
	"github.com/dtroode/taskdesk/internal/model"
	"github.com/dtroode/taskdesk/internal/repository/memory"
	"github.com/dtroode/taskdesk/internal/repository/postgres"
	"github.com/dtroode/taskdesk/internal/repository/sqlite"
	"github.com/dtroode/taskdesk/internal/service"
	storage "github.com/dtroode/taskdesk/internal/storage/minio"
	"github.com/dtroode/taskdesk/internal/token"
	"github.com/dtroode/taskdesk/internal/transport"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Printf("failed to parse config: %v", err)
		return cli.ExitFailure
	}
	logger := logger.New(cfg.LogLevel)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize credential store", "driver", cfg.Store.Driver, "error", err)
		return cli.ExitFailure
	}
	defer closeStore()

	var sl model.SecurityLayer
	if cfg.API.EnableTLS {
		sl = transport.NewTLSTransport(cfg.API.CAFileName, cfg.API.CertFileName, cfg.API.PrivateKeyFileName)
	} else {
		sl = transport.NewPlainTransport()
	}

	sessions := service.NewSessions(store, logger)
	httpClient, err := newHTTPClient(sl, sessions, cfg.API.Timeout, logger)
	if err != nil {
		logger.Error("failed to build transport", "error", err)
		return cli.ExitFailure
	}
	api, err := client.New(cfg.API.BaseURL, httpClient)
	if err != nil {
		logger.Error("failed to create API client", "error", err)
		return cli.ExitFailure
	}

	auth := service.NewAuth(
		sessions,
		service.NewRecords(store),
		token.NewJWT(cfg.JWT.Secret),
		api,
		service.AdminCredentials{Email: cfg.Admin.Email, Password: cfg.Admin.Password},
		logger,
	)
	admin := service.NewAdminDashboard(sessions, api, logger)
	user := service.NewUserDashboard(sessions, api, logger)

	logger.Debug("taskdesk starting",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit,
		"store", cfg.Store.Driver,
		"namespace", cfg.Store.Namespace)

	app := cli.New(auth, admin, user, appVersion())
	return app.Execute(ctx, os.Args[1:])
}

// newHTTPClient stacks the session authorizer and request logging on top of
// the transport built by sl.
func newHTTPClient(sl model.SecurityLayer, sessions middleware.CredentialSource, timeout time.Duration, logger *logger.Logger) (*http.Client, error) {
	base, err := sl.Transport()
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: middleware.NewAuthorize(sessions, middleware.NewLogging(base, logger), logger),
		Timeout:   timeout,
	}, nil
}

// openStore opens the credential store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (model.CredentialStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return memory.NewStore(), func() {}, nil

	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewStore(db, cfg.Store.Namespace), func() { _ = db.Close() }, nil

	case config.StorePostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewCredentialRepository(db, cfg.Store.Namespace), func() { _ = db.Close() }, nil

	case config.StoreMinIO:
		minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Store.Namespace)
		if err != nil {
			return nil, nil, err
		}
		return storageClient, func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func appVersion() string {
	return fmt.Sprintf("%s (built %s, commit %s)", buildVersion, buildDate, buildCommit)
}
