package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pharma-console/internal/config"
	"pharma-console/internal/dashboard"
	apphttp "pharma-console/internal/http"
	"pharma-console/internal/navigation"
	"pharma-console/internal/repository"
	"pharma-console/internal/repository/sqlite"
	"pharma-console/internal/service"
	"pharma-console/internal/session"
	"pharma-console/internal/storage"
)

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	secret := strings.TrimSpace(cfg.Session.Secret)
	if secret == "" {
		secret = randomSecret()
		logger.Warn("session secret not set, generated one for this process")
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var audit repository.AuditRepository
	if cfg.Audit.Path != "" {
		db, err := sqlite.Open(cfg.Audit.Path)
		if err != nil {
			return fmt.Errorf("open audit database: %w", err)
		}
		defer db.Close()

		audit = sqlite.NewAuditRepository(db)
		if err := audit.Init(ctx); err != nil {
			return fmt.Errorf("init audit repository: %w", err)
		}
		logger.Infof("recording session audit to %s", cfg.Audit.Path)
	}

	archive, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup storage: %w", err)
	}

	table, err := dashboard.RouteTable()
	if err != nil {
		return fmt.Errorf("build route table: %w", err)
	}

	sessions := session.NewRegistry()
	go sessions.Run(ctx, time.Minute, cfg.IdleTimeout(), logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Config{
		Auth:          service.NewAuthService(audit, logger),
		Sessions:      sessions,
		Tokens:        session.NewTokens(secret, cfg.TokenTTL()),
		Guard:         navigation.NewGuard(table),
		Audit:         audit,
		CookieName:    cfg.Session.CookieName,
		SecureCookie:  cfg.Session.SecureCookie,
		Archive:       archive,
		Bucket:        cfg.Storage.Bucket,
		KeyPrefix:     cfg.Storage.KeyPrefix,
		PresignExpiry: cfg.PresignExpiry(),
		Logger:        logger,
	})
	if err := handler.RegisterRoutes(router); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
	return nil
}

// buildStorage returns nil when no report bucket is configured.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("report archive disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 report archive %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random secret: %v", err))
	}
	return hex.EncodeToString(b)
}
