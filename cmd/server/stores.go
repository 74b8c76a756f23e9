package main

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/hadesigndz/Ha-Design/internal/application/identity"
	"github.com/hadesigndz/Ha-Design/internal/domain/catalog"
	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/auth"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/cache"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/logger"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/persistence"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// stores holds the repositories of the configured driver
type stores struct {
	Orders   order.Repository
	Products catalog.ProductRepository

	ping  func(context.Context) error
	close func() error
}

// Ping reports whether the backing store is reachable
func (s *stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the store connection
func (s *stores) Close() error {
	return s.close()
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger, meter metric.Meter) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverFirestore {
		return openFirestore(ctx, cfg.Firestore)
	}
	return openSQL(cfg, log, meter)
}

func openFirestore(ctx context.Context, fs config.FirestoreConfig) (*stores, error) {
	client, err := persistence.NewFirestoreClient(ctx, fs)
	if err != nil {
		return nil, err
	}
	return &stores{
		Orders:   persistence.NewFirestoreOrderRepository(client),
		Products: persistence.NewFirestoreProductRepository(client),
		ping: func(ctx context.Context) error {
			return persistence.PingFirestore(ctx, client)
		},
		close: closeFirestore(client),
	}, nil
}

func closeFirestore(client *firestore.Client) func() error {
	return func() error { return client.Close() }
}

func openSQL(cfg *config.Config, log *zap.Logger, meter metric.Meter) (*stores, error) {
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(cfg.Store.Driver, &cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return nil, err
	}

	dbSystem := "postgresql"
	if cfg.Store.Driver == config.StoreDriverSQLite {
		dbSystem = "sqlite"
	}
	plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:  cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem: dbSystem,
	}, log)
	if err := plugin.Register(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to register database tracing: %w", err)
	}

	var reg metric.Registration
	if cfg.Telemetry.Enabled {
		sqlDB, err := db.DB.DB()
		if err == nil {
			reg, err = telemetry.RegisterDBPoolMetrics(meter, sqlDB)
		}
		if err != nil {
			log.Warn("Database pool metrics unavailable", zap.Error(err))
		}
	}

	return &stores{
		Orders:   persistence.NewGormOrderRepository(db.DB),
		Products: persistence.NewGormProductRepository(db.DB),
		ping:     func(context.Context) error { return db.Ping() },
		close: func() error {
			if reg != nil {
				_ = reg.Unregister()
			}
			return db.Close()
		},
	}, nil
}

// buildAuth resolves the admin token verifier and login service for the
// configured identity provider
func buildAuth(ctx context.Context, cfg *config.Config, caches *cache.Caches, log *zap.Logger) (auth.TokenVerifier, *identity.AuthService, error) {
	switch cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		verifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firestore, cfg.Auth.AdminEmail)
		if err != nil {
			return nil, nil, err
		}
		svc := identity.NewAuthService(nil, nil, nil,
			identity.AuthServiceConfig{Provider: config.AuthProviderFirebase}, log)
		return verifier, svc, nil

	case config.AuthProviderLocal, "":
		if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPasswordHash == "" {
			return nil, nil, errors.New("local auth requires auth.admin_email and auth.admin_password_hash")
		}
		var revoked auth.RevocationList = auth.NewInMemoryRevocationList()
		if caches.Redis != nil {
			revoked = auth.NewRedisRevocationList(caches.Redis, cfg.Cache.KeyPrefix)
		}
		jwtService := auth.NewJWTService(cfg.Auth.JWT)
		svc := identity.NewAuthService(
			auth.NewAdminCredentials(cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash),
			jwtService,
			revoked,
			identity.AuthServiceConfig{Provider: config.AuthProviderLocal},
			log,
		)
		return auth.NewJWTVerifier(jwtService, revoked), svc, nil

	default:
		return nil, nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}
