package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HADESIGN_DELIVERY_TOKEN
const EnvPrefix = "HADESIGN"

// Store drivers
const (
	StoreDriverPostgres  = "postgres"
	StoreDriverSQLite    = "sqlite"
	StoreDriverFirestore = "firestore"
)

// Cache drivers
const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

// Auth providers
const (
	AuthProviderLocal    = "local"
	AuthProviderFirebase = "firebase"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Firestore FirestoreConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Cart      CartConfig
	Catalog   CatalogConfig
	Delivery  DeliveryConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Media     MediaConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// StoreConfig selects the document backend for products and orders
type StoreConfig struct {
	Driver string // postgres, sqlite, firestore
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	MigrationsPath  string
}

// FirestoreConfig holds Firestore settings
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string // empty = application default credentials
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig selects the cache backend
type CacheConfig struct {
	Driver    string // redis, memory
	KeyPrefix string
}

// CartConfig holds session cart settings
type CartConfig struct {
	TTL time.Duration
}

// CatalogConfig holds product listing settings
type CatalogConfig struct {
	CacheTTL time.Duration // freshness window of the product list
}

// DeliveryConfig holds carrier integration settings
type DeliveryConfig struct {
	Enabled        bool
	Provider       string // ecotrack, procolis, golivri
	BaseURL        string
	Token          string
	SecondaryPhone string
	TimeoutSeconds int
	// AutoResyncInterval runs the unsynced-order sweeper; zero disables it
	// and leaves retries to the admin
	AutoResyncInterval time.Duration
	AutoResyncMinAge   time.Duration
	AutoResyncBatch    int
}

// Timeout returns the HTTP timeout of carrier calls
func (d DeliveryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// AuthConfig holds admin authentication settings
type AuthConfig struct {
	Provider          string // local, firebase
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash
	JWT               JWTConfig
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration time.Duration
	Issuer                string
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	UsePathStyle    bool
	MaxUploadSize   int64
}

// MediaConfig holds image URL settings
type MediaConfig struct {
	OptimizeWidth int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string
	Insecure          bool // Use insecure (non-TLS) connection (development only)
	DBTraceEnabled    bool
	LogsEnabled       bool // Export zap entries over OTLP (requires Enabled)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with HADESIGN_ prefix (e.g., HADESIGN_DELIVERY_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("delivery.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			MigrationsPath:  v.GetString("database.migrations_path"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       v.GetString("firestore.project_id"),
			CredentialsFile: v.GetString("firestore.credentials_file"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Driver:    strings.ToLower(v.GetString("cache.driver")),
			KeyPrefix: v.GetString("cache.key_prefix"),
		},
		Cart: CartConfig{
			TTL: v.GetDuration("cart.ttl"),
		},
		Catalog: CatalogConfig{
			CacheTTL: v.GetDuration("catalog.cache_ttl"),
		},
		Delivery: DeliveryConfig{
			Enabled:        v.GetBool("delivery.enabled"),
			Provider:       strings.ToLower(v.GetString("delivery.provider")),
			BaseURL:        strings.TrimRight(v.GetString("delivery.base_url"), "/"),
			Token:          v.GetString("delivery.token"),
			SecondaryPhone: v.GetString("delivery.secondary_phone"),
			TimeoutSeconds: v.GetInt("delivery.timeout_seconds"),

			AutoResyncInterval: v.GetDuration("delivery.auto_resync_interval"),
			AutoResyncMinAge:   v.GetDuration("delivery.auto_resync_min_age"),
			AutoResyncBatch:    v.GetInt("delivery.auto_resync_batch"),
		},
		Auth: AuthConfig{
			Provider:          strings.ToLower(v.GetString("auth.provider")),
			AdminEmail:        v.GetString("auth.admin_email"),
			AdminPasswordHash: v.GetString("auth.admin_password_hash"),
			JWT: JWTConfig{
				Secret:                v.GetString("auth.jwt.secret"),
				AccessTokenExpiration: v.GetDuration("auth.jwt.access_token_expiration"),
				Issuer:                v.GetString("auth.jwt.issuer"),
			},
		},
		Storage: StorageConfig{
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			PublicBaseURL:   v.GetString("storage.public_base_url"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			MaxUploadSize:   v.GetInt64("storage.max_upload_size"),
		},
		Media: MediaConfig{
			OptimizeWidth: v.GetInt("media.optimize_width"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "hadesign-api"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreDriverPostgres
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "hadesign"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "hadesign.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = CacheDriverMemory
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "hadesign:"
	}
	if cfg.Cart.TTL == 0 {
		cfg.Cart.TTL = 7 * 24 * time.Hour
	}
	if cfg.Catalog.CacheTTL == 0 {
		cfg.Catalog.CacheTTL = time.Hour
	}
	if cfg.Delivery.Provider == "" {
		cfg.Delivery.Provider = "procolis"
	}
	if cfg.Delivery.TimeoutSeconds == 0 {
		cfg.Delivery.TimeoutSeconds = 30
	}
	if cfg.Delivery.AutoResyncMinAge == 0 {
		cfg.Delivery.AutoResyncMinAge = 10 * time.Minute
	}
	if cfg.Delivery.AutoResyncBatch == 0 {
		cfg.Delivery.AutoResyncBatch = 20
	}
	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = AuthProviderLocal
	}
	if cfg.Auth.JWT.AccessTokenExpiration == 0 {
		cfg.Auth.JWT.AccessTokenExpiration = 12 * time.Hour
	}
	if cfg.Auth.JWT.Issuer == "" {
		cfg.Auth.JWT.Issuer = "hadesign-api"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.MaxUploadSize == 0 {
		cfg.Storage.MaxUploadSize = 5 << 20 // 5MB
	}
	if cfg.Media.OptimizeWidth == 0 {
		cfg.Media.OptimizeWidth = 800
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// checkout waits on the carrier call
		cfg.HTTP.WriteTimeout = 45 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	// An empty origin list allows no cross-origin requests.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Cart-Session"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
}

// KnownDeliveryProviders lists the carrier contracts the service speaks
var KnownDeliveryProviders = []string{"ecotrack", "procolis", "golivri"}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverSQLite:
	case StoreDriverFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("firestore.project_id is required when store.driver is firestore")
		}
	default:
		return fmt.Errorf("store.driver must be one of postgres, sqlite, firestore, got %q", c.Store.Driver)
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Cache.Driver != CacheDriverRedis && c.Cache.Driver != CacheDriverMemory {
		return fmt.Errorf("cache.driver must be redis or memory, got %q", c.Cache.Driver)
	}

	if c.Delivery.Enabled {
		known := false
		for _, p := range KnownDeliveryProviders {
			if c.Delivery.Provider == p {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("delivery.provider %q is not supported (want one of %s)",
				c.Delivery.Provider, strings.Join(KnownDeliveryProviders, ", "))
		}
		if c.Delivery.BaseURL == "" {
			return fmt.Errorf("delivery.base_url is required when delivery is enabled")
		}
		if _, err := url.ParseRequestURI(c.Delivery.BaseURL); err != nil {
			return fmt.Errorf("delivery.base_url is invalid: %w", err)
		}
	}
	if c.Delivery.TimeoutSeconds < 0 {
		return fmt.Errorf("delivery.timeout_seconds cannot be negative")
	}
	if c.Delivery.AutoResyncInterval < 0 {
		return fmt.Errorf("delivery.auto_resync_interval cannot be negative")
	}

	switch c.Auth.Provider {
	case AuthProviderLocal, AuthProviderFirebase:
	default:
		return fmt.Errorf("auth.provider must be local or firebase, got %q", c.Auth.Provider)
	}
	if c.Auth.Provider == AuthProviderFirebase && c.Firestore.ProjectID == "" {
		return fmt.Errorf("firestore.project_id is required when auth.provider is firebase")
	}

	if c.App.IsProduction() {
		if c.Auth.Provider == AuthProviderLocal {
			if len(c.Auth.JWT.Secret) < 32 {
				return fmt.Errorf("auth.jwt.secret must be at least 32 characters in production")
			}
			if c.Auth.AdminEmail == "" || c.Auth.AdminPasswordHash == "" {
				return fmt.Errorf("auth.admin_email and auth.admin_password_hash are required in production")
			}
		}
		if c.Delivery.Enabled && c.Delivery.Token == "" {
			return fmt.Errorf("delivery.token is required in production")
		}
		if c.Store.Driver == StoreDriverPostgres && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
