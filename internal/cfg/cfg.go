package cfg

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

type Config struct {
	Minio *MinIOCfg
	Http  *HTTPConfig
	Grpc  *GRPCConfig
	Db    *PGDBCfg
	Redis *RedisCfg
	Kafka *KafkaCfg
	Auth  *AuthCfg
	Admin *AdminCfg
	Log   *LogCfg
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	OutboxBatchSize   int
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название бакета с изображениями товаров
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool   // Использовать ли TLS при подключении
	PublicBaseURL     string // Базовый адрес, по которому изображения доступны витрине
	MaxImageSize      int64  // Максимальный размер одного изображения в байтах
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	SwaggerURL   string
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int32
	MigrationsDir string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

// AuthCfg описывает внешний провайдер идентификации администраторов.
type AuthCfg struct {
	ProviderURL   string // Базовый адрес провайдера, например https://xyz.supabase.co
	AnonKey       string // Публичный ключ, передается в заголовке apikey
	JWTSecret     string // Секрет, которым провайдер подписывает access-токены (HS256)
	SecureCookies bool
	RefreshTTL    time.Duration
	Timeout       time.Duration
}

// AdminCfg — настройки админки.
type AdminCfg struct {
	PathPrefix string // Сегмент пути админских маршрутов: /api/v1/{PathPrefix}/...
}

type LogCfg struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

var pathPrefixRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Переменные из .env подхватываются, если файл существует.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("failed to load .env: %v", err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	auth, err := loadAuthCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio: minio,
		Http:  http,
		Grpc:  loadGRPCConfig(),
		Db:    db,
		Redis: redis,
		Kafka: kafka,
		Auth:  auth,
		Admin: loadAdminCfg(),
		Log:   LoadLogCfg(),
	}, nil
}

// LoadDB читает только настройки PostgreSQL. Используется командой migrate.
func LoadDB(log logger.Logger) (*PGDBCfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("failed to load .env: %v", err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

// LoadLogCfg читает настройки логгера. Вызывается до Load, чтобы логгер был готов раньше остального.
func LoadLogCfg() *LogCfg {
	return &LogCfg{
		Level:             getEnvOrDefault("LOG_LEVEL", "info"),
		Encoding:          getEnvOrDefault("LOG_ENCODING", "json"),
		DisableCaller:     parseBoolEnv("LOG_DISABLE_CALLER", false),
		DisableStacktrace: parseBoolEnv("LOG_DISABLE_STACKTRACE", true),
	}
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultBrokers           = "localhost:9092"
		defaultTopic             = "storefront.catalog"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultOutboxBatchSize   = 10
	)

	brokers := strings.Split(getEnvOrDefault("KAFKA_BROKERS", defaultBrokers), ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	batchSize, err := parseIntEnv("OUTBOX_BATCH_SIZE", defaultOutboxBatchSize)
	if err != nil {
		return nil, e.Wrap("OUTBOX_BATCH_SIZE", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		OutboxBatchSize:   batchSize,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL       = false
		defaultEndpoint     = "minio:9000"
		defaultBucket       = "product-images"
		defaultMaxImageSize = 5 << 20
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	endpoint := getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint)
	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		PublicBaseURL:     strings.TrimRight(getEnvOrDefault("MINIO_PUBLIC_URL", scheme+"://"+endpoint), "/"),
		MaxImageSize:      defaultMaxImageSize,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		SwaggerURL:   getEnvOrDefault("SWAGGER_URL", "http://localhost:"+port+"/swagger/doc.json"),
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost          = "localhost"
		defaultPort          = "5432"
		defaultSSLMode       = "disable"
		defaultMaxConns      = 10
		defaultMigrationsDir = "db/migrations"
	)

	required, err := requireEnv(log, "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB")
	if err != nil {
		return nil, err
	}

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", defaultMaxConns)
	if err != nil {
		log.Errorf(err, "invalid POSTGRES_MAX_CONNS")
		return nil, err
	}

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:          required["POSTGRES_USER"],
		Password:      required["POSTGRES_PASSWORD"],
		DBName:        required["POSTGRES_DB"],
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MaxConns:      int32(maxConns),
		MigrationsDir: getEnvOrDefault("MIGRATIONS_DIR", defaultMigrationsDir),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr        = "localhost:6379"
		defaultMaxRetries  = 3
		defaultDialTimeout = 5 * time.Second
		defaultIOTimeout   = 3 * time.Second
	)

	db, err := parseIntEnv("REDIS_DB_ID", 0)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	timeouts := map[string]time.Duration{
		"DIAL_TIMEOUT":  defaultDialTimeout,
		"READ_TIMEOUT":  defaultIOTimeout,
		"WRITE_TIMEOUT": defaultIOTimeout,
	}
	for key, def := range timeouts {
		v, err := parseDurationEnv(key, def)
		if err != nil {
			log.Errorf(err, "invalid %s", key)
			return nil, e.Wrap(key, err)
		}
		timeouts[key] = v
	}

	// go-redis использует один таймаут на чтение и запись, берем больший.
	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		User:        getEnv("REDIS_USER"),
		Password:    getEnv("REDIS_PASSWORD"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: timeouts["DIAL_TIMEOUT"],
		Timeout:     max(timeouts["READ_TIMEOUT"], timeouts["WRITE_TIMEOUT"]),
	}, nil
}

func loadAuthCfg(log logger.Logger) (*AuthCfg, error) {
	const (
		defaultRefreshTTL = 30 * 24 * time.Hour
		defaultTimeout    = 10 * time.Second
	)

	required, err := requireEnv(log, "AUTH_PROVIDER_URL", "AUTH_JWT_SECRET")
	if err != nil {
		return nil, err
	}

	timeout, err := parseDurationEnv("AUTH_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid AUTH_TIMEOUT")
		return nil, err
	}

	return &AuthCfg{
		ProviderURL:   strings.TrimRight(required["AUTH_PROVIDER_URL"], "/"),
		AnonKey:       getEnv("AUTH_ANON_KEY"),
		JWTSecret:     required["AUTH_JWT_SECRET"],
		SecureCookies: getEnv("APP_ENV") == "production",
		RefreshTTL:    defaultRefreshTTL,
		Timeout:       timeout,
	}, nil
}

func loadAdminCfg() *AdminCfg {
	const defaultPathPrefix = "admin"

	prefix := pathPrefixRe.ReplaceAllString(strings.Trim(getEnv("ADMIN_PATH"), "/"), "")
	if prefix == "" {
		prefix = defaultPathPrefix
	}

	return &AdminCfg{PathPrefix: prefix}
}

// requireEnv читает обязательные переменные. Ошибка перечисляет все незаданные.
func requireEnv(log logger.Logger, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	var missing []string
	for _, key := range keys {
		v := getEnv(key)
		if v == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = v
	}

	if len(missing) > 0 {
		err := fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
		log.Errorf(err, "incomplete configuration")
		return nil, err
	}

	return values, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", e.ErrIncorrectEnvVariable, key, v)
	}

	return intValue, nil
}

func parseBoolEnv(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}

	return defaultValue
}
