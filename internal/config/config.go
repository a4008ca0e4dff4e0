package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBDriver    string
	SQLitePath  string
	DatabaseURL string

	RedisAddr string
	CacheTTL  time.Duration

	UseKafka     bool
	KafkaBrokers []string
	OutboxPeriod time.Duration
	OutboxLimit  int

	HTTPPort         string
	JWTSecret        string
	AuthAllowHeaders bool
	PermissionsFile  string

	PendingStaleTime       time.Duration
	PendingRefreshInterval time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MediaDir       string

	MongoURI       string
	MongoDB        string
	ClickHouseAddr string
	ClickHouseDB   string
}

var defaults = map[string]interface{}{
	"DB_DRIVER":                "sqlite",
	"SQLITE_PATH":              "./autostock.db",
	"DATABASE_URL":             "",
	"REDIS_ADDR":               "localhost:6379",
	"CACHE_TTL":                "5m",
	"USE_KAFKA":                false,
	"KAFKA_BROKERS":            "localhost:9092",
	"OUTBOX_PERIOD":            "1s",
	"OUTBOX_LIMIT":             10,
	"HTTP_PORT":                "8080",
	"JWT_SECRET":               "",
	"AUTH_ALLOW_HEADERS":       false,
	"PERMISSIONS_FILE":         "",
	"PENDING_STALE_TIME":       "2m",
	"PENDING_REFRESH_INTERVAL": "5m",
	"MINIO_ENDPOINT":           "",
	"MINIO_ACCESS_KEY":         "",
	"MINIO_SECRET_KEY":         "",
	"MINIO_BUCKET":             "autostock-media",
	"MINIO_USE_SSL":            false,
	"MEDIA_DIR":                "./media",
	"MONGO_URI":                "",
	"MONGO_DB":                 "autostock",
	"CLICKHOUSE_ADDR":          "",
	"CLICKHOUSE_DB":            "autostock",
}

// LoadConfig lee la configuración del viper global, donde la CLI enlaza sus flags.
func LoadConfig() *Config {
	return Load(viper.GetViper())
}

// Load lee la configuración de v: variables de entorno con valores por defecto.
func Load(v *viper.Viper) *Config {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return &Config{
		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		SQLitePath:  v.GetString("SQLITE_PATH"),
		DatabaseURL: v.GetString("DATABASE_URL"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		CacheTTL:  v.GetDuration("CACHE_TTL"),

		UseKafka:     v.GetBool("USE_KAFKA"),
		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		OutboxPeriod: v.GetDuration("OUTBOX_PERIOD"),
		OutboxLimit:  v.GetInt("OUTBOX_LIMIT"),

		HTTPPort:         v.GetString("HTTP_PORT"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		AuthAllowHeaders: v.GetBool("AUTH_ALLOW_HEADERS"),
		PermissionsFile:  v.GetString("PERMISSIONS_FILE"),

		PendingStaleTime:       v.GetDuration("PENDING_STALE_TIME"),
		PendingRefreshInterval: v.GetDuration("PENDING_REFRESH_INTERVAL"),

		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:    v.GetString("MINIO_BUCKET"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		MediaDir:       v.GetString("MEDIA_DIR"),

		MongoURI:       v.GetString("MONGO_URI"),
		MongoDB:        v.GetString("MONGO_DB"),
		ClickHouseAddr: v.GetString("CLICKHOUSE_ADDR"),
		ClickHouseDB:   v.GetString("CLICKHOUSE_DB"),
	}
}

// DSN es la cadena de conexión del driver elegido.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.SQLitePath
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
