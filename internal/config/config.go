package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	DocAI  DocAIConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// DocAIConfig holds document-AI service settings. MaxDocTypes bounds the
// number of classification candidates requested per document.
type DocAIConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	MaxDocTypes int    `mapstructure:"max_doc_types"`
}

// S3Config holds object storage settings for archiving source PDFs.
// An empty Bucket disables archiving.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the INVOSCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoscan")
	v.SetDefault("db.password", "invoscan_secret")
	v.SetDefault("db.name", "invoscan_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Document-AI defaults
	v.SetDefault("docai.endpoint", "https://document.aiservice.us-ashburn-1.oci.oraclecloud.com/20221109/actions/analyzeDocument")
	v.SetDefault("docai.api_key", "")
	v.SetDefault("docai.timeout_secs", 60)
	v.SetDefault("docai.max_doc_types", 5)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "INVOSCAN_SERVER_PORT",
		"server.read_timeout":  "INVOSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout": "INVOSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":   "INVOSCAN_SERVER_ENVIRONMENT",
		"db.host":              "INVOSCAN_DB_HOST",
		"db.port":              "INVOSCAN_DB_PORT",
		"db.user":              "INVOSCAN_DB_USER",
		"db.password":          "INVOSCAN_DB_PASSWORD",
		"db.name":              "INVOSCAN_DB_NAME",
		"db.sslmode":           "INVOSCAN_DB_SSLMODE",
		"db.max_open":          "INVOSCAN_DB_MAX_OPEN",
		"db.max_idle":          "INVOSCAN_DB_MAX_IDLE",
		"docai.endpoint":       "INVOSCAN_DOCAI_ENDPOINT",
		"docai.api_key":        "INVOSCAN_DOCAI_API_KEY",
		"docai.timeout_secs":   "INVOSCAN_DOCAI_TIMEOUT_SECS",
		"docai.max_doc_types":  "INVOSCAN_DOCAI_MAX_DOC_TYPES",
		"s3.region":            "INVOSCAN_S3_REGION",
		"s3.bucket":            "INVOSCAN_S3_BUCKET",
		"s3.endpoint":          "INVOSCAN_S3_ENDPOINT",
		"s3.access_key":        "INVOSCAN_S3_ACCESS_KEY",
		"s3.secret_key":        "INVOSCAN_S3_SECRET_KEY",
		"s3.max_file_size_mb":  "INVOSCAN_S3_MAX_FILE_SIZE_MB",
		"log.level":            "INVOSCAN_LOG_LEVEL",
		"log.format":           "INVOSCAN_LOG_FORMAT",
		"cors.allowed_origins": "INVOSCAN_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOSCAN_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.DocAI = DocAIConfig{
		Endpoint:    v.GetString("docai.endpoint"),
		APIKey:      v.GetString("docai.api_key"),
		TimeoutSecs: v.GetInt("docai.timeout_secs"),
		MaxDocTypes: v.GetInt("docai.max_doc_types"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
