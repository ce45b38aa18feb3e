package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppPort                string        `envconfig:"APP_PORT" default:"5000"`
	AppName                string        `envconfig:"APP_NAME" default:"product-transactions"`
	AppEnv                 string        `envconfig:"APP_ENV" default:"development"`
	LogLevel               string        `envconfig:"LOG_LEVEL" default:"info"`
	MongoURI               string        `envconfig:"MONGO_URI" required:"true"`
	MongoDBName            string        `envconfig:"MONGO_DB_NAME" default:"Roxiler"`
	MongoCollection        string        `envconfig:"MONGO_COLLECTION" default:"products"`
	FeedURL                string        `envconfig:"FEED_URL" default:"https://s3.amazonaws.com/roxiler.com/product_transaction.json"`
	FeedTimeout            time.Duration `envconfig:"FEED_TIMEOUT" default:"30s"`
	HTTPReadTimeout        time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout       time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	CORSAllowedOrigins     []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	TraceExporter          string        `envconfig:"TRACE_EXPORTER" default:"none"`
	RemoteTraceRpcURI      string        `envconfig:"REMOTE_TRACE_RPC_URI"`
	RemoteLogHttpURI       string        `envconfig:"REMOTE_LOG_HTTP_URI"`
	RemoteProfilingHttpURI string        `envconfig:"REMOTE_PROFILING_HTTP_URI"`
}

// SafeConfig is the loggable view of Config (no connection strings).
type SafeConfig struct {
	AppPort                string        `json:"app_port"`
	AppName                string        `json:"app_name"`
	AppEnv                 string        `json:"app_env"`
	LogLevel               string        `json:"log_level"`
	MongoDBName            string        `json:"mongo_db_name"`
	MongoCollection        string        `json:"mongo_collection"`
	FeedURL                string        `json:"feed_url"`
	FeedTimeout            time.Duration `json:"feed_timeout"`
	CORSAllowedOrigins     string        `json:"cors_allowed_origins"`
	TraceExporter          string        `json:"trace_exporter"`
	RemoteTraceRpcURI      string        `json:"remote_trace_rpc_uri"`
	RemoteLogHttpURI       string        `json:"remote_log_http_uri"`
	RemoteProfilingHttpURI string        `json:"remote_profiling_http_uri"`
}

var validExporters = map[string]bool{"none": true, "stdout": true, "otlp": true}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.AppPort == "" {
		problems = append(problems, "APP_PORT is empty")
	}
	if c.MongoURI == "" {
		problems = append(problems, "MONGO_URI is empty")
	}
	if c.FeedURL == "" {
		problems = append(problems, "FEED_URL is empty")
	}
	if c.FeedTimeout <= 0 {
		problems = append(problems, "FEED_TIMEOUT must be positive")
	}
	c.TraceExporter = strings.ToLower(c.TraceExporter)
	if !validExporters[c.TraceExporter] {
		problems = append(problems, fmt.Sprintf("TRACE_EXPORTER %q is not one of none|stdout|otlp", c.TraceExporter))
	}
	if c.TraceExporter == "otlp" && c.RemoteTraceRpcURI == "" {
		problems = append(problems, "REMOTE_TRACE_RPC_URI is required when TRACE_EXPORTER=otlp")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppPort:                c.AppPort,
		AppName:                c.AppName,
		AppEnv:                 c.AppEnv,
		LogLevel:               c.LogLevel,
		MongoDBName:            c.MongoDBName,
		MongoCollection:        c.MongoCollection,
		FeedURL:                c.FeedURL,
		FeedTimeout:            c.FeedTimeout,
		CORSAllowedOrigins:     strings.Join(c.CORSAllowedOrigins, ","),
		TraceExporter:          c.TraceExporter,
		RemoteTraceRpcURI:      c.RemoteTraceRpcURI,
		RemoteLogHttpURI:       c.RemoteLogHttpURI,
		RemoteProfilingHttpURI: c.RemoteProfilingHttpURI,
	}
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "5000"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := prefix + "." + jsonKey(f)
		fv := v.Field(i)

		if d, ok := fv.Interface().(time.Duration); ok {
			attrs = append(attrs, slog.String(key, d.String()))
			continue
		}
		switch fv.Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, fv.String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, fv.Int()))
		default:
			attrs = append(attrs, slog.Any(key, fv.Interface()))
		}
	}
	return attrs
}

// json tag name when present, otherwise the field name in snake_case
func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}
