package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Recommend RecommendConfig `yaml:"recommend" mapstructure:"recommend"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig selects where the product and store tables are loaded from.
type DataConfig struct {
	Source        string        `yaml:"source" mapstructure:"source"`
	Path          string        `yaml:"path" mapstructure:"path"`
	ProductsSheet string        `yaml:"products_sheet" mapstructure:"products_sheet"`
	StoresSheet   string        `yaml:"stores_sheet" mapstructure:"stores_sheet"`
	ProductsTable string        `yaml:"products_table" mapstructure:"products_table"`
	StoresTable   string        `yaml:"stores_table" mapstructure:"stores_table"`
	ProductsPath  string        `yaml:"products_path" mapstructure:"products_path"`
	StoresPath    string        `yaml:"stores_path" mapstructure:"stores_path"`
	CSVDelimiter  string        `yaml:"csv_delimiter" mapstructure:"csv_delimiter"`
	DatabaseURL   string        `yaml:"database_url" mapstructure:"database_url"`
	Columns       ColumnsConfig `yaml:"columns" mapstructure:"columns"`
}

// ColumnsConfig maps logical fields to the header names used in the source tables.
type ColumnsConfig struct {
	SKU        string `yaml:"sku" mapstructure:"sku"`
	Store      string `yaml:"store" mapstructure:"store"`
	Price      string `yaml:"price" mapstructure:"price"`
	Coordinate string `yaml:"coordinate" mapstructure:"coordinate"`
	Color      string `yaml:"color" mapstructure:"color"`
	Type       string `yaml:"type" mapstructure:"type"`
	Brand      string `yaml:"brand" mapstructure:"brand"`
	Gender     string `yaml:"gender" mapstructure:"gender"`
	Address    string `yaml:"address" mapstructure:"address"`
}

// GeocodeConfig configures the geocoding providers.
type GeocodeConfig struct {
	NominatimURL string  `yaml:"nominatim_url" mapstructure:"nominatim_url"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	GoogleAPIKey string  `yaml:"google_api_key" mapstructure:"google_api_key"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit    float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	MaxAttempts  int     `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// Delimiter returns the CSV field separator, or 0 for the parser default.
func (d DataConfig) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(d.CSVDelimiter)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// Timeout returns the per-call geocoding timeout.
func (g GeocodeConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// RecommendConfig tunes query handling.
type RecommendConfig struct {
	DefaultPriority  int     `yaml:"default_priority" mapstructure:"default_priority"`
	SnapToleranceDeg float64 `yaml:"snap_tolerance_deg" mapstructure:"snap_tolerance_deg"`
	MinAddressLength int     `yaml:"min_address_length" mapstructure:"min_address_length"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Supported data sources.
const (
	SourceXLSX     = "xlsx"
	SourceCSV      = "csv"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RECOMMEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data.source", SourceXLSX)
	v.SetDefault("data.path", "Mắt Kính Data.xlsx")
	v.SetDefault("data.products_sheet", "SKU")
	v.SetDefault("data.stores_sheet", "Cửa hàng")
	v.SetDefault("data.products_table", "products")
	v.SetDefault("data.stores_table", "stores")
	v.SetDefault("data.csv_delimiter", ",")
	v.SetDefault("data.columns.sku", "SKU")
	v.SetDefault("data.columns.store", "Cửa hàng")
	v.SetDefault("data.columns.price", "Price")
	v.SetDefault("data.columns.coordinate", "Tọa độ")
	v.SetDefault("data.columns.color", "Color")
	v.SetDefault("data.columns.type", "Type")
	v.SetDefault("data.columns.brand", "Brand")
	v.SetDefault("data.columns.gender", "Gender")
	v.SetDefault("data.columns.address", "Địa chỉ")
	v.SetDefault("geocode.nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "matkinh_app")
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("geocode.rate_limit", 1.0)
	v.SetDefault("geocode.max_attempts", 2)
	v.SetDefault("recommend.default_priority", 60)
	v.SetDefault("recommend.snap_tolerance_deg", 0.0005)
	v.SetDefault("recommend.min_address_length", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for the given command mode.
// Modes: "stores" (reference data only), "recommend", "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "stores", "recommend", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Data.Source {
	case SourceXLSX:
		if c.Data.Path == "" {
			errs = append(errs, "data.path is required for xlsx source")
		}
		if c.Data.ProductsSheet == "" || c.Data.StoresSheet == "" {
			errs = append(errs, "data.products_sheet and data.stores_sheet are required for xlsx source")
		}
	case SourceCSV:
		if c.Data.ProductsPath == "" || c.Data.StoresPath == "" {
			errs = append(errs, "data.products_path and data.stores_path are required for csv source")
		}
		if c.Data.CSVDelimiter != "" && utf8.RuneCountInString(c.Data.CSVDelimiter) != 1 {
			errs = append(errs, "data.csv_delimiter must be a single character")
		}
	case SourceSQLite:
		if c.Data.Path == "" {
			errs = append(errs, "data.path is required for sqlite source")
		}
	case SourcePostgres:
		if c.Data.DatabaseURL == "" {
			errs = append(errs, "data.database_url is required for postgres source")
		}
	default:
		errs = append(errs, "data.source must be one of xlsx, csv, sqlite, postgres")
	}

	if mode == "stores" {
		if len(errs) > 0 {
			return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
		}
		return nil
	}

	if c.Geocode.TimeoutSecs <= 0 {
		errs = append(errs, "geocode.timeout_secs must be > 0")
	}
	if c.Geocode.RateLimit <= 0 {
		errs = append(errs, "geocode.rate_limit must be > 0")
	}
	if c.Recommend.DefaultPriority < 0 || c.Recommend.DefaultPriority > 100 {
		errs = append(errs, "recommend.default_priority must be between 0 and 100")
	}
	if c.Recommend.SnapToleranceDeg <= 0 {
		errs = append(errs, "recommend.snap_tolerance_deg must be > 0")
	}
	if mode == "serve" && c.Server.Port <= 0 {
		errs = append(errs, "server.port must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
