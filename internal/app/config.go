package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds application configuration from env
type Config struct {
	// Dashboard session
	Username     string `validate:"required_without=PortfolioHTML"`
	Password     string `validate:"required_without=PortfolioHTML"`
	LoginURL     string `validate:"required_without=PortfolioHTML,omitempty,url"`
	PortfolioURL string `validate:"required_without=PortfolioHTML,omitempty,url"`
	// When set, skip the browser and read a rendered page from disk.
	PortfolioHTML string

	// Price-data provider
	BrapiBaseURL string `validate:"required,url"`
	BrapiToken   string `validate:"required"`
	FetchPace    time.Duration

	// Dataset blob: file and s3 are mutually exclusive deployment modes.
	StorageBackend string `validate:"oneof=file s3"`
	ParquetPath    string
	S3Endpoint     string
	S3Bucket       string
	S3Key          string
	S3AccessKey    string
	S3SecretKey    string
	S3UseSSL       bool

	// Publish sink
	PublishSink     string `validate:"oneof=sheets xlsx none"`
	SheetsKey       string
	WorksheetName   string
	CredentialsPath string
	XLSXPath        string

	LogLevel string // debug | info | warn | error
}

// LoadConfig reads config from environment
func LoadConfig() *Config {
	cfg := &Config{
		Username:        os.Getenv("SUNO_USERNAME"),
		Password:        os.Getenv("SUNO_PASSWORD"),
		LoginURL:        getEnv("SUNO_LOGIN_URL", "https://login.suno.com.br/entrar/cef02de7-1e5a-4b0e-9f41-04e9278aa2d7/"),
		PortfolioURL:    getEnv("SUNO_FIIS_URL", "https://investidor.suno.com.br/carteiras/fiis"),
		PortfolioHTML:   os.Getenv("PORTFOLIO_HTML_FILE"),
		BrapiBaseURL:    getEnv("BRAPI_BASE_URL", "https://brapi.dev/api"),
		BrapiToken:      os.Getenv("BRAPI_TOKEN"),
		FetchPace:       time.Second,
		StorageBackend:  getEnv("STORAGE_BACKEND", "file"),
		ParquetPath:     os.Getenv("PARQUET_FILE_PATH"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Key:           getEnv("S3_KEY", "fii-history.parquet"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		PublishSink:     getEnv("PUBLISH_SINK", "sheets"),
		SheetsKey:       os.Getenv("GOOGLE_SHEETS_KEY"),
		WorksheetName:   getEnv("GSHEET_WORKSHEET_NAME", "Carteira_Suno"),
		CredentialsPath: os.Getenv("GSPREAD_CREDENTIALS_PATH"),
		XLSXPath:        getEnv("XLSX_PATH", "carteira.xlsx"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
	if ms := os.Getenv("FETCH_PACE_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= 0 {
			cfg.FetchPace = time.Duration(v) * time.Millisecond
		}
	}
	if v, err := strconv.ParseBool(os.Getenv("S3_USE_SSL")); err == nil {
		cfg.S3UseSSL = v
	}
	return cfg
}

// Validate checks the surface once at startup so a stage never discovers a
// missing setting halfway through a run.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.StorageBackend {
	case "file":
		if c.ParquetPath == "" {
			return fmt.Errorf("config: PARQUET_FILE_PATH not set for file backend")
		}
	case "s3":
		if c.S3Endpoint == "" || c.S3Bucket == "" {
			return fmt.Errorf("config: S3_ENDPOINT and S3_BUCKET required for s3 backend")
		}
	}
	switch c.PublishSink {
	case "sheets":
		if c.SheetsKey == "" || c.CredentialsPath == "" {
			return fmt.Errorf("config: GOOGLE_SHEETS_KEY and GSPREAD_CREDENTIALS_PATH required for sheets sink")
		}
	}
	return nil
}

// ReportDir returns where the fetch report JSON lands (dataset directory for
// the file backend, working directory otherwise).
func (c *Config) ReportDir() string {
	if c.StorageBackend == "file" && c.ParquetPath != "" {
		return filepath.Dir(c.ParquetPath)
	}
	return "."
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
