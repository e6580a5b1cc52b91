package app

import (
	"fmt"

	"fii-data/internal/provider"
	"fii-data/internal/publish"
	"fii-data/internal/run"
	"fii-data/internal/session"
	"fii-data/internal/store"
)

// ProvideConfig loads and validates config from environment (for Wire).
func ProvideConfig() (*Config, error) {
	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProvideDocumentSource picks the file override when set, otherwise the
// headless browser flow (for Wire).
func ProvideDocumentSource(cfg *Config) session.DocumentSource {
	if cfg.PortfolioHTML != "" {
		return &session.FileSource{Path: cfg.PortfolioHTML}
	}
	return session.NewChromeSource(session.ChromeConfig{
		LoginURL:     cfg.LoginURL,
		PortfolioURL: cfg.PortfolioURL,
		Username:     cfg.Username,
		Password:     cfg.Password,
	})
}

// ProvideQuoteProvider creates the brapi-backed QuoteProvider (for Wire).
// Caller must call Close when shutting down.
func ProvideQuoteProvider(cfg *Config) (*provider.BrapiProvider, error) {
	p, err := provider.NewBrapiProvider(cfg.BrapiBaseURL, cfg.BrapiToken)
	if err != nil {
		return nil, err
	}
	p.SetPace(cfg.FetchPace)
	return p, nil
}

// ProvideBlobStore selects the dataset blob backend from config (for Wire).
func ProvideBlobStore(cfg *Config) (store.BlobStore, error) {
	switch cfg.StorageBackend {
	case "file":
		return &store.FileStore{Path: cfg.ParquetPath}, nil
	case "s3":
		return store.NewObjectStore(store.ObjectStoreConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Key:       cfg.S3Key,
			UseSSL:    cfg.S3UseSSL,
		})
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q (use: file, s3)", cfg.StorageBackend)
	}
}

// ProvideDataset wraps the blob store (for Wire).
func ProvideDataset(blob store.BlobStore) *store.Dataset {
	return store.NewDataset(blob)
}

// ProvideSink creates the publish sink from config (for Wire).
func ProvideSink(cfg *Config) (publish.Sink, error) {
	switch cfg.PublishSink {
	case "sheets":
		return publish.NewSheetsSink(cfg.CredentialsPath, cfg.SheetsKey, cfg.WorksheetName)
	case "xlsx":
		return &publish.WorkbookSink{Path: cfg.XLSXPath, Worksheet: cfg.WorksheetName}, nil
	case "none":
		return publish.Discard{}, nil
	default:
		return nil, fmt.Errorf("unsupported PUBLISH_SINK %q (use: sheets, xlsx, none)", cfg.PublishSink)
	}
}

// ProvidePipeline assembles the run pipeline (for Wire).
func ProvidePipeline(cfg *Config, src session.DocumentSource, quotes *provider.BrapiProvider, ds *store.Dataset, sink publish.Sink) *run.Pipeline {
	return &run.Pipeline{
		Source:    src,
		Quotes:    quotes,
		Store:     ds,
		Sink:      sink,
		ReportDir: cfg.ReportDir(),
	}
}
