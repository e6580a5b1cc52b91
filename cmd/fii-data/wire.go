//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"fii-data/internal/app"
	"fii-data/internal/provider"
	"fii-data/internal/run"
	"fii-data/internal/session"
)

// App holds application dependencies built by Wire.
type App struct {
	Config   *app.Config
	Source   session.DocumentSource
	Quotes   provider.QuoteProvider
	Pipeline *run.Pipeline
}

// InitializeApp builds App via Wire.
// Caller must close a.Source and a.Quotes when done.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideDocumentSource,
		app.ProvideQuoteProvider,
		app.ProvideBlobStore,
		app.ProvideDataset,
		app.ProvideSink,
		app.ProvidePipeline,
		wire.Bind(new(provider.QuoteProvider), new(*provider.BrapiProvider)),
		wire.Struct(new(App), "Config", "Source", "Quotes", "Pipeline"),
	)
	return nil, nil
}
