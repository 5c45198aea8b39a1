package main

import (
	"fmt"
	"log"

	"github.com/mnhthng/marketpulse/collector"
	"github.com/mnhthng/marketpulse/collector/news"
	"github.com/mnhthng/marketpulse/collector/news/newsapi"
	"github.com/mnhthng/marketpulse/collector/report"
	"github.com/mnhthng/marketpulse/collector/weather"
	"github.com/mnhthng/marketpulse/collector/weather/owm"
	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/corpus"
	"github.com/mnhthng/marketpulse/internal/extract"
	"github.com/mnhthng/marketpulse/internal/fetch"
	"github.com/mnhthng/marketpulse/internal/store"
)

// app wires config, storage and collectors. A collector whose construction
// fails (typically a missing API key) is logged once and left out; the
// remaining collectors still run.
type app struct {
	cfg       *config.Config
	store     store.Store
	assembler *corpus.Assembler
	jobs      []collector.Collector
	logger    *log.Logger
}

func buildApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	flags := log.LstdFlags
	if cfg.General.Debug {
		flags |= log.Lshortfile
	}
	logger := log.New(log.Writer(), "[MARKETPULSE] ", flags)

	st, err := store.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	fetcher, err := fetch.New(cfg.Fetch)
	if err != nil {
		return nil, fmt.Errorf("initializing fetcher: %w", err)
	}
	extractor := extract.New(fetcher)

	var jobs []collector.Collector

	if searcher, err := newsapi.New(cfg.Sources.NewsAPI); err != nil {
		logger.Printf("news collector disabled: %v", err)
	} else {
		jobs = append(jobs, news.New(cfg.Sources.NewsAPI, searcher, extractor, st))
	}

	if source, err := owm.New(cfg.Sources.OpenWeather); err != nil {
		logger.Printf("weather collector disabled: %v", err)
	} else {
		jobs = append(jobs, weather.New(cfg.Sources.OpenWeather, source, st))
	}

	if ingester, err := report.New(cfg.Sources.SalesReport, fetcher, st); err != nil {
		logger.Printf("report collector disabled: %v", err)
	} else {
		jobs = append(jobs, ingester)
	}

	return &app{
		cfg:       cfg,
		store:     st,
		assembler: corpus.New(st),
		jobs:      jobs,
		logger:    logger,
	}, nil
}
