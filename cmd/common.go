package cmd

import (
	"fmt"

	"github.com/mikemajara/ai-chatbot/internal/capability"
	"github.com/mikemajara/ai-chatbot/internal/client"
	"github.com/mikemajara/ai-chatbot/internal/conf"
	"github.com/mikemajara/ai-chatbot/internal/db"
	"github.com/mikemajara/ai-chatbot/internal/op"
	"github.com/mikemajara/ai-chatbot/internal/scrape"
	"github.com/mikemajara/ai-chatbot/internal/utils/log"
)

func loadConfig() error {
	if err := conf.Load(cfgFile); err != nil {
		return err
	}
	log.SetFormat(conf.AppConfig.Log.Format)
	log.SetLevel(conf.AppConfig.Log.Level)
	return nil
}

func openStore() (*op.ModelStore, error) {
	if err := db.InitDB(conf.AppConfig.Database.Type, conf.AppConfig.Database.Path, conf.IsDebug()); err != nil {
		return nil, fmt.Errorf("database init error: %w", err)
	}
	return op.Models(), nil
}

func loadMapping() (*capability.Mapping, error) {
	m, err := capability.Load(conf.AppConfig.Sync.MappingFile)
	if err != nil {
		return nil, fmt.Errorf("mapping load error: %w", err)
	}
	return m, nil
}

func newScraper() (*scrape.Scraper, error) {
	httpClient, err := client.Get(conf.AppConfig.Scrape.ProxyURL)
	if err != nil {
		return nil, fmt.Errorf("scrape client error: %w", err)
	}
	opts := []scrape.Option{scrape.WithCacheTTL(conf.AppConfig.Scrape.CacheTTL())}
	if ua := conf.AppConfig.Scrape.UserAgent; ua != "" {
		opts = append(opts, scrape.WithHeader("User-Agent", ua))
	}
	return scrape.NewScraper(conf.AppConfig.Scrape.URL, httpClient, opts...), nil
}
