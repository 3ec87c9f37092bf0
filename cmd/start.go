package cmd

import (
	"context"

	"github.com/mikemajara/ai-chatbot/internal/conf"
	"github.com/mikemajara/ai-chatbot/internal/db"
	"github.com/mikemajara/ai-chatbot/internal/server"
	"github.com/mikemajara/ai-chatbot/internal/server/handlers"
	"github.com/mikemajara/ai-chatbot/internal/task"
	"github.com/mikemajara/ai-chatbot/internal/utils/log"
	"github.com/mikemajara/ai-chatbot/internal/utils/shutdown"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start " + conf.APP_NAME,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		conf.PrintBanner()
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		shutdown.Init(log.Logger)
		shutdown.Register("log", log.Sync)

		store, err := openStore()
		if err != nil {
			return err
		}
		shutdown.Register("database", db.Close)

		mapping, err := loadMapping()
		if err != nil {
			shutdown.Shutdown()
			return err
		}
		scraper, err := newScraper()
		if err != nil {
			shutdown.Shutdown()
			return err
		}
		if conf.AppConfig.Sync.APIKey == "" {
			log.Warnf("sync.api_key is empty, capability endpoints will refuse every request")
		}

		if err := server.Start(handlers.Deps{
			Store:   store,
			Mapping: mapping,
			Scraper: scraper,
			APIKey:  conf.AppConfig.Sync.APIKey,
		}); err != nil {
			shutdown.Shutdown()
			return err
		}
		shutdown.Register("server", server.Close)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		shutdown.Register("tasks", func() error {
			cancel()
			<-done
			return nil
		})
		task.Init(store, mapping, conf.AppConfig.Sync.Interval())
		retune := task.IntervalWatcher(task.TaskCapabilitySync, conf.AppConfig.Sync.Interval())
		conf.Watch(func(cfg conf.Config) { retune(cfg.Sync.Interval()) })
		go func() {
			defer close(done)
			task.Run(ctx)
		}()

		shutdown.Listen()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
