package conf

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/mikemajara/ai-chatbot/internal/utils/log"
	"github.com/spf13/viper"
)

// Watch re-reads the config file on every change and hands the decoded config to fn.
// AppConfig itself is left untouched; invalid edits are logged and dropped.
func Watch(fn func(Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode()
		if err != nil {
			log.Warnf("ignoring config change in %s: %v", e.Name, err)
			return
		}
		log.Infof("config file %s changed", e.Name)
		fn(cfg)
	})
	viper.WatchConfig()
}

func decode() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
