package conf

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mikemajara/ai-chatbot/internal/utils/log"
	"github.com/spf13/viper"
)

type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Database struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
}

type Sync struct {
	APIKey        string `mapstructure:"api_key"`
	MappingFile   string `mapstructure:"mapping_file"`
	IntervalHours int    `mapstructure:"interval_hours"`
}

func (s Sync) Interval() time.Duration {
	return time.Duration(s.IntervalHours) * time.Hour
}

type Scrape struct {
	URL             string `mapstructure:"url"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	ProxyURL        string `mapstructure:"proxy_url"`
	UserAgent       string `mapstructure:"user_agent"`
}

func (s Scrape) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

type Cors struct {
	AllowOrigins string `mapstructure:"allow_origins"`
}

type Config struct {
	Server   Server   `mapstructure:"server"`
	Log      Log      `mapstructure:"log"`
	Database Database `mapstructure:"database"`
	Sync     Sync     `mapstructure:"sync"`
	Scrape   Scrape   `mapstructure:"scrape"`
	Cors     Cors     `mapstructure:"cors"`
}

var AppConfig Config

func Load(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("json")
		viper.AddConfigPath("data")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(APP_NAME)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		log.Infof("Using config file: %s", viper.ConfigFileUsed())
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Infof("Config file not found, creating default config")
			if err := os.MkdirAll("data", 0755); err != nil {
				log.Errorf("Failed to create data directory: %v", err)
			}
			if err := viper.SafeWriteConfigAs("data/config.json"); err != nil {
				log.Errorf("Failed to create default config: %v", err)
			}
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := decode()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func (c Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "mysql", "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Sync.IntervalHours < 0 {
		return fmt.Errorf("sync.interval_hours must not be negative")
	}
	if c.Scrape.CacheTTLSeconds < 0 {
		return fmt.Errorf("scrape.cache_ttl_seconds must not be negative")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.path", "data/data.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	// keys without a default are invisible to AutomaticEnv during Unmarshal
	viper.SetDefault("sync.api_key", "")
	viper.SetDefault("sync.mapping_file", "")
	viper.SetDefault("sync.interval_hours", 0)
	viper.SetDefault("scrape.url", "https://vercel.com/ai-gateway/models")
	viper.SetDefault("scrape.cache_ttl_seconds", 3600)
	viper.SetDefault("scrape.proxy_url", "")
	viper.SetDefault("scrape.user_agent", "")
	viper.SetDefault("cors.allow_origins", "")
}
