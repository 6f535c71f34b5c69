package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ScraperConfig holds general browser/crawl settings.
type ScraperConfig struct {
	Headless          bool `yaml:"headless"`
	NavigationTimeout int  `yaml:"navigation_timeout_seconds"`
	PageSettle        int  `yaml:"page_settle_seconds"`
}

// SiteConfig holds the per-retailer crawl settings. StorageKey is the fixed
// object key the site's snapshot is persisted under; the two Coles variants
// use distinct keys so neither overwrites the other.
type SiteConfig struct {
	BaseURL      string   `yaml:"base_url"`
	SpecialsPath string   `yaml:"specials_path"`
	MaxPages     int      `yaml:"max_pages"`
	PageDelay    int      `yaml:"page_delay_seconds"`
	StorageKey   string   `yaml:"storage_key"`
	Wishlist     []string `yaml:"wishlist,omitempty"`
}

// ScheduleConfig fixes the weekly sync trigger shared by all sites.
type ScheduleConfig struct {
	Day      string `yaml:"day"`
	Hour     int    `yaml:"hour"`
	Minute   int    `yaml:"minute"`
	Timezone string `yaml:"timezone"`
}

// RedisConfig addresses the snapshot store. An empty Addr switches the app to
// an in-memory store, which is only useful for local debugging.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"-"`
	DB       int    `yaml:"db"`
}

// Config is the complete structure of the config.yml file.
type Config struct {
	Scraper ScraperConfig `yaml:"scraper"`
	Sites   struct {
		OzBargain  SiteConfig `yaml:"ozbargain"`
		Coles      SiteConfig `yaml:"coles"`
		ColesAPI   SiteConfig `yaml:"coles_api"`
		Woolworths SiteConfig `yaml:"woolworths"`
	} `yaml:"sites"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Redis    RedisConfig    `yaml:"redis"`
	Server   struct {
		Addr       string `yaml:"addr"`
		SyncSecret string `yaml:"-"`
	} `yaml:"server"`
	History struct {
		Path string `yaml:"path"`
	} `yaml:"history"`
}

// LoadConfig reads the yaml file and layers environment overrides on top.
// Secrets (redis password, sync secret) only ever come from the environment;
// a .env file is honoured when present.
func LoadConfig(filepath string) *Config {
	data, err := os.ReadFile(filepath)
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Error unmarshalling config YAML: %v", err)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment only")
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return &cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = n
		}
	}
	c.Server.SyncSecret = os.Getenv("SYNC_SECRET")
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks the fields every component relies on at startup.
func (c *Config) Validate() error {
	for name, site := range map[string]SiteConfig{
		"ozbargain":  c.Sites.OzBargain,
		"coles":      c.Sites.Coles,
		"coles_api":  c.Sites.ColesAPI,
		"woolworths": c.Sites.Woolworths,
	} {
		if site.BaseURL == "" {
			return fmt.Errorf("sites.%s.base_url cannot be empty", name)
		}
		if site.MaxPages <= 0 {
			return fmt.Errorf("sites.%s.max_pages must be positive", name)
		}
		if site.StorageKey == "" {
			return fmt.Errorf("sites.%s.storage_key cannot be empty", name)
		}
		if site.PageDelay < 0 {
			return fmt.Errorf("sites.%s.page_delay_seconds cannot be negative", name)
		}
	}
	if c.Schedule.Timezone == "" {
		return fmt.Errorf("schedule.timezone cannot be empty")
	}
	if c.Schedule.Hour < 0 || c.Schedule.Hour > 23 {
		return fmt.Errorf("schedule.hour out of range")
	}
	if c.Schedule.Minute < 0 || c.Schedule.Minute > 59 {
		return fmt.Errorf("schedule.minute out of range")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	return nil
}
