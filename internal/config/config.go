package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"CaseSignal/internal/calculator"
	"CaseSignal/internal/collector"
	"CaseSignal/internal/pipeline"
)

// DefaultDataURL is the JHU CSSE global confirmed-cases time series.
const DefaultDataURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data/csse_covid_19_time_series/time_series_covid19_confirmed_global.csv"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		URL            string `yaml:"url"`
		File           string `yaml:"file"`
		PrimaryColumn  string `yaml:"primary_column"`
		SubColumn      string `yaml:"sub_column"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Server struct {
		Addr          string `yaml:"addr"`
		DefaultRegion string `yaml:"default_region"`
	} `yaml:"server"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"cache"`
	Indicators struct {
		calculator.MACDParams `yaml:",inline"`

		RSILengths []int    `yaml:"rsi_lengths"`
		RSINeutral *float64 `yaml:"rsi_neutral"`
		SMAWindows []int    `yaml:"sma_windows"`
		EMASpans   []int    `yaml:"ema_spans"`
	} `yaml:"indicators"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_URL"); v != "" {
		cfg.DataSource.URL = v
	}
	if v := os.Getenv("DATA_FILE"); v != "" {
		cfg.DataSource.File = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("RSI_LENGTHS"); v != "" {
		lengths, err := parseIntList(v)
		if err != nil {
			return nil, fmt.Errorf("RSI_LENGTHS: %w", err)
		}
		cfg.Indicators.RSILengths = lengths
	}

	// Defaults
	if cfg.DataSource.URL == "" && cfg.DataSource.File == "" {
		cfg.DataSource.URL = DefaultDataURL
	}
	if cfg.DataSource.PrimaryColumn == "" {
		cfg.DataSource.PrimaryColumn = "Country/Region"
	}
	if cfg.DataSource.SubColumn == "" {
		cfg.DataSource.SubColumn = "Province/State"
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8050"
	}
	if cfg.Server.DefaultRegion == "" {
		cfg.Server.DefaultRegion = "Taiwan*"
	}
	def := pipeline.DefaultParams()
	if cfg.Indicators.Long == 0 {
		cfg.Indicators.Long = def.MACD.Long
	}
	if cfg.Indicators.Short == 0 {
		cfg.Indicators.Short = def.MACD.Short
	}
	if cfg.Indicators.Signal == 0 {
		cfg.Indicators.Signal = def.MACD.Signal
	}
	if len(cfg.Indicators.RSILengths) == 0 {
		cfg.Indicators.RSILengths = def.RSILengths
	}
	if cfg.Indicators.RSINeutral == nil {
		n := def.RSINeutral
		cfg.Indicators.RSINeutral = &n
	}
	if cfg.Indicators.SMAWindows == nil {
		cfg.Indicators.SMAWindows = def.SMAWindows
	}
	if cfg.Indicators.EMASpans == nil {
		cfg.Indicators.EMASpans = def.EMASpans
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DataSource.URL == "" && c.DataSource.File == "" {
		return fmt.Errorf("data_source.url or data_source.file is required")
	}
	if c.DataSource.TimeoutSeconds < 0 {
		return fmt.Errorf("data_source.timeout_seconds must not be negative")
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	if c.Indicators.Short >= c.Indicators.Long {
		return fmt.Errorf("indicators.macd_short must be less than indicators.macd_long")
	}
	if c.Schedule.RefreshCron != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Schedule.RefreshCron); err != nil {
			return fmt.Errorf("schedule.refresh_cron: %w", err)
		}
	}
	return nil
}

// Params returns the pipeline parameters described by the indicators section.
func (c *Config) Params() pipeline.Params {
	p := pipeline.Params{
		MACD:       c.Indicators.MACDParams,
		RSILengths: c.Indicators.RSILengths,
		RSINeutral: calculator.NeutralRSI,
		SMAWindows: c.Indicators.SMAWindows,
		EMASpans:   c.Indicators.EMASpans,
	}
	if c.Indicators.RSINeutral != nil {
		p.RSINeutral = *c.Indicators.RSINeutral
	}
	return p
}

// Timeout returns the HTTP fetch timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// Fetcher picks the dataset source: a local file wins over the URL.
func (c *Config) Fetcher() collector.Fetcher {
	if c.DataSource.File != "" {
		return collector.NewFileFetcher(c.DataSource.File)
	}
	return collector.NewHTTPFetcher(c.DataSource.URL, c.Proxy, c.Timeout())
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
