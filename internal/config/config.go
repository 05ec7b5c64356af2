package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gkobilansky/conversion-goat/internal/dataset"
	"github.com/gkobilansky/conversion-goat/internal/stats"
)

// Config is the optional YAML file plus CVG_* environment overrides.
type Config struct {
	Database string        `yaml:"database" validate:"required"`
	Columns  ColumnsConfig `yaml:"columns"`
	Test     TestConfig    `yaml:"test"`
	Log      LogConfig     `yaml:"log"`
	Server   ServerConfig  `yaml:"server"`
}

type ColumnsConfig struct {
	UserID    string `yaml:"user_id" validate:"required"`
	Group     string `yaml:"group" validate:"required"`
	Page      string `yaml:"landing_page" validate:"required"`
	Converted string `yaml:"converted" validate:"required"`
}

type TestConfig struct {
	PracticalSignificance float64 `yaml:"practical_significance" validate:"ne=0,gt=-1,lt=1"`
	ConfidenceLevel       float64 `yaml:"confidence_level" validate:"gt=0,lt=1"`
	Sensitivity           float64 `yaml:"sensitivity" validate:"gt=0,lt=1,gtfield=ConfidenceLevel"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
}

var validate = validator.New()

func Default() Config {
	cols := dataset.DefaultColumns()
	params := stats.DefaultParams()

	return Config{
		Database: "./cvg.db",
		Columns: ColumnsConfig{
			UserID:    cols.UserID,
			Group:     cols.Group,
			Page:      cols.Page,
			Converted: cols.Converted,
		},
		Test: TestConfig{
			PracticalSignificance: params.PracticalSignificance,
			ConfidenceLevel:       params.ConfidenceLevel,
			Sensitivity:           params.Sensitivity,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if any)
// and then with the environment. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CVG_DB_PATH, CVG_PORT, CVG_LOG_LEVEL and CVG_LOG_FORMAT.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("CVG_DB_PATH"); ok && v != "" {
		c.Database = v
	}
	if v, ok := lookup("CVG_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CVG_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("CVG_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("CVG_LOG_FORMAT"); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}

func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func (c Config) Params() stats.Params {
	return stats.Params{
		PracticalSignificance: c.Test.PracticalSignificance,
		ConfidenceLevel:       c.Test.ConfidenceLevel,
		Sensitivity:           c.Test.Sensitivity,
	}
}

func (c Config) DatasetColumns() dataset.Columns {
	return dataset.Columns{
		UserID:    c.Columns.UserID,
		Group:     c.Columns.Group,
		Page:      c.Columns.Page,
		Converted: c.Columns.Converted,
	}
}
