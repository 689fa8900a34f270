package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Storage Storage `json:"storage" yaml:"storage" mapstructure:"storage"`
	Server  Server  `json:"server" yaml:"server" mapstructure:"server"`
	Poster  Poster  `json:"poster" yaml:"poster" mapstructure:"poster"`
}

// Storage locates the catalog backing file
type Storage struct {
	Dir  string `json:"dir" yaml:"dir" mapstructure:"dir"`
	File string `json:"file" yaml:"file" mapstructure:"file"`
}

// Path is the full path of the backing file
func (s Storage) Path() string {
	return filepath.Join(s.Dir, s.File)
}

type Server struct {
	Port int `json:"port" yaml:"port" mapstructure:"port"`
}

// Poster configures image resolution for presentation
type Poster struct {
	Timeout     time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	MaxRetries  int           `json:"maxRetries" yaml:"maxRetries" mapstructure:"maxRetries"`
	BaseBackoff time.Duration `json:"backoff" yaml:"backoff" mapstructure:"backoff"`
	CacheTTL    time.Duration `json:"cacheTTL" yaml:"cacheTTL" mapstructure:"cacheTTL"`
}

type ConfigUnmarshaler interface {
	ReadInConfig() error
	Unmarshal(any, ...viper.DecoderConfigOption) error
	ConfigFileUsed() string
}

// New reads a new configuration
func New(cu ConfigUnmarshaler) (Config, error) {
	var c Config

	if cu.ConfigFileUsed() != "" {
		err := cu.ReadInConfig()
		if err != nil {
			return c, err
		}
	}

	err := cu.Unmarshal(&c)
	return c, err
}
