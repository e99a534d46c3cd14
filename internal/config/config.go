package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
)

type Config struct {
	Port           string `json:"port"`
	DatabaseURL    string `json:"database_url,omitempty"`
	MaxUploadBytes int64  `json:"max_upload_bytes"`
}

const (
	defaultPort      = "8080"
	defaultMaxUpload = 32 << 20
	defaultFile      = "config.json"
)

func (c *Config) SetDefaults() {
	c.Port = defaultPort
	c.DatabaseURL = ""
	c.MaxUploadBytes = defaultMaxUpload
}

// Load는 기본값 → JSON 파일(HUFF_CONFIG, 없으면 config.json) → 환경 변수 순으로 덮어쓴다.
// 파일이 없으면 기본값을 그대로 쓴다.
func Load() (*Config, error) {
	path := os.Getenv("HUFF_CONFIG")
	if path == "" {
		path = defaultFile
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	c := &Config{}
	c.SetDefaults()

	if err := c.loadJSON(path); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.loadEnv(); err != nil {
		return nil, err
	}
	if c.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return c, nil
}

func (c *Config) loadJSON(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(c)
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("HUFF_PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("HUFF_DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("HUFF_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HUFF_MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	return nil
}
