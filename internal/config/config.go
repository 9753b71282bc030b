package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendMemory = "memory"

	DefaultKey      = "nestedTodoData"
	DefaultFileName = "todonest.toml"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Storage struct {
	Backend       string `toml:"backend"`
	Key           string `toml:"key"`
	SQLitePath    string `toml:"sqlite_path"`
	FilePath      string `toml:"file_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type Config struct {
	Storage Storage `toml:"storage"`
	Logging Logging `toml:"logging"`
}

func Default() Config {
	return Config{
		Storage: Storage{
			Backend:    BackendSQLite,
			Key:        DefaultKey,
			SQLitePath: "todonest.db",
			FilePath:   "todonest.json",
			RedisAddr:  "127.0.0.1:6379",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
			File:   "todonest.log",
		},
	}
}

// Load applies defaults, the TOML file at path (if present) and TODONEST_*
// environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := LoadFile(&cfg, path); err != nil {
		return Config{}, err
	}
	cfg = FromEnv(cfg)
	return cfg, nil
}

func LoadFile(cfg *Config, path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	if _, err := os.Stat(trimmed); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat config %s: %w", trimmed, err)
	}
	if _, err := toml.DecodeFile(trimmed, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", trimmed, err)
	}
	return nil
}

func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("TODONEST_BACKEND"); ok {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODONEST_KEY"); ok {
		cfg.Storage.Key = v
	}
	if v, ok := getEnvString("TODONEST_SQLITE_PATH"); ok {
		cfg.Storage.SQLitePath = v
	}
	if v, ok := getEnvString("TODONEST_FILE_PATH"); ok {
		cfg.Storage.FilePath = v
	}
	if v, ok := getEnvString("TODONEST_REDIS_ADDR"); ok {
		cfg.Storage.RedisAddr = v
	}
	if v, ok := getEnvString("TODONEST_REDIS_PASSWORD"); ok {
		cfg.Storage.RedisPassword = v
	}
	if v, ok := getEnvInt("TODONEST_REDIS_DB"); ok && v >= 0 {
		cfg.Storage.RedisDB = v
	}
	if v, ok := getEnvString("TODONEST_REDIS_PREFIX"); ok {
		cfg.Storage.RedisPrefix = v
	}
	if v, ok := getEnvString("TODONEST_LOG_LEVEL"); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODONEST_LOG_FORMAT"); ok {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODONEST_LOG_FILE"); ok {
		cfg.Logging.File = v
	}
	return cfg
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("%w: storage.key is required", ErrInvalidConfig)
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return fmt.Errorf("%w: storage.sqlite_path is required for sqlite backend", ErrInvalidConfig)
		}
	case BackendFile:
		if strings.TrimSpace(c.Storage.FilePath) == "" {
			return fmt.Errorf("%w: storage.file_path is required for file backend", ErrInvalidConfig)
		}
	case BackendRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return fmt.Errorf("%w: storage.redis_addr is required for redis backend", ErrInvalidConfig)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
