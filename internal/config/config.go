package config

import (
	env_utils "logview/internal/util/env"
	"logview/internal/util/logger"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

type EnvVariables struct {
	IsTesting   bool
	DatabaseDsn string            `env:"DATABASE_DSN"       env-required:"true"`
	EnvMode     env_utils.EnvMode `env:"ENV_MODE"           env-required:"true"`
	// detected from the go.mod location, not read from the environment
	RootPath string
	// log files served by the viewer
	LogDir           string `env:"LOG_DIR"            env-required:"true"`
	LogRetentionDays int    `env:"LOG_RETENTION_DAYS" env-default:"30"`
	// cache
	ValkeyHost     string `env:"VALKEY_HOST"        env-required:"true"`
	ValkeyPort     string `env:"VALKEY_PORT"        env-required:"true"`
	ValkeyUsername string `env:"VALKEY_USERNAME"    `
	ValkeyPassword string `env:"VALKEY_PASSWORD"    `
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"      env-required:"true"`
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	rootPath := cwd
	for {
		if _, err := os.Stat(filepath.Join(rootPath, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(rootPath)
		if parent == rootPath {
			break
		}

		rootPath = parent
	}

	env.RootPath = rootPath

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(rootPath, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Info("Loaded .env", "path", path)
			loaded = true
			break
		}
	}

	if !loaded {
		log.Error("Error loading .env file: could not find .env in any location")
		os.Exit(1)
	}

	if err := cleanenv.ReadEnv(&env); err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if env.DatabaseDsn == "" {
		log.Error("DATABASE_DSN is empty")
		os.Exit(1)
	}

	if env.EnvMode != env_utils.EnvModeDevelopment && env.EnvMode != env_utils.EnvModeProduction {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}

	if env.LogDir == "" {
		log.Error("LOG_DIR is empty")
		os.Exit(1)
	}
	if info, err := os.Stat(env.LogDir); err != nil || !info.IsDir() {
		log.Error("LOG_DIR is not a readable directory", "dir", env.LogDir)
		os.Exit(1)
	}

	if env.ValkeyHost == "" {
		log.Error("VALKEY_HOST is empty")
		os.Exit(1)
	}
	if env.ValkeyPort == "" {
		log.Error("VALKEY_PORT is empty")
		os.Exit(1)
	}

	log.Info("Environment variables loaded successfully!")
}
