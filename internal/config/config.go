package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// DataPath is the absolute path of the wide-format AQI CSV.
	// Set via DATA_PATH (relative paths are resolved against the process working directory at startup).
	DataPath string
	// DataWatch reloads the dataset when the file changes on disk.
	DataWatch bool

	ChartWidth  int
	ChartHeight int
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	dataPath := strings.TrimSpace(os.Getenv("DATA_PATH"))
	if dataPath == "" {
		dataPath = "CityVals.csv"
	}
	dataPath, err = filepath.Abs(dataPath)
	if err != nil {
		return Config{}, fmt.Errorf("DATA_PATH %q: %w", dataPath, err)
	}

	dataWatchStr := strings.TrimSpace(os.Getenv("DATA_WATCH"))
	if dataWatchStr == "" {
		dataWatchStr = "true"
	}
	dataWatch, err := strconv.ParseBool(dataWatchStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DATA_WATCH %q (expected boolean)", dataWatchStr)
	}

	chartWidth, err := parsePositiveInt("CHART_WIDTH", 1000)
	if err != nil {
		return Config{}, err
	}
	chartHeight, err := parsePositiveInt("CHART_HEIGHT", 600)
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:      appEnv,
		LogLevel:    level,
		HTTPAddr:    httpAddr,
		DataPath:    dataPath,
		DataWatch:   dataWatch,
		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,
	}, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s %q (must be > 0)", key, s)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
