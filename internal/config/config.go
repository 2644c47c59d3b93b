package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	BomPath   string
	DBPath    string
	OutputDir string

	CSVDelimiter rune

	ShowCosts         bool
	ApplyWasteToCosts bool
	ConvertActuals    bool

	DefaultWaste string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BomPath:   getEnv("BOM_PATH", filepath.Join(cwd, "data", "bom_recetas.xlsx")),
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		CSVDelimiter: getEnvDelimiter("CSV_DELIMITER", ','),

		ShowCosts:         getEnvBool("SHOW_COSTS", true),
		ApplyWasteToCosts: getEnvBool("APPLY_WASTE_TO_COSTS", true),
		ConvertActuals:    getEnvBool("ACTUALS_IN_RAW_UNITS", false),

		DefaultWaste: getEnv("DEFAULT_WASTE", "0.00"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvDelimiter(key string, fallback rune) rune {
	value := getEnv(key, "")
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "":
		return fallback
	case ";", "semicolon":
		return ';'
	case ",", "comma":
		return ','
	case "\t", "tab":
		return '\t'
	default:
		return fallback
	}
}
