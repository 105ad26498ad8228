// Package config reads runtime configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
	"github.com/ironsheep/manga-overlay-mcp/internal/translate"
)

// Environment variable names.
const (
	EnvLogLevel    = "MANGA_OVERLAY_LOG_LEVEL"
	EnvTessdata    = "MANGA_OVERLAY_TESSDATA"
	EnvFontDir     = "MANGA_OVERLAY_FONT_DIR"
	EnvSettings    = "MANGA_OVERLAY_SETTINGS"
	EnvOCRLang     = "MANGA_OVERLAY_OCR_LANG"
	EnvTargetLang  = "MANGA_OVERLAY_TARGET_LANG"
	EnvTargetName  = "MANGA_OVERLAY_TARGET_NAME"
	EnvHTTPTimeout = "MANGA_OVERLAY_HTTP_TIMEOUT"
	EnvOCRScale    = "MANGA_OVERLAY_OCR_SCALE"
)

// Config holds runtime configuration.
type Config struct {
	LogLevel slog.Level

	// TessdataPrefix overrides Tesseract's tessdata directory.
	TessdataPrefix string

	// FontDir holds extra .ttf files. The bundled Go fonts have no Thai
	// glyphs, so Thai output needs a font from here.
	FontDir string

	// SettingsPath overrides the XDG location of settings.json.
	SettingsPath string

	OCRLanguage ocr.Language
	Target      translate.Target
	HTTPTimeout time.Duration

	// OCRScale upscales crops before recognition.
	OCRScale float64
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		LogLevel:    slog.LevelInfo,
		OCRLanguage: ocr.DefaultLanguage,
		Target:      translate.DefaultTarget,
		HTTPTimeout: translate.DefaultTimeout,
		OCRScale:    2,
	}
}

// Validate clamps values to safe ranges.
func (c *Config) Validate() error {
	if c.OCRLanguage == "" {
		c.OCRLanguage = ocr.DefaultLanguage
	}
	if c.Target.Code == "" {
		c.Target = translate.DefaultTarget
	}
	if c.Target.Name == "" {
		c.Target.Name = c.Target.Code
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = translate.DefaultTimeout
	}
	if c.OCRScale < 1 {
		c.OCRScale = 1
	}
	if c.OCRScale > 4 {
		c.OCRScale = 4
	}
	return nil
}

// FromEnv builds a Config from the process environment.
func FromEnv() (*Config, error) {
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	c := Default()

	if v := getenv(EnvLogLevel); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	c.TessdataPrefix = getenv(EnvTessdata)
	c.FontDir = getenv(EnvFontDir)
	c.SettingsPath = getenv(EnvSettings)

	if v := getenv(EnvOCRLang); v != "" {
		lang, err := ocr.ParseLanguage(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvOCRLang, err)
		}
		c.OCRLanguage = lang
	}

	if v := strings.TrimSpace(getenv(EnvTargetLang)); v != "" {
		c.Target = translate.Target{Code: v, Name: getenv(EnvTargetName)}
	} else if v := getenv(EnvTargetName); v != "" {
		c.Target.Name = v
	}

	if v := getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		c.HTTPTimeout = d
	}

	if v := getenv(EnvOCRScale); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvOCRScale, err)
		}
		c.OCRScale = f
	}

	_ = c.Validate()
	return c, nil
}
