package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/ironsheep/manga-overlay-mcp/internal/config"
	"github.com/ironsheep/manga-overlay-mcp/internal/editor"
	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
	"github.com/ironsheep/manga-overlay-mcp/internal/render"
	"github.com/ironsheep/manga-overlay-mcp/internal/server"
	"github.com/ironsheep/manga-overlay-mcp/internal/settings"
	"github.com/ironsheep/manga-overlay-mcp/internal/translate"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("manga-overlay-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Tesseract:  %s\n", ocr.Version())
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	// stdout is for MCP protocol
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)
	log.Debug("Manga Overlay MCP Server", "version", Version, "built", BuildTime, "commit", GitCommit)

	if err := run(cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	path := cfg.SettingsPath
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to locate settings: %w", err)
		}
		path = p
	}
	store, err := settings.Open(path)
	if err != nil {
		log.Warn("settings unreadable, using defaults", "path", path, "error", err)
	}

	fonts := render.NewFontBook(log)
	if cfg.FontDir != "" {
		n, err := fonts.LoadDir(cfg.FontDir)
		if err != nil {
			log.Warn("failed to load fonts", "dir", cfg.FontDir, "error", err)
		} else {
			log.Info("fonts loaded", "dir", cfg.FontDir, "count", n)
		}
	}

	engines := ocr.NewFactory(ocr.EngineConfig{TessdataPrefix: cfg.TessdataPrefix, Scale: cfg.OCRScale})
	client := &http.Client{Timeout: cfg.HTTPTimeout}

	ed := editor.New(editor.Options{
		Compositor: render.NewCompositor(fonts),
		OCR:        ocr.NewSlot(engines, cfg.OCRLanguage, log),
		Settings:   store,
		Catalog:    translate.NewCatalog(client, log),
		HTTPClient: client,
		Target:     cfg.Target,
		Log:        log,
	})

	srv := server.New(ed, server.Options{
		Version:     Version,
		Log:         log,
		WaitTimeout: 2 * cfg.HTTPTimeout,
	})
	defer srv.Close()

	log.Info("serving on stdio", "settings", path, "ocr_language", cfg.OCRLanguage, "target", cfg.Target.Code)
	return srv.Run()
}

func printHelp() {
	fmt.Println("manga-overlay-mcp - MCP server for translating manga pages")
	fmt.Println()
	fmt.Println("Usage: manga-overlay-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug        Log level (debug, info, warn, error)\n", config.EnvLogLevel)
	fmt.Printf("  %s=<dir>         Tesseract tessdata directory\n", config.EnvTessdata)
	fmt.Printf("  %s=<dir>         Extra .ttf fonts (needed for Thai glyphs)\n", config.EnvFontDir)
	fmt.Printf("  %s=<file>        Settings file (default under the XDG config dir)\n", config.EnvSettings)
	fmt.Printf("  %s=jpn           OCR language: jpn, eng, chi_sim, chi_tra, kor\n", config.EnvOCRLang)
	fmt.Printf("  %s=th         Translation target language code\n", config.EnvTargetLang)
	fmt.Printf("  %s=Thai       Target language name used in prompts\n", config.EnvTargetName)
	fmt.Printf("  %s=60s       Timeout for translation requests\n", config.EnvHTTPTimeout)
	fmt.Printf("  %s=2            Upscale factor applied before OCR (1-4)\n", config.EnvOCRScale)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
