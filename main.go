package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/scipunch/currentcapital/aggregator"
	"github.com/scipunch/currentcapital/config"
	"github.com/scipunch/currentcapital/fetcher"
	"github.com/scipunch/currentcapital/fetcher/types"
	"github.com/scipunch/currentcapital/render"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var cfgPath, outPath, pdfPath string
	flag.StringVar(&cfgPath, "config", config.DefaultPath(), "path to a TOML config")
	flag.StringVar(&outPath, "out", "", "where to write the page (overrides output_path)")
	flag.StringVar(&pdfPath, "pdf", "", "also print the page into this PDF file")
	flag.Parse()

	// Read config and create if default is missing
	conf, err := config.Read(cfgPath)
	if errors.Is(err, os.ErrNotExist) && cfgPath == config.DefaultPath() {
		if err := config.Write(cfgPath, conf); err != nil {
			slog.Warn("failed to write default config", "path", cfgPath, "error", err)
		}
	} else if err != nil {
		log.Fatalf("failed to read config with %s", err)
	}
	if outPath != "" {
		conf.OutputPath = outPath
	}
	if err := conf.Validate(); err != nil {
		log.Fatalf("invalid config at '%s': %s", cfgPath, err)
	}

	renderer, err := render.New(conf.Site)
	if err != nil {
		log.Fatalf("failed to initialize renderer with %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agg := aggregator.New(
		fetcher.NewHTTPFetcher(conf.UserAgent, conf.Timeout.Duration),
		aggregator.WithMaxWords(conf.MaxWords),
		aggregator.WithConcurrency(conf.Concurrency),
	)
	articles := agg.BuildArticles(ctx, conf.Feeds)

	htmlPath, err := filepath.Abs(conf.OutputPath)
	if err != nil {
		log.Fatalf("could not resolve output path '%s' with %s", conf.OutputPath, err)
	}
	if err := writePage(renderer, htmlPath, articles); err != nil {
		log.Fatal(err)
	}
	slog.Debug("HTML file generated", "path", htmlPath, "articles", len(articles))

	if pdfPath != "" {
		if err := generatePDF(ctx, htmlPath, pdfPath); err != nil {
			slog.Error("failed to generate PDF", "error", err)
		} else {
			slog.Info("PDF file generated", "path", pdfPath)
		}
	}

	fmt.Printf("Generated %s\n", htmlPath)
}

func writePage(r *render.Renderer, htmlPath string, articles []types.Article) error {
	if err := os.MkdirAll(filepath.Dir(htmlPath), os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory with %w", err)
	}
	out, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("could not create HTML file with %w", err)
	}
	defer out.Close()

	if err := r.Render(out, articles, time.Now()); err != nil {
		return err
	}
	return out.Close()
}

func generatePDF(ctx context.Context, htmlPath, pdfPath string) error {
	// Install playwright if needed
	err := playwright.Install()
	if err != nil {
		return fmt.Errorf("could not install playwright: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch()
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	defer browser.Close()

	if err := ctx.Err(); err != nil {
		return err
	}

	page, err := browser.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	defer page.Close()

	if _, err = page.Goto("file://" + htmlPath); err != nil {
		return fmt.Errorf("could not navigate to HTML file: %w", err)
	}

	// B5 paper size: 176mm x 250mm
	_, err = page.PDF(playwright.PagePdfOptions{
		Path:            playwright.String(pdfPath),
		Width:           playwright.String("176mm"),
		Height:          playwright.String("250mm"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("15mm"),
			Right:  playwright.String("15mm"),
			Bottom: playwright.String("15mm"),
			Left:   playwright.String("15mm"),
		},
	})
	if err != nil {
		return fmt.Errorf("could not generate PDF: %w", err)
	}

	return nil
}
