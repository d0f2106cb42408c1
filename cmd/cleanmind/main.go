// Command cleanmind runs the upload, profile, score and clean workflow for a
// single file from the terminal and optionally saves the cleaned CSV.
//
// Usage:
//
//	cleanmind [-backend URL] [-out DIR] FILE
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/JonMunkholm/cleanmind/internal/config"
	"github.com/JonMunkholm/cleanmind/internal/logging"
	"github.com/JonMunkholm/cleanmind/internal/notify"
	"github.com/JonMunkholm/cleanmind/internal/transport"
	"github.com/JonMunkholm/cleanmind/internal/view"
	"github.com/JonMunkholm/cleanmind/internal/workflow"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// printNotifier shows notifications as colored terminal lines.
type printNotifier struct{}

func (printNotifier) Notify(message string, severity notify.Severity) {
	if severity == notify.Error {
		color.Red("✗ %s", message)
		return
	}
	color.Cyan("• %s", message)
}

func main() {
	backendURL := flag.String("backend", "", "cleaning backend base URL (overrides BACKEND_URL)")
	outDir := flag.String("out", "", "directory to save the cleaned CSV into; empty skips the download")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-backend URL] [-out DIR] FILE\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *backendURL, *outDir); err != nil {
		os.Exit(1)
	}
}

func run(path, backendURL, outDir string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig(backendURL)
	if err != nil {
		color.Red("configuration: %v", err)
		return err
	}

	logFile := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	datasets := transport.NewDatasets(transport.NewClient(cfg.Backend.URL, cfg.Backend.Timeout))
	board := view.NewBoard()
	orch := workflow.New(workflow.Config{
		Backend:  datasets,
		Notifier: printNotifier{},
		Renderer: board,
		Options:  cfg.Cleaning.Options(),
	})

	file, err := os.Open(path)
	if err != nil {
		color.Red("open %s: %v", path, err)
		return err
	}
	defer file.Close()

	runErr := orch.Run(ctx, filepath.Base(path), file)
	printDashboard(os.Stdout, board.Snapshot())
	if runErr != nil {
		slog.Debug("run failed", "phase", orch.Phase(), "error", runErr)
		return runErr
	}

	if outDir == "" {
		return nil
	}

	saver := workflow.OpenerFunc(func(ctx context.Context, datasetID, _ string) error {
		return saveDownload(ctx, datasets, datasetID, filepath.Join(outDir, datasetID+".csv"))
	})
	return orch.RequestDownload(ctx, saver)
}

// loadConfig loads the environment configuration and applies the -backend
// override, validating the result again when it changed.
func loadConfig(backendURL string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if backendURL == "" {
		return cfg, nil
	}

	cfg.Backend.URL = backendURL
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// saveDownload writes the cleaned dataset to dest.
func saveDownload(ctx context.Context, datasets *transport.Datasets, datasetID, dest string) error {
	resp, err := datasets.Download(ctx, datasetID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	color.Green("Saved %s (%d bytes)", dest, n)
	return nil
}

func printDashboard(w io.Writer, d view.Dashboard) {
	if p := d.Profile; p != nil {
		color.New(color.Bold).Fprintln(w, "\nDataset profile")
		fmt.Fprintf(w, "  dataset %s: %d rows x %d cols\n", p.DatasetID, p.Rows, p.Cols)
		if p.NoColumns {
			fmt.Fprintln(w, "  no column information")
		}
		for _, c := range p.Columns {
			fmt.Fprintf(w, "  - %s (%s)\n", c.Name, c.DType)
		}
	}

	if q := d.Quality; q != nil {
		color.New(color.Bold).Fprintln(w, "\nQuality score")
		fmt.Fprintf(w, "  %s %s  %s\n", q.Score, q.Scale, toneColor(q.Tone).Sprint(q.Grade))
		fmt.Fprintf(w, "  missing values:   %s\n", q.Missing)
		fmt.Fprintf(w, "  duplicate rows:   %s\n", q.Duplicate)
		fmt.Fprintf(w, "  constant columns: %s\n", q.Constant)
	}

	if c := d.Cleaning; c != nil {
		color.New(color.Bold).Fprintln(w, "\nCleaning summary")
		fmt.Fprintf(w, "  cleaned dataset: %s (from %s)\n", c.CleanedDatasetID, c.SourceDatasetID)
		fmt.Fprintf(w, "  rows:            %d → %d\n", c.RowsBefore, c.RowsAfter)
		fmt.Fprintf(w, "  missing values:  %d → %d\n", c.MissingBefore, c.MissingAfter)
		fmt.Fprintf(w, "  duplicates removed: %d, outliers removed: %d\n", c.DuplicatesRemove, c.OutliersRemoved)

		if len(c.PreviewRows) > 0 {
			fmt.Fprintln(w)
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "  "+strings.Join(c.PreviewHeader, "\t"))
			for _, row := range c.PreviewRows {
				fmt.Fprintln(tw, "  "+strings.Join(row, "\t"))
			}
			tw.Flush()
		}
	}
}

func toneColor(t view.Tone) *color.Color {
	switch t {
	case view.ToneExcellent:
		return color.New(color.FgGreen, color.Bold)
	case view.ToneGood:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
