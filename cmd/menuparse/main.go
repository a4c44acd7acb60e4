package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/zubenkoruslan/hospitalitai-sub007/config"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/service"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/service/menu"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/utils/validator"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/converters"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/queue"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/storage"
)

type flags struct {
	configPath string
	file       string
	out        string
	enqueue    bool
	priority   int
	status     string
	cancel     string
	quiet      bool
}

func main() {
	f := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config file")
	flag.StringVar(&f.file, "file", "", "Menu document to parse")
	flag.StringVar(&f.out, "out", "", "Write the result to this file instead of stdout")
	flag.BoolVar(&f.enqueue, "enqueue", false, "Upload the file and queue it for a worker instead of parsing locally")
	flag.IntVar(&f.priority, "priority", 2, "Queue priority for -enqueue (1 critical, 2 default, 3 low)")
	flag.StringVar(&f.status, "status", "", "Print the status of a queued task")
	flag.StringVar(&f.cancel, "cancel", "", "Cancel a queued or running task")
	flag.BoolVar(&f.quiet, "quiet", false, "Disable the progress bar")
	flag.Parse()
	return f
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(ctx context.Context, f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// stdout carries the result.
	paths := make([]string, 0, len(cfg.Log.OutputPaths))
	for _, p := range cfg.Log.OutputPaths {
		if p == "stdout" {
			p = "stderr"
		}
		paths = append(paths, p)
	}
	log, err := logger.NewLogger(logger.FromConfig(cfg.Log), logger.WithOutputPaths(paths))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	switch {
	case f.status != "":
		return printStatus(ctx, cfg, f.status)
	case f.cancel != "":
		return cancelTask(ctx, cfg, f.cancel)
	case f.file == "":
		flag.Usage()
		return errors.New("one of -file, -status or -cancel is required")
	case f.enqueue:
		return enqueue(ctx, cfg, log, f)
	default:
		return parseLocal(ctx, cfg, log, f)
	}
}

func readDocument(path string, limit int64) (models.RawDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.RawDocument{}, err
	}
	defer file.Close()

	// One byte past the limit is enough for the validator to reject it.
	content, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return models.RawDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return models.RawDocument{Filename: filepath.Base(path), Content: content}, nil
}

func parseLocal(ctx context.Context, cfg *config.Config, log logger.Logger, f flags) error {
	check := validator.NewDocumentValidator(log, &cfg.Upload)
	doc, err := readDocument(f.file, check.MaxFileSize())
	if err != nil {
		return err
	}
	info, err := check.Check(doc)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if f.quiet {
			return
		}
		if bar == nil {
			bar = getProgressBar(total, fmt.Sprintf("Extracting %s", doc.Filename))
		}
		bar.ChangeMax(total)
		bar.Set(done)
	}

	svc, factory, err := service.GetService(ctx, cfg, log, service.WithMenuOptions(menu.WithProgress(progress)))
	if err != nil {
		return err
	}
	defer factory.Close()

	start := time.Now()
	data, parseErr := svc.ParseMenu(ctx, doc)
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if errors.Is(parseErr, context.Canceled) {
		return parseErr
	}

	conv := converters.NewJSONConverter()
	res := conv.Convert(data, parseErr)
	res.Metadata = &converters.DocumentMetadata{
		FileName:     info.Filename,
		FileType:     info.Extension,
		FileSize:     info.Size,
		ProcessingMs: time.Since(start).Milliseconds(),
	}
	out, err := conv.Marshal(res)
	if err != nil {
		return err
	}
	if err := writeOutput(f.out, out); err != nil {
		return err
	}

	if !res.Success {
		return fmt.Errorf("no menu extracted from %s", doc.Filename)
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "Parsed %d items from %s", data.TotalItems, doc.Filename)
	if n := len(data.ProcessingNotes); n > 0 {
		color.New(color.FgYellow).Fprintf(os.Stderr, " (%d notes)", n)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

func writeOutput(path string, data []byte) error {
	var indented bytes.Buffer
	if err := json.Indent(&indented, data, "", "  "); err != nil {
		return err
	}
	indented.WriteByte('\n')
	if path == "" {
		_, err := os.Stdout.Write(indented.Bytes())
		return err
	}
	return os.WriteFile(path, indented.Bytes(), 0o644)
}

func enqueue(ctx context.Context, cfg *config.Config, log logger.Logger, f flags) error {
	if err := cfg.ValidateStorage(); err != nil {
		return err
	}
	check := validator.NewDocumentValidator(log, &cfg.Upload)
	doc, err := readDocument(f.file, check.MaxFileSize())
	if err != nil {
		return err
	}
	if _, err := check.Check(doc); err != nil {
		return err
	}

	store, err := storage.NewStorage(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	q := queue.NewAsynqQueue(cfg.Queue)
	defer q.Close()

	task := queue.NewTask("", doc.Filename, int64(len(doc.Content)))
	task.ObjectKey = fmt.Sprintf("uploads/%s/%s", task.ID, doc.Filename)
	task.Priority = f.priority
	if _, err := store.Store(ctx, bytes.NewReader(doc.Content), task.ObjectKey); err != nil {
		return err
	}
	if err := q.Enqueue(ctx, task); err != nil {
		// The upload is useless without its task.
		if delErr := store.Delete(context.WithoutCancel(ctx), task.ObjectKey); delErr != nil {
			log.Warn("failed to remove orphaned upload", logger.String("key", task.ObjectKey), logger.Error(delErr))
		}
		return err
	}

	color.New(color.FgGreen).Fprintf(os.Stderr, "Queued %s on %s\n", doc.Filename, task.QueueName())
	fmt.Println(task.ID)
	return nil
}

func printStatus(ctx context.Context, cfg *config.Config, taskID string) error {
	q := queue.NewAsynqQueue(cfg.Queue)
	defer q.Close()

	status, err := q.GetTaskStatus(ctx, taskID)
	if err != nil {
		return err
	}
	out, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return writeOutput("", out)
}

func cancelTask(ctx context.Context, cfg *config.Config, taskID string) error {
	q := queue.NewAsynqQueue(cfg.Queue)
	defer q.Close()

	if err := q.CancelTask(ctx, taskID); err != nil {
		return err
	}
	color.New(color.FgYellow).Fprintf(os.Stderr, "Cancelled %s\n", taskID)
	return nil
}
