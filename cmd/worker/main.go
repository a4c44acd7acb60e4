package main

import (
    "context"
    "flag"
    "os"
    "os/signal"
    "syscall"

    "github.com/zubenkoruslan/hospitalitai-sub007/config"
    "github.com/zubenkoruslan/hospitalitai-sub007/internal/service"
    "github.com/zubenkoruslan/hospitalitai-sub007/internal/service/menu"
    "github.com/zubenkoruslan/hospitalitai-sub007/internal/utils/validator"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/queue"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/storage"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/worker"
)

func main() {
    configPath := flag.String("config", "", "Path to config file")
    flag.Parse()

    cfg, err := config.Load(*configPath)
    if err != nil {
        panic(err)
    }
    if err := cfg.ValidateStorage(); err != nil {
        panic(err)
    }

    log, err := logger.NewLogger(
        logger.FromConfig(cfg.Log),
        logger.WithInitialFields(map[string]interface{}{"component": "worker"}),
    )
    if err != nil {
        panic(err)
    }
    defer log.Sync()

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    menuService, factory, err := service.GetService(ctx, cfg, log)
    if err != nil {
        log.Error("Failed to create menu service", logger.Error(err))
        os.Exit(1)
    }
    defer factory.Close()

    store, err := storage.NewStorage(ctx, cfg.Storage, log)
    if err != nil {
        log.Error("Failed to create storage", logger.Error(err))
        os.Exit(1)
    }

    q := queue.NewAsynqQueue(cfg.Queue)
    defer q.Close()

    handler := menu.NewTaskHandler(menuService, store, q, log,
        menu.WithDeleteSource(cfg.Worker.DeleteSource),
        menu.WithValidator(validator.NewDocumentValidator(log, &cfg.Upload)),
    )

    menuWorker := worker.NewMenuWorker(worker.Config{
        RedisAddr:     cfg.Queue.RedisAddr,
        RedisPassword: cfg.Queue.RedisPassword,
        RedisDB:       cfg.Queue.RedisDB,
        Concurrency:   cfg.Queue.Concurrency,
        Queues:        cfg.Worker.Queues,
    }, handler, log)

    if err := menuWorker.Start(ctx); err != nil {
        log.Error("Failed to start worker", logger.Error(err))
        os.Exit(1)
    }
    log.Info("Worker started", logger.Int("concurrency", cfg.Queue.Concurrency))

    sigChan := make(chan os.Signal, 1)
    signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
    <-sigChan

    log.Info("Shutting down worker...")
    menuWorker.Stop()
    log.Info("Worker stopped")
}
