package worker

import (
    "fmt"

    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// zapAdapter routes asynq's own logging through the service logger.
type zapAdapter struct {
    log logger.Logger
}

func (a zapAdapter) Debug(args ...interface{}) { a.log.Debug(fmt.Sprint(args...)) }
func (a zapAdapter) Info(args ...interface{})  { a.log.Info(fmt.Sprint(args...)) }
func (a zapAdapter) Warn(args ...interface{})  { a.log.Warn(fmt.Sprint(args...)) }
func (a zapAdapter) Error(args ...interface{}) { a.log.Error(fmt.Sprint(args...)) }
func (a zapAdapter) Fatal(args ...interface{}) { a.log.Fatal(fmt.Sprint(args...)) }
