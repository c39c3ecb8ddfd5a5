package processor

import (
	"github.com/transflow/transflow/internal/config"
	"github.com/transflow/transflow/internal/logger"
	"github.com/transflow/transflow/internal/progress"
	"github.com/transflow/transflow/internal/reflow"
	"github.com/transflow/transflow/pkg/executor"
)

type implProcessor struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
	engine   *reflow.Engine
	reporter progress.Reporter
}

// New creates a new Processor instance.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger, engine *reflow.Engine, reporter progress.Reporter) Processor {
	return &implProcessor{
		cfg:      cfg,
		executor: exec,
		logger:   log,
		engine:   engine,
		reporter: reporter,
	}
}
