package deploy

import (
	"fmt"
	"log"

	"github.com/envdeploy/envdeploy/internal/ui"
)

// Observer receives status lines from the pipeline. Stages use it instead
// of writing to the terminal directly so tests can capture output.
type Observer interface {
	// Printf emits a plain status line.
	Printf(format string, v ...interface{})

	// Successf emits a success status line.
	Successf(format string, v ...interface{})

	// Warnf emits a warning status line. Warnings never abort the pipeline.
	Warnf(format string, v ...interface{})

	// Failf emits a failure status line.
	Failf(format string, v ...interface{})
}

// ConsoleObserver writes styled status lines via the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Successf implements Observer.
func (o *ConsoleObserver) Successf(format string, v ...interface{}) {
	log.Print(ui.Success(fmt.Sprintf(format, v...)))
}

// Warnf implements Observer.
func (o *ConsoleObserver) Warnf(format string, v ...interface{}) {
	log.Print(ui.Warn(fmt.Sprintf(format, v...)))
}

// Failf implements Observer.
func (o *ConsoleObserver) Failf(format string, v ...interface{}) {
	log.Print(ui.Fail(fmt.Sprintf(format, v...)))
}
