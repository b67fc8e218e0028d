// Package logger provides a prefixed stdlib logger for fatal paths
// where the structured application logger is not wired yet.
package logger

import (
	"fmt"
	"log"
	"os"
)

// New returns a stderr-backed logger with a component prefix.
func New(component string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", component)
	return log.New(os.Stderr, prefix, log.LstdFlags)
}
