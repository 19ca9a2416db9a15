// Package logging configures the shared diagnostic logger.
//
// Command results go to stdout; everything here is progress and debug detail
// on stderr so output stays scriptable.
package logging

import (
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *log.Logger
)

// L returns the process-wide logger, creating it on first use.
func L() *log.Logger {
	once.Do(func() {
		logger = log.New()
		logger.SetFormatter(&log.TextFormatter{
			DisableTimestamp: true,
			QuoteEmptyFields: true,
		})
		logger.SetLevel(log.InfoLevel)
		logger.Out = os.Stderr
	})
	return logger
}

// SetVerbose switches the logger to debug level, where adapters trace each
// provider call.
func SetVerbose(verbose bool) {
	if verbose {
		L().SetLevel(log.DebugLevel)
	}
}
