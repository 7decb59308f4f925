package config

import (
	"log"
	"os"
)

// InitLogging sends logs to stdout with microsecond timestamps
func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
