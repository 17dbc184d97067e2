package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging routes the standard logger to stdout and, when path is set, to a rotating
// file as well. The returned closer must be called on shutdown.
func SetupLogging(path string) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.LUTC)
	if path == "" {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	log.Printf("Logging to stdout and %s", path)
	return rotator
}
