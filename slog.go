package filefairy

import (
	"fmt"
	"log"
)

// SLogger is the filefairy internal logging interface. The standard library logger implements this interface
type SLogger interface {
	Printf(format string, v ...interface{})

	Debugf(format string, v ...interface{})
}

type sLogger struct {
	logger *log.Logger
	debug  bool
	tag    string
}

// NewSLogger creates a new filefairy logger provided with an interface logger and a debug flag
func NewSLogger(log *log.Logger, debug bool) (l *sLogger) {
	sl := new(sLogger)
	sl.debug = debug
	sl.logger = log
	return sl
}

// Tagged returns a logger writing to the same destination with every line prefixed by [tag]
func (sl *sLogger) Tagged(tag string) (l *sLogger) {
	return &sLogger{logger: sl.logger, debug: sl.debug, tag: "[" + tag + "] "}
}

// Debugf logs a debug line after checking if the configuration is in debug mode
func (sl *sLogger) Debugf(format string, v ...interface{}) {
	if sl.debug {
		sl.logger.Output(2, sl.tag+fmt.Sprintf(format, v...))
	}
}

// Printf logs a line by delegating the call to Output
func (sl *sLogger) Printf(format string, v ...interface{}) {
	sl.logger.Output(2, sl.tag+fmt.Sprintf(format, v...))
}
