package utils

import (
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

// NewLogger returns a console logger; verbose enables V(1) messages.
func NewLogger(w io.Writer, verbose bool) logr.Logger {
	if w == nil {
		w = os.Stderr
	}
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if verbose {
		zerologr.SetMaxV(1)
	} else {
		zerologr.SetMaxV(0)
	}
	return zerologr.New(&zlog)
}
