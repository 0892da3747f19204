package shell

import (
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sant0-9/deckfill/internal/config"
)

// NewLogger builds the process logger. The terminal belongs to the panel, so
// output goes to a rotated file next to the config.
func NewLogger(level string) (*logrus.Logger, io.Closer, error) {
	path, err := config.LogPath()
	if err != nil {
		return nil, nil, err
	}
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
	}
	log, err := newLogger(level, sink)
	if err != nil {
		sink.Close()
		return nil, nil, err
	}
	return log, sink, nil
}

func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	lvl := logrus.InfoLevel
	if level != "" {
		var err error
		if lvl, err = logrus.ParseLevel(level); err != nil {
			return nil, err
		}
	}
	log.SetLevel(lvl)
	return log, nil
}
