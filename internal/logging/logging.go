// Package logging создает slog.Logger для бинарников MissionFlow.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	charmLog "github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/iudanet/missionflow/internal/config"
)

// Options параметры логгера
type Options struct {
	Writer io.Writer // Writer по умолчанию os.Stderr
	Level  string
	Prefix string
	// Terminal переопределяет определение терминала (для тестов)
	Terminal *bool
}

// New возвращает логгер: цветной вывод charm для терминала,
// JSON для всего остального.
func New(opts Options) (*slog.Logger, error) {
	level, err := config.ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	tty := isTerminal(w)
	if opts.Terminal != nil {
		tty = *opts.Terminal
	}

	if !tty {
		handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
		logger := slog.New(handler)
		if opts.Prefix != "" {
			logger = logger.With("app", opts.Prefix)
		}
		return logger, nil
	}

	handler := charmLog.NewWithOptions(w, charmLog.Options{
		Level:           charmLog.Level(level),
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Formatter:       charmLog.TextFormatter,
	})
	return slog.New(handler), nil
}

// Discard логгер без вывода
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
