package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// New builds the process logger. LOG_FORMAT=json selects the JSON handler
// for aggregated environments; everything else gets the tint console handler.
func New(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: slog.LevelInfo,
	}))
}
