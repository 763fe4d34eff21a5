package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/snmplite/internal/logging"
)

// InitLogger applies the runtime logging profile and tags every event on the
// global logger with the application name. The profile owns the writer, so
// env overrides for level, timestamp and color remain in effect.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	logger := log.Logger.With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
