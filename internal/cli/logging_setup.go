package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/cbamcalc/internal/config"
	"github.com/rshade/cbamcalc/internal/logging"
)

// setupLogging configures logging from the effective config and the --debug
// flag, then stores the logger and a trace ID on the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config, debug bool) logging.LogPathResult {
	loggingCfg := cfg.Logging
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}
