// Package logs builds the process-wide slog.Logger from configuration.
package logs

import (
	"log/slog"
	"os"

	"lookmarket/config"

	"go.uber.org/fx"
)

// Params defines the parameters required for the logger
type Params struct {
	fx.In

	Config *config.Config
}

// New creates the slog.Logger every component shares. JSON output is the
// default; pretty switches to the text handler for local development. The
// service name and environment ride along on every record.
func New(params Params) (*slog.Logger, error) {
	logCfg := params.Config.Env.Log

	level, err := logCfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if logCfg.Pretty {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(
		slog.String("service", params.Config.Env.ServiceName),
		slog.String("env", params.Config.Env.Env),
	), nil
}
