package logging

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"agenteur.ai/web/config"
)

// InitSentry configures the global Sentry client and returns a function that
// flushes buffered events. With an empty DSN the client stays disabled and
// captures are dropped.
func InitSentry(cfg *config.Config) (func(), error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Env,
		Release:          cfg.Version,
		SampleRate:       cfg.Sentry.SampleRate,
		AttachStacktrace: true,
		ServerName:       ServiceName,
	})
	if err != nil {
		return func() {}, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
