package main

import (
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rgehrsitz/ivadual/internal/config"
	"github.com/rgehrsitz/ivadual/internal/domain"
	"go.uber.org/zap"
)

const flushTimeout = 2 * time.Second

// initSentry enables error reporting when a DSN is configured
func initSentry(settings config.Settings, logger *zap.SugaredLogger) bool {
	if settings.SentryDSN == "" {
		return false
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.SentryDSN,
		Environment:      settings.SentryEnvironment,
		Release:          settings.SentryRelease,
		AttachStacktrace: true,
	})
	if err != nil {
		logger.Warnf("sentry init failed: %v", err)
		return false
	}
	logger.Debugf("sentry enabled (environment %s)", settings.SentryEnvironment)
	return true
}

func flushSentry() {
	sentry.Flush(flushTimeout)
}

// reportWarnings sends the computation warnings of each year to Sentry.
// Without a client the calls are no-ops.
func reportWarnings(results map[int]*domain.YearResult) {
	for _, year := range domain.SortedYears(results) {
		for _, w := range results[year].Warnings {
			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetLevel(sentry.LevelWarning)
				scope.SetTag("year", strconv.Itoa(year))
				sentry.CaptureMessage(w)
			})
		}
	}
}
