package obs

import (
	"time"

	"go.uber.org/zap"
)

// Time logs how long the named operation took. Run-scoped fields such as
// run_id come from log itself. Use as
//
//	defer obs.Time(log, "osrm.Durations")(&err)
func Time(log *zap.Logger, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		fields := []zap.Field{
			zap.String("op", name),
			zap.Int64("dur_ms", time.Since(start).Milliseconds()),
		}

		if errp != nil && *errp != nil {
			log.Warn("op failed", append(fields, zap.Error(*errp))...)
			return
		}
		log.Debug("op done", fields...)
	}
}
