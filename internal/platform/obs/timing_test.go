package obs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeLogsRunIDOnce(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core).With(zap.String("run_id", "r-1"))

	var err error
	Time(log, "redis.PutBatch")(&err)

	err = errors.New("i/o timeout")
	Time(log, "redis.PutBatch")(&err)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)

	for _, e := range entries {
		n := 0
		for _, f := range e.Context {
			if f.Key == "run_id" {
				n++
			}
		}
		require.Equal(t, 1, n, "run_id fields in %q", e.Message)
		require.Equal(t, "redis.PutBatch", e.ContextMap()["op"])
	}
	require.Equal(t, "i/o timeout", entries[1].ContextMap()["error"])
}
