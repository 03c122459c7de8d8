package intercepters_test

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/shortify/internal/intercepters"
)

func TestInterceptorLogger(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	il := intercepters.InterceptorLogger(zap.New(core))

	tests := []struct {
		name     string
		level    logging.Level
		msg      string
		fields   []any
		wantLvl  zapcore.Level
		wantKeys []string
	}{
		{
			name:     "info with string and int",
			level:    logging.LevelInfo,
			msg:      "finished call",
			fields:   []any{"grpc.method", "Create", "grpc.time_ms", 12},
			wantLvl:  zap.InfoLevel,
			wantKeys: []string{"grpc.method", "grpc.time_ms"},
		},
		{
			name:     "debug with bool",
			level:    logging.LevelDebug,
			msg:      "started call",
			fields:   []any{"aiGenerated", true},
			wantLvl:  zap.DebugLevel,
			wantKeys: []string{"aiGenerated"},
		},
		{
			name:     "warn with struct value",
			level:    logging.LevelWarn,
			msg:      "slow call",
			fields:   []any{"peer", struct{ Addr string }{Addr: "bufnet"}},
			wantLvl:  zap.WarnLevel,
			wantKeys: []string{"peer"},
		},
		{
			name:    "error without fields",
			level:   logging.LevelError,
			msg:     "call failed",
			wantLvl: zap.ErrorLevel,
		},
		{
			name:     "dangling key is dropped",
			level:    logging.LevelInfo,
			msg:      "odd fields",
			fields:   []any{"alias", "go-docs", "orphan"},
			wantLvl:  zap.InfoLevel,
			wantKeys: []string{"alias"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed.TakeAll()

			il.Log(context.Background(), tt.level, tt.msg, tt.fields...)

			logs := observed.TakeAll()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.wantLvl, logs[0].Level)
			assert.Equal(t, tt.msg, logs[0].Message)

			keys := make([]string, 0, len(logs[0].Context))
			for _, f := range logs[0].Context {
				keys = append(keys, f.Key)
			}
			assert.ElementsMatch(t, tt.wantKeys, keys)
		})
	}
}

func TestInterceptorLogger_UnknownLevelPanics(t *testing.T) {
	core, _ := observer.New(zap.DebugLevel)
	il := intercepters.InterceptorLogger(zap.New(core))

	assert.Panics(t, func() {
		il.Log(context.Background(), logging.Level(999), "unknown")
	})
}
