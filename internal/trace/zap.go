package trace

import (
	"io"
	"maps"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapTracer forwards events to a zap logger as structured entries.
// Span ends are logged at Info, everything else at Debug.
type ZapTracer struct {
	log   *zap.Logger
	level Level
}

func NewZapTracer(log *zap.Logger, level Level) *ZapTracer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapTracer{log: log, level: level}
}

// NewZapLogger builds a JSON logger writing to w at debug level.
func NewZapLogger(w io.Writer) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

func (t *ZapTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}

	fields := make([]zap.Field, 0, 8+len(ev.Extra))
	fields = append(fields,
		zap.Uint64("seq", ev.Seq),
		zap.String("kind", ev.Kind.String()),
		zap.String("scope", ev.Scope.String()),
		zap.Uint64("span_id", ev.SpanID),
	)
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent_id", ev.ParentID))
	}
	if ev.GID != 0 {
		fields = append(fields, zap.Uint64("gid", ev.GID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		fields = append(fields, zap.String(k, ev.Extra[k]))
	}

	if ev.Kind == KindSpanEnd {
		t.log.Info(ev.Name, fields...)
		return
	}
	t.log.Debug(ev.Name, fields...)
}

func (t *ZapTracer) Flush() error {
	// Sync на stderr/stdout падает для терминалов, игнорируем
	_ = t.log.Sync() //nolint:errcheck
	return nil
}

func (t *ZapTracer) Close() error  { return t.Flush() }
func (t *ZapTracer) Level() Level  { return t.level }
func (t *ZapTracer) Enabled() bool { return t.level > LevelOff }
