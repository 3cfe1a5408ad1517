// Package logging configures the plugin logger. Stdout carries the plugin
// protocol payload, so all logging goes to stderr, framed with the control
// bytes the host uses to pick up log levels from plugin output.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stash reads plugin stderr line-wise; a line starting with SOH + level byte
// + STX is ingested at that level.
const (
	startLevelChar byte = 1 // SOH
	endLevelChar   byte = 2 // STX
)

func levelByte(l zapcore.Level) byte {
	switch {
	case l <= zapcore.DebugLevel:
		return 'd'
	case l == zapcore.InfoLevel:
		return 'i'
	case l == zapcore.WarnLevel:
		return 'w'
	default:
		return 'e'
	}
}

type stashCore struct {
	zapcore.LevelEnabler
	enc zapcore.Encoder
	out zapcore.WriteSyncer
}

func (c *stashCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.enc = c.enc.Clone()
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return &clone
}

func (c *stashCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *stashCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	framed := make([]byte, 0, buf.Len()+3)
	framed = append(framed, startLevelChar, levelByte(ent.Level), endLevelChar)
	framed = append(framed, buf.Bytes()...)
	_, err = c.out.Write(framed)
	return err
}

func (c *stashCore) Sync() error { return c.out.Sync() }

// New builds the plugin logger at the given level ("debug", "info", "warn",
// "error"). Unknown levels fall back to info.
func New(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "" // the host stamps log lines itself
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := &stashCore{
		LevelEnabler: lvl,
		enc:          zapcore.NewConsoleEncoder(encCfg),
		out:          zapcore.Lock(os.Stderr),
	}

	opts := []zap.Option{}
	if lvl == zapcore.DebugLevel {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...)
}
