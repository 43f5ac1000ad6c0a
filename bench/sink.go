package bench

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink receives every finished trial. Implementations must be safe for
// concurrent use.
type Sink interface {
	Record(t Trial) error
	Close() error
}

// Collector keeps trials in memory.
type Collector struct {
	mu     sync.Mutex
	trials []Trial
}

func (c *Collector) Record(t Trial) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trials = append(c.trials, t)
	return nil
}

func (c *Collector) Close() error { return nil }

// Trials returns a copy of everything recorded so far.
func (c *Collector) Trials() []Trial {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Trial, len(c.trials))
	copy(out, c.trials)
	return out
}

// LogSink writes each trial to a logger at debug level.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wraps logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(t Trial) error {
	s.logger.Debug("trial finished", zap.Inline(t))
	return nil
}

func (s *LogSink) Close() error { return nil }

// FileSink appends one JSON object per trial to a file.
type FileSink struct {
	file   *os.File
	logger *zap.Logger
}

// OpenFileSink opens (or creates) path for appending.
func OpenFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trial log: %w", err)
	}
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.InfoLevel)
	return &FileSink{file: f, logger: zap.New(core)}, nil
}

func (s *FileSink) Record(t Trial) error {
	s.logger.Info("trial", zap.Inline(t))
	return nil
}

func (s *FileSink) Close() error {
	return errors.Join(s.logger.Sync(), s.file.Close())
}

// MultiSink fans each trial out to several sinks.
type MultiSink []Sink

func (m MultiSink) Record(t Trial) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
