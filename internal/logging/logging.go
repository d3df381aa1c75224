// Package logging constructs the single zap logger every component in this
// module threads through instead of calling a package-level global: either
// line-oriented output to stdout, or a daily-rotating file under a
// configured directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger. When directory and filePrefix are both non-empty,
// logs are written to a daily-rotating file at
// {directory}/{filePrefix}.{YYYY-MM-DD}.log; otherwise logs go to stdout.
func New(directory, filePrefix string) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	var writer zapcore.WriteSyncer
	if directory != "" && filePrefix != "" {
		rotating, err := newDailyRotatingWriter(directory, filePrefix)
		if err != nil {
			return nil, err
		}
		writer = rotating
	} else {
		writer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, writer, zap.NewAtomicLevelAt(zapcore.InfoLevel))
	return zap.New(core), nil
}

// dailyRotatingWriter reopens its underlying file whenever the UTC date
// rolls over.
type dailyRotatingWriter struct {
	mu         sync.Mutex
	directory  string
	filePrefix string
	day        string
	file       *os.File
}

func newDailyRotatingWriter(directory, filePrefix string) (*dailyRotatingWriter, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, err
	}
	w := &dailyRotatingWriter{directory: directory, filePrefix: filePrefix}
	if err := w.rotateLocked(time.Now().UTC()); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *dailyRotatingWriter) rotateLocked(now time.Time) error {
	day := now.Format("2006-01-02")
	if day == w.day && w.file != nil {
		return nil
	}
	path := filepath.Join(w.directory, fmt.Sprintf("%s.%s.log", w.filePrefix, day))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if w.file != nil {
		w.file.Close()
	}
	w.file = file
	w.day = day
	return nil
}

func (w *dailyRotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.rotateLocked(time.Now().UTC()); err != nil {
		return 0, err
	}
	return w.file.Write(p)
}

func (w *dailyRotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}
