package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/sharivan/XSharp-sub001/pkg/api"
)

// TickLogSpan is the number of ticks stored per tick log file.
const TickLogSpan = 10000

// TickLog appends one JSON line per tick with touches to zstd compressed
// files under dir, starting a new file every TickLogSpan ticks.
type TickLog struct {
	dir string

	mu    sync.Mutex
	block int64
	f     *os.File
	enc   *zstd.Encoder
	w     *bufio.Writer
}

func NewTickLog(dir string) *TickLog {
	return &TickLog{dir: dir, block: -1}
}

// Write records s. Ticks without touches are skipped.
func (l *TickLog) Write(s api.TickSummary) error {
	if len(s.Touches) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	block := s.Tick / TickLogSpan
	if block != l.block {
		if err := l.rotateLocked(block); err != nil {
			return err
		}
	}

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	return l.w.Flush()
}

// PathFor is the file holding tick.
func (l *TickLog) PathFor(tick int64) string {
	block := tick / TickLogSpan
	return filepath.Join(l.dir, fmt.Sprintf("ticks-%08d.jsonl.zst", block*TickLogSpan))
}

func (l *TickLog) rotateLocked(block int64) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.PathFor(block*TickLogSpan), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f = f
	l.enc = enc
	l.w = bufio.NewWriterSize(enc, 64*1024)
	l.block = block
	return nil
}

func (l *TickLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *TickLog) closeLocked() error {
	if l.f == nil {
		return nil
	}
	var firstErr error
	if err := l.w.Flush(); err != nil {
		firstErr = err
	}
	if err := l.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := l.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	l.f, l.enc, l.w = nil, nil, nil
	l.block = -1
	return firstErr
}
