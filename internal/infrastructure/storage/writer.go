package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `XSST`
	Version1    uint32 = 1

	// MaxCapacity bounds the registry size a state may declare.
	MaxCapacity int32 = 65536
)

// StateHeader is the fixed-size head of a save state. It has no slices or
// strings, so binary.Write handles it in one call.
type StateHeader struct {
	Magic       [4]byte
	Version     uint32
	Tick        int64
	RNGState    uint16
	_           [2]byte
	EntityCount int32
	Capacity    int32
}

// WriteState writes the raw (uncompressed) save state of w.
// Every registered entity is written once, in ascending index order.
func WriteState(out io.Writer, w *domain.World) error {
	if w.Registry.Capacity() > int(MaxCapacity) {
		return fmt.Errorf("capacity %d: %w", w.Registry.Capacity(), ErrCorrupt)
	}
	entities := w.Registry.Entities()

	header := StateHeader{
		Version:     Version1,
		Tick:        w.Tick(),
		RNGState:    w.Rng.State(),
		EntityCount: int32(len(entities)),
		Capacity:    int32(w.Registry.Capacity()),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(out, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	enc := NewEncoder(out)
	for _, e := range entities {
		writeEntity(enc, e)
		if err := enc.Err(); err != nil {
			return fmt.Errorf("entity %v: %w", e, err)
		}
	}
	return nil
}

func writeEntity(enc *Encoder, e *domain.Entity) {
	st := e.Snapshot()

	enc.WriteInt32(int32(e.Index()))
	enc.WriteUint8(uint8(e.Kind()))
	enc.WriteUint8(uint8(st.Lifecycle))
	enc.WriteBool(st.Respawnable)
	enc.WriteBool(st.Committed)
	enc.WriteEnv(e.World() != nil)
	enc.WriteEnv(e.World() != nil && e.World().Spatial != nil)
	enc.WriteVector(st.Origin)
	enc.WriteVector(st.LastOrigin)
	enc.WriteBox(st.Hitbox)

	enc.WriteIndex(st.Parent)
	enc.WriteInt32(int32(len(st.Children)))
	for _, c := range st.Children {
		enc.WriteIndex(c)
	}
	enc.WriteInt32(int32(len(st.Touching)))
	for _, h := range st.Touching {
		enc.WriteRef(h)
	}

	if p, ok := e.Behavior().(domain.Persistent); ok {
		p.WriteState(enc)
	}
}

// WriteStateFile saves w as a zstd compressed state file. The file is
// written next to path and renamed over it once complete.
func WriteStateFile(path string, w *domain.World) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := writeCompressed(tmp, w); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	logger.Component("storage").WithFields(logrus.Fields{
		"path":     path,
		"tick":     w.Tick(),
		"entities": w.Registry.Len(),
	}).Info("state saved")
	return nil
}

func writeCompressed(f io.Writer, w *domain.World) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	if err := WriteState(bw, w); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
