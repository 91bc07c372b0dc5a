package storage

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/sharivan/XSharp-sub001/internal/core/types"
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

var (
	ErrBadMagic           = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrUnknownKind        = errors.New("unknown entity kind")
)

// frame magic of a zstd stream
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ReadState rebuilds a world from a raw save state. ctx supplies the
// spatial index and the kind factory; ctx.World is set to the new world.
func ReadState(r io.Reader, ctx *Context) (*domain.World, error) {
	if ctx == nil || ctx.Factory == nil {
		return nil, fmt.Errorf("read state: %w", ErrMissingEnvironment)
	}

	var header StateHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("%q: %w", header.Magic[:], ErrBadMagic)
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("version %d (expected %d): %w", header.Version, Version1, ErrUnsupportedVersion)
	}
	if header.Capacity <= 0 || header.Capacity > MaxCapacity {
		return nil, fmt.Errorf("capacity %d: %w", header.Capacity, ErrCorrupt)
	}
	if header.EntityCount < 0 || header.EntityCount > header.Capacity {
		return nil, fmt.Errorf("%d entities for capacity %d: %w", header.EntityCount, header.Capacity, ErrCorrupt)
	}

	w := domain.NewWorld(ctx.Spatial, int(header.Capacity), header.RNGState)
	w.SetTick(header.Tick)
	ctx.World = w

	dec := NewDecoder(r, ctx)
	for i := int32(0); i < header.EntityCount; i++ {
		if err := readEntity(dec, ctx); err != nil {
			return nil, err
		}
	}

	rs := w.FinishRestore()
	logger.Component("storage").WithFields(logrus.Fields{
		"tick":          w.Tick(),
		"entities":      w.Registry.Len(),
		"dropped_links": rs.DroppedLinks,
		"dropped_refs":  rs.DroppedReferences,
	}).Debug("state decoded")
	return w, nil
}

func readEntity(dec *Decoder, ctx *Context) error {
	idx := types.EntityIndex(dec.ReadInt32())
	dec.beginRecord(idx)
	kindByte := dec.ReadUint8()
	if err := dec.Err(); err != nil {
		return err
	}

	kind, err := enums.EntityTypeFromByte(kindByte)
	if err != nil || kind == enums.EntityTypeAny {
		return fmt.Errorf("record %v: kind %d: %w", idx, kindByte, ErrUnknownKind)
	}
	b, err := ctx.Factory(kind)
	if err != nil {
		return fmt.Errorf("record %v: %w", idx, err)
	}
	e, err := domain.RestoreEntity(ctx.World, b, idx)
	if err != nil {
		return fmt.Errorf("record %v: %w", idx, err)
	}

	var st domain.BaseState
	lc, err := enums.LifecycleFromByte(dec.ReadUint8())
	if err != nil {
		dec.Fail(err)
	}
	st.Lifecycle = lc
	st.Respawnable = dec.ReadBool()
	st.Committed = dec.ReadBool()
	// the record is bound to the world being rebuilt and to its index
	if world := dec.ReadWorld(); world != e.World() {
		dec.Fail(fmt.Errorf("not bound to the world: %w", ErrCorrupt))
	}
	if sp := dec.ReadSpatial(); sp != nil && sp != ctx.World.Spatial {
		dec.Fail(fmt.Errorf("foreign spatial index: %w", ErrCorrupt))
	}
	st.Origin = dec.ReadVector()
	st.LastOrigin = dec.ReadVector()
	st.Hitbox = dec.ReadBox()

	st.Parent = dec.ReadIndex()
	n := dec.ReadInt32()
	if n < 0 || int(n) > ctx.World.Registry.Capacity() {
		dec.Fail(fmt.Errorf("%d children: %w", n, ErrCorrupt))
		n = 0
	}
	for i := int32(0); i < n; i++ {
		st.Children = append(st.Children, dec.ReadIndex())
	}
	n = dec.ReadInt32()
	if n < 0 || int(n) > ctx.World.Registry.Capacity() {
		dec.Fail(fmt.Errorf("%d touches: %w", n, ErrCorrupt))
		n = 0
	}
	for i := int32(0); i < n; i++ {
		if h := dec.ReadRef(enums.EntityTypeAny); h != nil {
			st.Touching = append(st.Touching, h)
		}
	}

	if p, ok := b.(domain.Persistent); ok {
		p.ReadState(dec)
	}
	if err := dec.Err(); err != nil {
		return err
	}

	e.Restore(st)
	return nil
}

// ReadStateFile loads a state file written by WriteStateFile. Raw
// (uncompressed) files are accepted too.
func ReadStateFile(path string, ctx *Context) (*domain.World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 64*1024)
	head, _ := br.Peek(len(zstdMagic))

	var r io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = bufio.NewReaderSize(dec, 64*1024)
	}

	w, err := ReadState(r, ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Component("storage").WithFields(logrus.Fields{
		"path":     path,
		"tick":     w.Tick(),
		"entities": w.Registry.Len(),
	}).Info("state loaded")
	return w, nil
}
