package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sharivan/XSharp-sub001/internal/core/types"
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
)

// Tag is the one byte type marker written before every value.
type Tag uint8

const (
	TagBool Tag = iota + 1
	TagInt32
	TagInt64
	TagFloat64
	TagString
	TagRef
	TagEnv
	TagUint8
)

var tagToString = map[Tag]string{
	TagBool:    "BOOL",
	TagInt32:   "INT32",
	TagInt64:   "INT64",
	TagFloat64: "FLOAT64",
	TagString:  "STRING",
	TagRef:     "REF",
	TagEnv:     "ENV",
	TagUint8:   "UINT8",
}

func (t Tag) String() string {
	if s, ok := tagToString[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

var (
	// ErrFieldMismatch is returned when the stored tag is not the one the
	// reader expects at that position of the record.
	ErrFieldMismatch = errors.New("field type mismatch")
	// ErrMissingEnvironment is returned when a record needs an environment
	// handle the decode context does not carry.
	ErrMissingEnvironment = errors.New("missing environment handle")
	// ErrCorrupt covers structurally impossible values (negative counts...).
	ErrCorrupt = errors.New("corrupt state")
)

const maxStringLen = math.MaxUint16

// Encoder writes tagged values. The first error sticks; later writes are no-ops.
type Encoder struct {
	w   io.Writer
	buf [9]byte
	err error
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Err() error { return e.err }

func (e *Encoder) put(tag Tag, n int) {
	if e.err != nil {
		return
	}
	e.buf[0] = byte(tag)
	if _, err := e.w.Write(e.buf[:1+n]); err != nil {
		e.err = fmt.Errorf("write %v: %w", tag, err)
	}
}

func (e *Encoder) WriteBool(v bool) {
	e.buf[1] = 0
	if v {
		e.buf[1] = 1
	}
	e.put(TagBool, 1)
}

func (e *Encoder) WriteUint8(v uint8) {
	e.buf[1] = v
	e.put(TagUint8, 1)
}

func (e *Encoder) WriteInt32(v int32) {
	binary.LittleEndian.PutUint32(e.buf[1:], uint32(v))
	e.put(TagInt32, 4)
}

func (e *Encoder) WriteInt64(v int64) {
	binary.LittleEndian.PutUint64(e.buf[1:], uint64(v))
	e.put(TagInt64, 8)
}

func (e *Encoder) WriteFloat64(v float64) {
	binary.LittleEndian.PutUint64(e.buf[1:], math.Float64bits(v))
	e.put(TagFloat64, 8)
}

// WriteString writes a uint16 length followed by the bytes.
func (e *Encoder) WriteString(v string) {
	if len(v) > maxStringLen {
		if e.err == nil {
			e.err = fmt.Errorf("string too long: %d", len(v))
		}
		return
	}
	binary.LittleEndian.PutUint16(e.buf[1:], uint16(len(v)))
	e.put(TagString, 2)
	if e.err != nil {
		return
	}
	if _, err := io.WriteString(e.w, v); err != nil {
		e.err = fmt.Errorf("write string: %w", err)
	}
}

func (e *Encoder) WriteVector(v domain.Vector) {
	e.WriteFloat64(v.X)
	e.WriteFloat64(v.Y)
}

func (e *Encoder) WriteBox(b domain.Box) {
	e.WriteVector(b.Min)
	e.WriteVector(b.Max)
}

// WriteIndex writes a raw entity index, -1 for none.
func (e *Encoder) WriteIndex(idx types.EntityIndex) {
	if idx.IsNil() {
		idx = types.NilIndex
	}
	binary.LittleEndian.PutUint32(e.buf[1:], uint32(int32(idx)))
	e.put(TagRef, 4)
}

// WriteRef writes the index behind h. Absent references, unresolved
// placeholders and unregistered entities are all written as -1.
func (e *Encoder) WriteRef(h domain.Handle) {
	e.WriteIndex(domain.IndexOf(h))
}

// WriteEnv writes the presence flag of an environment handle. The handle
// itself is never serialized.
func (e *Encoder) WriteEnv(present bool) {
	e.buf[1] = 0
	if present {
		e.buf[1] = 1
	}
	e.put(TagEnv, 1)
}

// Context carries what a decoder substitutes for environment handles and
// the factory used to rebuild entity kinds.
type Context struct {
	World   *domain.World
	Spatial domain.SpatialIndex
	Factory func(kind enums.EntityType) (domain.Behavior, error)
}

// Decoder reads tagged values. The first error sticks and later reads
// return zero values.
type Decoder struct {
	r   io.Reader
	ctx *Context
	buf [8]byte
	err error

	record  types.EntityIndex
	ordinal int
}

func NewDecoder(r io.Reader, ctx *Context) *Decoder {
	return &Decoder{r: r, ctx: ctx, record: types.NilIndex}
}

func (d *Decoder) Err() error { return d.err }

// Fail records err unless an earlier error is already stuck.
func (d *Decoder) Fail(err error) {
	if d.err == nil && err != nil {
		d.err = fmt.Errorf("record %v value %d: %w", d.record, d.ordinal, err)
	}
}

func (d *Decoder) beginRecord(idx types.EntityIndex) {
	d.record = idx
	d.ordinal = 0
}

func (d *Decoder) take(want Tag, n int) []byte {
	if d.err != nil {
		return nil
	}
	d.ordinal++
	if _, err := io.ReadFull(d.r, d.buf[:1]); err != nil {
		d.Fail(fmt.Errorf("read %v tag: %w", want, err))
		return nil
	}
	if got := Tag(d.buf[0]); got != want {
		d.Fail(fmt.Errorf("expected %v, got %v: %w", want, got, ErrFieldMismatch))
		return nil
	}
	if _, err := io.ReadFull(d.r, d.buf[:n]); err != nil {
		d.Fail(fmt.Errorf("read %v: %w", want, err))
		return nil
	}
	return d.buf[:n]
}

func (d *Decoder) ReadBool() bool {
	b := d.take(TagBool, 1)
	return b != nil && b[0] != 0
}

func (d *Decoder) ReadUint8() uint8 {
	if b := d.take(TagUint8, 1); b != nil {
		return b[0]
	}
	return 0
}

func (d *Decoder) ReadInt32() int32 {
	if b := d.take(TagInt32, 4); b != nil {
		return int32(binary.LittleEndian.Uint32(b))
	}
	return 0
}

func (d *Decoder) ReadInt64() int64 {
	if b := d.take(TagInt64, 8); b != nil {
		return int64(binary.LittleEndian.Uint64(b))
	}
	return 0
}

func (d *Decoder) ReadFloat64() float64 {
	if b := d.take(TagFloat64, 8); b != nil {
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}

func (d *Decoder) ReadString() string {
	b := d.take(TagString, 2)
	if b == nil {
		return ""
	}
	s := make([]byte, binary.LittleEndian.Uint16(b))
	if _, err := io.ReadFull(d.r, s); err != nil {
		d.Fail(fmt.Errorf("read string: %w", err))
		return ""
	}
	return string(s)
}

func (d *Decoder) ReadVector() domain.Vector {
	x := d.ReadFloat64()
	y := d.ReadFloat64()
	return domain.Vector{X: x, Y: y}
}

func (d *Decoder) ReadBox() domain.Box {
	minV := d.ReadVector()
	maxV := d.ReadVector()
	return domain.Box{Min: minV, Max: maxV}
}

// ReadIndex reads a raw entity index without resolving it.
func (d *Decoder) ReadIndex() types.EntityIndex {
	b := d.take(TagRef, 4)
	if b == nil {
		return types.NilIndex
	}
	idx := types.EntityIndex(int32(binary.LittleEndian.Uint32(b)))
	if idx.IsNil() {
		return types.NilIndex
	}
	return idx
}

// ReadRef resolves a stored index as a reference expected to behave as
// kind: the entity itself, a proxy on kind mismatch, or a placeholder
// completed when the entity is registered later in the stream.
// Absent and out of range indices yield nil.
func (d *Decoder) ReadRef(kind enums.EntityType) domain.Handle {
	idx := d.ReadIndex()
	if idx.IsNil() || d.err != nil {
		return nil
	}
	if d.ctx == nil || d.ctx.World == nil {
		d.Fail(fmt.Errorf("reference to %v: %w", idx, ErrMissingEnvironment))
		return nil
	}
	return d.ctx.World.Registry.GetOrCreateReferenceTo(idx, kind)
}

// ReadEnv reads the presence flag of an environment handle.
func (d *Decoder) ReadEnv() bool {
	b := d.take(TagEnv, 1)
	return b != nil && b[0] != 0
}

// ReadWorld substitutes the context world for a present world flag.
func (d *Decoder) ReadWorld() *domain.World {
	if !d.ReadEnv() {
		return nil
	}
	if d.ctx == nil || d.ctx.World == nil {
		d.Fail(fmt.Errorf("world: %w", ErrMissingEnvironment))
		return nil
	}
	return d.ctx.World
}

// ReadSpatial substitutes the context spatial index for a present flag.
func (d *Decoder) ReadSpatial() domain.SpatialIndex {
	if !d.ReadEnv() {
		return nil
	}
	if d.ctx == nil || d.ctx.Spatial == nil {
		d.Fail(fmt.Errorf("spatial index: %w", ErrMissingEnvironment))
		return nil
	}
	return d.ctx.Spatial
}

var (
	_ domain.StateWriter = (*Encoder)(nil)
	_ domain.StateReader = (*Decoder)(nil)
)
