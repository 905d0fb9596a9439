// FILE: rtlog/format/builder.go
package format

import (
	"strconv"
	"time"
	"unicode/utf8"
)

// Builder accumulates chained appends of primitive values into a single
// backing buffer, exposed as a string only on demand.
type Builder struct {
	buf []byte
}

// NewBuilder creates a builder with a reasonable initial capacity
func NewBuilder() *Builder {
	return &Builder{buf: make([]byte, 0, 256)}
}

// Str appends a string
func (b *Builder) Str(s string) *Builder {
	b.buf = append(b.buf, s...)
	return b
}

// Int appends an integer
func (b *Builder) Int(v int) *Builder {
	b.buf = strconv.AppendInt(b.buf, int64(v), 10)
	return b
}

// Int64 appends a 64-bit integer
func (b *Builder) Int64(v int64) *Builder {
	b.buf = strconv.AppendInt(b.buf, v, 10)
	return b
}

// Uint64 appends an unsigned 64-bit integer
func (b *Builder) Uint64(v uint64) *Builder {
	b.buf = strconv.AppendUint(b.buf, v, 10)
	return b
}

// Float32 appends a single-precision float
func (b *Builder) Float32(v float32) *Builder {
	b.buf = strconv.AppendFloat(b.buf, float64(v), 'f', -1, 32)
	return b
}

// Float64 appends a double-precision float
func (b *Builder) Float64(v float64) *Builder {
	b.buf = strconv.AppendFloat(b.buf, v, 'f', -1, 64)
	return b
}

// Bool appends "true" or "false"
func (b *Builder) Bool(v bool) *Builder {
	b.buf = strconv.AppendBool(b.buf, v)
	return b
}

// Rune appends a single character
func (b *Builder) Rune(r rune) *Builder {
	b.buf = utf8.AppendRune(b.buf, r)
	return b
}

// Time appends a timestamp in the given layout
func (b *Builder) Time(t time.Time, layout string) *Builder {
	b.buf = t.AppendFormat(b.buf, layout)
	return b
}

// Len returns the current buffer length
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset clears the backing buffer for reuse
func (b *Builder) Reset() *Builder {
	b.buf = b.buf[:0]
	return b
}

// String materializes the accumulated content
func (b *Builder) String() string {
	return string(b.buf)
}
