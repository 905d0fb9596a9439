// FILE: rtlog/format/format_test.go
package format

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTwoArgs(t *testing.T) {
	assert.Equal(t, "Value: 5, Count: 10", Format("Value: {0}, Count: {1}", 5, 10))
}

func TestFormatReversedOrder(t *testing.T) {
	assert.Equal(t, "B before A", Format("{1} before {0}", "A", "B"))
}

func TestFormatSingleArg(t *testing.T) {
	assert.Equal(t, "hello world", Format("hello {0}", "world"))
	assert.Equal(t, "score=3.5", Format("score={0}", 3.5))
	assert.Equal(t, "ok=true", Format("ok={0}", true))
	assert.Equal(t, "v=nil", Format("v={0}", nil))
}

func TestFormatThreeArgs(t *testing.T) {
	assert.Equal(t, "a b c", Format("{0} {1} {2}", "a", "b", "c"))
}

func TestFormatRepeatedPlaceholder(t *testing.T) {
	// The general path substitutes every occurrence; three or more args
	// always take it
	assert.Equal(t, "x x y z", Format("{0} {0} {1} {2}", "x", "y", "z"))
}

func TestFormatNoArgs(t *testing.T) {
	assert.Equal(t, "plain message", Format("plain message"))
	assert.Equal(t, "{0} untouched", Format("{0} untouched"))
}

func TestFormatMissingPlaceholder(t *testing.T) {
	// Arguments without a placeholder are ignored
	assert.Equal(t, "no slots", Format("no slots", 1, 2, 3))
}

func TestFormatExtraPlaceholder(t *testing.T) {
	// Placeholders without an argument are left in place
	assert.Equal(t, "a {1}", Format("{0} {1}", "a"))
}

func TestFormatValueKinds(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, "err: boom", Format("err: {0}", err))

	ts := time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "at 2026-08-23T10:30:00Z", Format("at {0}", ts))

	assert.Equal(t, "n=-42", Format("n={0}", int64(-42)))
	assert.Equal(t, "u=42", Format("u={0}", uint64(42)))
}

func TestFormatComplexValueDump(t *testing.T) {
	type pos struct{ X, Y int }
	out := Format("at {0}", pos{X: 1, Y: 2})
	assert.Contains(t, out, "X:")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "2")
}

func TestLazyDefersConstruction(t *testing.T) {
	calls := 0
	fn := Lazy("value {0}", func() int { calls++; return calls }())

	// Arguments are captured eagerly, formatting happens on invocation
	assert.Equal(t, 1, calls)
	assert.Equal(t, "value 1", fn())
	assert.Equal(t, "value 1", fn())
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	out := b.Str("frame=").Int(120).Str(" dt=").Float64(16.6).Str(" vsync=").Bool(true).String()
	assert.Equal(t, "frame=120 dt=16.6 vsync=true", out)

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "x=7", b.Str("x=").Int64(7).String())
}
