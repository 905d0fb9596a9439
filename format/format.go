// FILE: rtlog/format/format.go
// Package format builds log message strings from placeholder templates with
// minimal allocation. One- and two-argument templates take a direct index
// search and append path; everything else falls back to general
// interpolation.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/valyala/bytebufferpool"
)

// dumper renders values with no native append path (structs, maps, slices)
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Format substitutes {0}..{n} placeholders in the template with the given
// arguments. Templates with one or two arguments whose placeholders are
// found by direct index search are built by concatenation into a pooled
// buffer; three or more arguments, or a template whose placeholder search
// fails, use the general interpolation path instead of failing.
func Format(template string, args ...any) string {
	switch len(args) {
	case 0:
		return template
	case 1:
		if s, ok := substitute1(template, args[0]); ok {
			return s
		}
	case 2:
		if s, ok := substitute2(template, args[0], args[1]); ok {
			return s
		}
	}
	return interpolate(template, args)
}

// Lazy defers message construction until the returned function is invoked,
// so filtered-out log calls pay no formatting cost.
func Lazy(template string, args ...any) func() string {
	return func() string {
		return Format(template, args...)
	}
}

// substitute1 handles the single-placeholder fast path
func substitute1(template string, arg any) (string, bool) {
	i := strings.Index(template, "{0}")
	if i < 0 {
		return "", false
	}
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	bb.B = append(bb.B, template[:i]...)
	bb.B = appendValue(bb.B, arg)
	bb.B = append(bb.B, template[i+3:]...)
	return bb.String(), true
}

// substitute2 handles the two-placeholder fast path, in either order
func substitute2(template string, arg0, arg1 any) (string, bool) {
	i0 := strings.Index(template, "{0}")
	i1 := strings.Index(template, "{1}")
	if i0 < 0 || i1 < 0 {
		return "", false
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	if i0 < i1 {
		bb.B = append(bb.B, template[:i0]...)
		bb.B = appendValue(bb.B, arg0)
		bb.B = append(bb.B, template[i0+3:i1]...)
		bb.B = appendValue(bb.B, arg1)
		bb.B = append(bb.B, template[i1+3:]...)
	} else {
		bb.B = append(bb.B, template[:i1]...)
		bb.B = appendValue(bb.B, arg1)
		bb.B = append(bb.B, template[i1+3:i0]...)
		bb.B = appendValue(bb.B, arg0)
		bb.B = append(bb.B, template[i0+3:]...)
	}
	return bb.String(), true
}

// interpolate is the general path: every {i} occurrence is replaced with the
// string form of args[i]. Placeholders without a matching argument are left
// in place.
func interpolate(template string, args []any) string {
	for i, arg := range args {
		placeholder := "{" + strconv.Itoa(i) + "}"
		if !strings.Contains(template, placeholder) {
			continue
		}
		template = strings.ReplaceAll(template, placeholder, valueString(arg))
	}
	return template
}

// appendValue appends the string form of v without intermediate allocation
// for the primitive cases.
func appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int32:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return val.AppendFormat(buf, time.RFC3339Nano)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	default:
		return append(buf, valueString(v)...)
	}
}

// valueString converts any value to its display string
func valueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	case nil:
		return "nil"
	case int, int32, int64, uint, uint64, float32, float64, bool, time.Time:
		return string(appendValue(nil, val))
	default:
		return strings.TrimSpace(dumper.Sdump(val))
	}
}
