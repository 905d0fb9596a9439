// FILE: rtlog/redact/redact_test.go
package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactSingleKeyword(t *testing.T) {
	r := New("password")

	assert.Equal(t, "login password=***FILTERED*** ok", r.Redact("login password=hunter2 ok"))
}

func TestRedactCaseInsensitive(t *testing.T) {
	r := New("password")

	out := r.Redact("PASSWORD=hunter2")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, Mask)
}

func TestRedactMultipleKeywords(t *testing.T) {
	r := New("password", "token", "apikey")

	out := r.Redact("password=a token=b apikey=c plain=d")
	assert.Equal(t, "password=***FILTERED*** token=***FILTERED*** apikey=***FILTERED*** plain=d", out)
}

func TestRedactRepeatedMatches(t *testing.T) {
	r := New("token")

	out := r.Redact("token=first then token=second")
	assert.Equal(t, "token=***FILTERED*** then token=***FILTERED***", out)
}

func TestRedactNoMatchUnchanged(t *testing.T) {
	r := New("password")

	msg := "nothing sensitive here"
	assert.Equal(t, msg, r.Redact(msg))

	// Keyword without the = separator is not a match
	assert.Equal(t, "password rules apply", r.Redact("password rules apply"))
}

func TestRedactOverlappingKeywords(t *testing.T) {
	// The earlier keyword's pattern consumes the whole non-whitespace run,
	// so "password=token=1" masks as a password value.
	r := New("password", "token")

	assert.Equal(t, "password=***FILTERED***", r.Redact("password=token=1"))
}

func TestRedactEmptyAndNil(t *testing.T) {
	assert.Equal(t, "", New("password").Redact(""))
	assert.Equal(t, "password=x", New().Redact("password=x"))

	var r *Redactor
	assert.Equal(t, "password=x", r.Redact("password=x"))
	assert.Nil(t, r.Keywords())
}

func TestNewSkipsBlankKeywords(t *testing.T) {
	r := New("password", "", "  ", "token")

	assert.Equal(t, []string{"password", "token"}, r.Keywords())
}

func TestRedactRequiresWordBoundary(t *testing.T) {
	r := New("password")

	// A keyword embedded in a longer identifier is not a match
	assert.Equal(t, "mypassword=x", r.Redact("mypassword=x"))
	assert.Equal(t, "old_password=x", r.Redact("old_password=x"))

	// Boundary-separated occurrences still mask, at start and mid-string
	assert.Equal(t, "password=***FILTERED***", r.Redact("password=hunter2"))
	assert.Equal(t, "set password=***FILTERED*** now", r.Redact("set password=hunter2 now"))
	assert.Equal(t, "my.password=***FILTERED***", r.Redact("my.password=hunter2"))
}

func TestRedactSpecialCharacterKeyword(t *testing.T) {
	// Keywords are quoted before compilation, so regex metacharacters are literal
	r := New("api.key")

	assert.Equal(t, "api.key=***FILTERED***", r.Redact("api.key=123"))
	assert.Equal(t, "apiXkey=123", r.Redact("apiXkey=123"))
}
