package sanitize_test

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/arewm/pipegraph/pkg/sanitize"
	"github.com/stretchr/testify/assert"
)

func TestDisplayName_StripsTags(t *testing.T) {
	assert.Equal(t, "alert(1)Build", sanitize.DisplayName("<script>alert(1)</script>Build"))
}

func TestDisplayName_StripsStrayMarkupChars(t *testing.T) {
	assert.Equal(t, "a b c", sanitize.DisplayName("a <&> b < c"))
}

func TestDisplayName_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, "linux/amd64", sanitize.DisplayName("  linux/amd64  "))
}

func TestDisplayName_TruncatesTo100(t *testing.T) {
	long := strings.Repeat("x", 250)
	assert.Len(t, sanitize.DisplayName(long), 100)
}

func TestDisplayName_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("€", 120)

	out := sanitize.DisplayName(long)
	assert.Equal(t, 100, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
}

func TestDisplayName_EmptyInput(t *testing.T) {
	assert.Equal(t, "", sanitize.DisplayName(""))
}

func TestDisplayName_Idempotent(t *testing.T) {
	inputs := []string{
		"<b>bold</b> name",
		strings.Repeat("a", 99) + " " + strings.Repeat("b", 50),
		"  plain  ",
		"<unclosed tag",
		"&&&",
		strings.Repeat("ü", 150),
	}

	for _, input := range inputs {
		once := sanitize.DisplayName(input)
		twice := sanitize.DisplayName(once)
		assert.Equal(t, once, twice, "input %q", input)
		assert.LessOrEqual(t, utf8.RuneCountInString(once), 100)
		assert.True(t, utf8.ValidString(once), "input %q", input)
		assert.NotContains(t, once, "<")
		assert.NotContains(t, once, ">")
		assert.NotContains(t, once, "&")
	}
}

func TestNameSuffix_ReplacesUnsafeChars(t *testing.T) {
	assert.Equal(t, "linux-amd64", sanitize.NameSuffix("linux/amd64"))
}

func TestNameSuffix_CollapsesAndTrimsHyphens(t *testing.T) {
	assert.Equal(t, "a-b", sanitize.NameSuffix("--a---b--"))
	assert.Equal(t, "scan-type-1", sanitize.NameSuffix(" scan./type: 1 "))
}

func TestNameSuffix_OutputShape(t *testing.T) {
	safe := regexp.MustCompile(`^[a-zA-Z0-9-]*$`)

	inputs := []string{"linux/amd64, s390x", "<script>x</script>", "", "___", "Instance 3"}
	for _, input := range inputs {
		out := sanitize.NameSuffix(input)
		assert.Regexp(t, safe, out, "input %q", input)
		assert.False(t, strings.HasPrefix(out, "-"))
		assert.False(t, strings.HasSuffix(out, "-"))
		assert.NotContains(t, out, "--")
	}
}
