package gedcom

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/lineage/pkg/optional"
)

// lineRegex is the record grammar: LEVEL SP (@POINTER@ SP)? TAG (SP DATA)?
var lineRegex = regexp.MustCompile(`^(0|[1-9][0-9]*) (?:@([^@]+)@ )?([A-Za-z0-9_]+)(?: (.*))?$`)

// Line is one decoded record line. It is transient: the [Builder] turns it
// into a [Node] immediately.
type Line struct {
	Level   int
	Pointer optional.Value[string]
	Tag     string
	Data    optional.Value[string]
}

// Classify decodes a single input line.
//
// It returns the decoded line and true when s matches the record grammar.
// Otherwise it returns false and the caller treats s as continuation data for
// the most recently opened record. A trailing carriage return is ignored. A
// level too large for an int does not match.
func Classify(s string) (Line, bool) {
	s = strings.TrimSuffix(s, "\r")
	m := lineRegex.FindStringSubmatchIndex(s)
	if m == nil {
		return Line{}, false
	}

	level, err := strconv.Atoi(s[m[2]:m[3]])
	if err != nil {
		return Line{}, false
	}

	ln := Line{Level: level, Tag: s[m[6]:m[7]]}
	if m[4] >= 0 {
		ln.Pointer = optional.Some(s[m[4]:m[5]])
	}
	if m[8] >= 0 {
		ln.Data = optional.Some(s[m[8]:m[9]])
	}
	return ln, true
}

// StripBOM removes a leading byte-order mark from the first line of a file.
//
// A UTF-8 mark that has already been decoded to U+FEFF removes one character.
// Raw UTF-16 marks (FE FF or FF FE) remove two bytes. Anything else is left
// untouched. The result is trimmed of surrounding whitespace.
func StripBOM(first string) string {
	switch {
	case strings.HasPrefix(first, "\uFEFF"):
		first = first[len("\uFEFF"):]
	case strings.HasPrefix(first, "\xFE\xFF"), strings.HasPrefix(first, "\xFF\xFE"):
		first = first[2:]
	}
	return strings.TrimSpace(first)
}

// String renders the line back in GEDCOM form.
func (l Line) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(l.Level))
	if p, ok := l.Pointer.Get(); ok {
		b.WriteString(" @")
		b.WriteString(p)
		b.WriteString("@")
	}
	b.WriteByte(' ')
	b.WriteString(l.Tag)
	if d, ok := l.Data.Get(); ok {
		b.WriteByte(' ')
		b.WriteString(d)
	}
	return b.String()
}

// TrimPointer strips the @ delimiters from a cross-reference value such as
// the data of "1 HUSB @I1@". It reports false when s is not delimited.
func TrimPointer(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || s[0] != '@' || s[len(s)-1] != '@' {
		return s, false
	}
	inner := s[1 : len(s)-1]
	if strings.Contains(inner, "@") {
		return s, false
	}
	return inner, true
}
