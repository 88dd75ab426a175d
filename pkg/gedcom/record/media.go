package record

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/optional"
)

// Object is a multimedia link (OBJE). An inline OBJE and a reference to a
// top-level OBJE record read the same.
type Object struct {
	ID    optional.Value[string] `json:"id"`
	Files []File                 `json:"files,omitempty"`
}

// File is an OBJE.FILE reference.
type File struct {
	Reference string                 `json:"reference"`
	Title     optional.Value[string] `json:"title"`
	Forms     []Form                 `json:"forms,omitempty"`
}

// Form is a FILE.FORM multimedia format.
type Form struct {
	Format string                 `json:"format"`
	Type   optional.Value[string] `json:"type"`
}

// ReadObject reads an OBJE structure, following a pointer to a top-level
// record when the structure only references one.
func ReadObject(s gedcom.Structure) Object {
	if target, ok := s.Resolve().Get(); ok {
		s = target
	}
	obj := Object{ID: s.Pointer()}
	for _, f := range s.Children("FILE") {
		obj.Files = append(obj.Files, ReadFile(f))
	}
	return obj
}

// ReadFile reads a FILE structure.
func ReadFile(s gedcom.Structure) File {
	f := File{
		Reference: s.DataOr(Unknown),
		Title:     optional.Map(s.Child("TITL"), dataOrEmpty),
	}
	for _, form := range s.Children("FORM") {
		f.Forms = append(f.Forms, ReadForm(form))
	}
	return f
}

// ReadForm reads a FORM structure.
func ReadForm(s gedcom.Structure) Form {
	return Form{
		Format: s.DataOr(Unknown),
		Type:   optional.Map(s.Child("TYPE"), dataOrEmpty),
	}
}

// WebURL returns the file reference when it is an absolute http or https URL.
func (f File) WebURL() optional.Value[string] {
	ref := f.Reference
	if !strings.HasPrefix(ref, "http:") && !strings.HasPrefix(ref, "https:") {
		return optional.None[string]()
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return optional.None[string]()
	}
	return optional.Some(u.String())
}

// Text is free text from a NOTE or TEXT structure with its CONC and CONT
// continuations joined: CONC appends directly, CONT starts a new line.
type Text struct {
	Value string `json:"value"`
}

// ReadText reads a text structure.
func ReadText(s gedcom.Structure) Text {
	var b strings.Builder
	b.WriteString(s.DataOr(""))
	for _, c := range s.All() {
		switch c.Tag() {
		case "CONC":
			b.WriteString(c.DataOr(""))
		case "CONT":
			b.WriteByte('\n')
			b.WriteString(c.DataOr(""))
		}
	}
	return Text{Value: b.String()}
}

// Plain returns the text with any HTML markup removed and entities decoded.
// Several genealogy programs export notes as HTML fragments.
func (t Text) Plain() string {
	z := html.NewTokenizer(strings.NewReader(t.Value))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.TrimSpace(b.String())
			}
			return t.Value
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" || string(name) == "p" {
				b.WriteByte('\n')
			}
		}
	}
}
