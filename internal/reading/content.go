package reading

import (
	"fmt"
	"strings"
)

// ContentKind tags which variant of MaterialContent is populated.
type ContentKind string

const (
	KindText ContentKind = "text"
	KindPDF  ContentKind = "pdf"
	KindDOCX ContentKind = "docx"
	KindURL  ContentKind = "url"
)

// Badge returns the upper-case label shown next to a material.
func (k ContentKind) Badge() string {
	return strings.ToUpper(string(k))
}

// FileRef is an uploaded binary document.
type FileRef struct {
	Name string
	Data []byte
}

// MaterialContent holds exactly one of pasted text, a PDF, a DOCX, or a URL.
// Use the constructors; the zero value is invalid.
type MaterialContent struct {
	kind ContentKind
	text string
	file *FileRef
	url  string
}

// TextContent wraps pasted text.
func TextContent(text string) MaterialContent {
	return MaterialContent{kind: KindText, text: text}
}

// PDFContent wraps an uploaded PDF.
func PDFContent(name string, data []byte) MaterialContent {
	return MaterialContent{kind: KindPDF, file: &FileRef{Name: name, Data: data}}
}

// DOCXContent wraps an uploaded Word document.
func DOCXContent(name string, data []byte) MaterialContent {
	return MaterialContent{kind: KindDOCX, file: &FileRef{Name: name, Data: data}}
}

// URLContent wraps a link to a remote article.
func URLContent(url string) MaterialContent {
	return MaterialContent{kind: KindURL, url: url}
}

// Kind returns the populated variant.
func (c MaterialContent) Kind() ContentKind { return c.kind }

// Text returns the pasted text for KindText content.
func (c MaterialContent) Text() string { return c.text }

// File returns the document for KindPDF and KindDOCX content.
func (c MaterialContent) File() *FileRef { return c.file }

// URL returns the link for KindURL content.
func (c MaterialContent) URL() string { return c.url }

// IsEmpty reports whether the populated variant carries no payload.
func (c MaterialContent) IsEmpty() bool {
	switch c.kind {
	case KindText:
		return strings.TrimSpace(c.text) == ""
	case KindPDF, KindDOCX:
		return c.file == nil || len(c.file.Data) == 0
	case KindURL:
		return strings.TrimSpace(c.url) == ""
	default:
		return true
	}
}

// Describe returns a short human-readable summary of the source.
func (c MaterialContent) Describe() string {
	switch c.kind {
	case KindText:
		return fmt.Sprintf("%d characters of text", len([]rune(c.text)))
	case KindPDF, KindDOCX:
		if c.file == nil {
			return string(c.kind)
		}
		return c.file.Name
	case KindURL:
		return c.url
	default:
		return "unknown"
	}
}
