package material

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/readiz/internal/reading"
)

// MaxAdvisedFileSize is the largest upload the instructor form recommends.
// Larger files are accepted with a warning.
const MaxAdvisedFileSize = 10 << 20

// Form fields reported by FormError.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldFile    = "file"
	FieldURL     = "url"
)

// FormError is a validation failure on the add-material form. It never
// changes application state.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string { return e.Message }

// Draft is the add-material form as submitted. Exactly one of Text, File,
// and URL must be set.
type Draft struct {
	Title string
	Text  string
	File  *reading.FileRef
	URL   string
}

// Validate checks the draft and returns the content it describes.
func (d Draft) Validate() (reading.MaterialContent, error) {
	if strings.TrimSpace(d.Title) == "" {
		return reading.MaterialContent{}, &FormError{Field: FieldTitle, Message: "Please provide a title."}
	}

	populated := 0
	if strings.TrimSpace(d.Text) != "" {
		populated++
	}
	if d.File != nil {
		populated++
	}
	if strings.TrimSpace(d.URL) != "" {
		populated++
	}
	switch {
	case populated == 0:
		return reading.MaterialContent{}, &FormError{Field: FieldContent, Message: "Please provide content for the selected input type."}
	case populated > 1:
		return reading.MaterialContent{}, &FormError{Field: FieldContent, Message: "Please provide only one kind of content."}
	}

	switch {
	case strings.TrimSpace(d.Text) != "":
		return reading.TextContent(d.Text), nil

	case d.File != nil:
		if len(d.File.Data) == 0 {
			return reading.MaterialContent{}, &FormError{Field: FieldFile, Message: "The selected file is empty."}
		}
		switch strings.ToLower(filepath.Ext(d.File.Name)) {
		case ".pdf":
			return reading.PDFContent(d.File.Name, d.File.Data), nil
		case ".docx":
			return reading.DOCXContent(d.File.Name, d.File.Data), nil
		default:
			return reading.MaterialContent{}, &FormError{Field: FieldFile, Message: "Unsupported file type. Please upload a PDF or DOCX file."}
		}

	default:
		raw := strings.TrimSpace(d.URL)
		if !ValidURL(raw) {
			return reading.MaterialContent{}, &FormError{Field: FieldURL, Message: "Please enter a valid URL."}
		}
		return reading.URLContent(raw), nil
	}
}

// ValidURL reports whether raw is an absolute http or https URL with a host.
func ValidURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// LoadFile reads a document typed into the form. A leading ~ expands to
// the home directory.
func LoadFile(path string) (*reading.FileRef, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &FormError{Field: FieldFile, Message: "Please enter a file path."}
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &FormError{Field: FieldFile, Message: fmt.Sprintf("Cannot open %s.", filepath.Base(path))}
	}
	if info.IsDir() {
		return nil, &FormError{Field: FieldFile, Message: fmt.Sprintf("%s is a directory.", filepath.Base(path))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FormError{Field: FieldFile, Message: fmt.Sprintf("Cannot read %s.", filepath.Base(path))}
	}
	return &reading.FileRef{Name: filepath.Base(path), Data: data}, nil
}

// SizeWarning returns a notice for files above MaxAdvisedFileSize, or "".
func SizeWarning(f *reading.FileRef) string {
	if f == nil || len(f.Data) <= MaxAdvisedFileSize {
		return ""
	}
	return fmt.Sprintf("%s is %d MB; files under 10 MB work best.", f.Name, len(f.Data)>>20)
}
