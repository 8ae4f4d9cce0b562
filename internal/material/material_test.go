package material

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/readiz/internal/reading"
)

func TestDraftValidate(t *testing.T) {
	pdf := &reading.FileRef{Name: "Reefs.PDF", Data: []byte("%PDF-1.4")}
	docx := &reading.FileRef{Name: "essay.docx", Data: []byte("PK")}

	tests := []struct {
		name      string
		draft     Draft
		wantKind  reading.ContentKind
		wantField string
	}{
		{"text", Draft{Title: "Reefs", Text: "Coral reefs are alive."}, reading.KindText, ""},
		{"pdf upper-case extension", Draft{Title: "Reefs", File: pdf}, reading.KindPDF, ""},
		{"docx", Draft{Title: "Essay", File: docx}, reading.KindDOCX, ""},
		{"url", Draft{Title: "Web", URL: " https://example.com/x "}, reading.KindURL, ""},

		{"missing title", Draft{Title: "  ", Text: "body"}, "", FieldTitle},
		{"no content", Draft{Title: "Reefs", Text: "   "}, "", FieldContent},
		{"two variants", Draft{Title: "Reefs", Text: "body", URL: "https://example.com"}, "", FieldContent},
		{"unsupported file", Draft{Title: "Notes", File: &reading.FileRef{Name: "notes.txt", Data: []byte("x")}}, "", FieldFile},
		{"empty file", Draft{Title: "Notes", File: &reading.FileRef{Name: "notes.pdf"}}, "", FieldFile},
		{"url without scheme", Draft{Title: "Web", URL: "example.com/x"}, "", FieldURL},
		{"url with other scheme", Draft{Title: "Web", URL: "ftp://example.com/x"}, "", FieldURL},
		{"url gibberish", Draft{Title: "Web", URL: "not a url"}, "", FieldURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := tt.draft.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantKind, content.Kind())
				assert.False(t, content.IsEmpty())
				return
			}
			var ferr *FormError
			require.True(t, errors.As(err, &ferr), "got %v", err)
			assert.Equal(t, tt.wantField, ferr.Field)
			assert.NotEmpty(t, ferr.Message)
		})
	}
}

func TestDraftValidate_Messages(t *testing.T) {
	_, err := Draft{Text: "body"}.Validate()
	assert.EqualError(t, err, "Please provide a title.")

	_, err = Draft{Title: "t", URL: "nope"}.Validate()
	assert.EqualError(t, err, "Please enter a valid URL.")

	_, err = Draft{Title: "t", File: &reading.FileRef{Name: "a.odt", Data: []byte("x")}}.Validate()
	assert.EqualError(t, err, "Unsupported file type. Please upload a PDF or DOCX file.")
}

func TestValidURL(t *testing.T) {
	assert.True(t, ValidURL("https://example.com/x"))
	assert.True(t, ValidURL("http://localhost:8080/a?b=c"))
	assert.False(t, ValidURL("https://"))
	assert.False(t, ValidURL("/relative/path"))
	assert.False(t, ValidURL(""))
}

func TestRepository_Add(t *testing.T) {
	repo := NewRepository(Sample())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	m, err := repo.Add(Draft{Title: "  Reefs ", Text: "Coral reefs are alive."})
	require.NoError(t, err)
	assert.Equal(t, "Reefs", m.Title)
	assert.Equal(t, fixed, m.CreatedAt)
	assert.Len(t, m.ID, 36)
	assert.Equal(t, reading.KindText, m.Content.Kind())

	list := repo.List()
	require.Len(t, list, 2)
	assert.Equal(t, SampleID, list[0].ID)
	assert.Equal(t, m.ID, list[1].ID)

	got, ok := repo.Get(m.ID)
	require.True(t, ok)
	assert.Equal(t, m, got)
}

func TestRepository_AddInvalidLeavesListUnchanged(t *testing.T) {
	repo := NewRepository(Sample())
	_, err := repo.Add(Draft{Title: "No content"})
	require.Error(t, err)
	assert.Equal(t, 1, repo.Len())
}

func TestRepository_ListIsACopy(t *testing.T) {
	repo := NewRepository(Sample())
	list := repo.List()
	list[0].Title = "changed"
	got, _ := repo.Get(SampleID)
	assert.Equal(t, Sample().Title, got.Title)
}

func TestRepository_GetUnknown(t *testing.T) {
	_, ok := NewRepository().Get("missing")
	assert.False(t, ok)
}

func TestRepository_ConcurrentAdds(t *testing.T) {
	repo := NewRepository()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Add(Draft{Title: fmt.Sprintf("m%d", i), Text: "body text"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ids := map[string]bool{}
	for _, m := range repo.List() {
		ids[m.ID] = true
	}
	assert.Len(t, ids, 20)
}

func TestSample(t *testing.T) {
	s := Sample()
	assert.Equal(t, reading.KindText, s.Content.Kind())
	assert.Greater(t, len(s.Content.Text()), 50)
	assert.Len(t, reading.SessionData{Passage: s.Content.Text()}.Paragraphs(), 4)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reefs.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	f, err := LoadFile("  " + path + " ")
	require.NoError(t, err)
	assert.Equal(t, "reefs.pdf", f.Name)
	assert.Equal(t, []byte("%PDF-1.4"), f.Data)

	for _, bad := range []string{"", filepath.Join(dir, "missing.pdf"), dir} {
		_, err := LoadFile(bad)
		var ferr *FormError
		require.True(t, errors.As(err, &ferr), "path %q", bad)
		assert.Equal(t, FieldFile, ferr.Field)
	}
}

func TestSizeWarning(t *testing.T) {
	assert.Empty(t, SizeWarning(nil))
	assert.Empty(t, SizeWarning(&reading.FileRef{Name: "a.pdf", Data: make([]byte, 1024)}))
	assert.Contains(t, SizeWarning(&reading.FileRef{Name: "big.pdf", Data: make([]byte, MaxAdvisedFileSize+1)}), "big.pdf")
}
