// Package extract turns reading material into passage text.
package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/reading"
)

// PassageExtractor is implemented by Extractor and by the Cached decorator.
type PassageExtractor interface {
	Extract(ctx context.Context, content reading.MaterialContent) (string, error)
}

// Config controls URL fetching and the extraction request.
type Config struct {
	// MaxTokens is the token budget for the extracted article.
	MaxTokens int

	// FetchTimeout bounds the direct page download used when the provider
	// cannot search the web.
	FetchTimeout time.Duration

	UserAgent string
}

// DefaultConfig returns the recommended extraction settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    4096,
		FetchTimeout: 20 * time.Second,
		UserAgent:    "readiz/1.0 (+reading tutor)",
	}
}

// Extractor reads text, PDF, and DOCX content locally and URLs through
// the LLM provider.
type Extractor struct {
	provider llm.Provider
	client   *http.Client
	config   Config
}

var _ PassageExtractor = (*Extractor)(nil)

// New creates an Extractor. A nil client gets one with cfg.FetchTimeout.
func New(provider llm.Provider, client *http.Client, cfg Config) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	return &Extractor{provider: provider, client: client, config: cfg}
}

// Extract returns the passage text of content. The result is trimmed but
// not length-checked; see CheckPassage.
func (e *Extractor) Extract(ctx context.Context, content reading.MaterialContent) (string, error) {
	start := time.Now()
	text, err := e.extract(ctx, content)

	log := logger.Get().With(
		zap.String("kind", string(content.Kind())),
		zap.Duration("elapsed", time.Since(start)))
	if err != nil {
		log.Warn("extraction failed", zap.Error(err))
		return "", err
	}
	log.Debug("extraction done", zap.Int("text_len", len(text)))
	return text, nil
}

func (e *Extractor) extract(ctx context.Context, content reading.MaterialContent) (string, error) {
	switch content.Kind() {
	case reading.KindText:
		return strings.TrimSpace(content.Text()), nil

	case reading.KindPDF:
		f := content.File()
		if f == nil || len(f.Data) == 0 {
			return "", corrupt(reading.KindPDF, errors.New("empty file"))
		}
		text, err := pdfText(ctx, f.Data)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", corrupt(reading.KindPDF, err)
		}
		return text, nil

	case reading.KindDOCX:
		f := content.File()
		if f == nil || len(f.Data) == 0 {
			return "", corrupt(reading.KindDOCX, errors.New("empty file"))
		}
		text, err := docxText(f.Data)
		if err != nil {
			return "", corrupt(reading.KindDOCX, err)
		}
		return strings.TrimSpace(text), nil

	case reading.KindURL:
		return e.fromURL(ctx, content.URL())

	default:
		return "", fmt.Errorf("extract: unknown content kind %q", content.Kind())
	}
}
