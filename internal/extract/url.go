package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/logger"
)

// FailedSentinel is what the model answers when a page has no article.
const FailedSentinel = "ERROR::EXTRACT_FAILED"

// maxPageBytes bounds how much of a fetched page is read.
const maxPageBytes = 4 << 20

// maxPageText bounds how much stripped page text goes into the prompt.
const maxPageText = 60000

const urlSystemPrompt = `You extract the main article from web pages for a reading tutor.

RULES:
- Return ONLY the body text of the main article, as plain paragraphs separated by blank lines.
- Drop navigation, menus, ads, cookie banners, comments, related links, captions, and footers.
- Do not summarize, translate, or add commentary. Keep the author's wording.
- If the page has no article body of at least 100 words, is behind a paywall or login, or is only navigation or ads, reply with exactly ` + FailedSentinel + ` and nothing else.`

func buildURLSearchMessage(url string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fetch this page and return its main article text:\n%s\n", url)
	fmt.Fprintf(&b, "\nIf you cannot retrieve it, reply with %s.", FailedSentinel)
	return b.String()
}

func buildPageCleanupMessage(url, page string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page URL: %s\n\n", url)
	b.WriteString("Visible text of the page:\n")
	b.WriteString("<page>\n")
	b.WriteString(page)
	b.WriteString("\n</page>\n")
	fmt.Fprintf(&b, "\nReturn only the main article text, or %s.", FailedSentinel)
	return b.String()
}

// fromURL asks the model for the article at url. Providers with web search
// fetch it themselves; for the rest the page is downloaded and reduced to
// visible text first.
func (e *Extractor) fromURL(ctx context.Context, url string) (string, error) {
	ctx = llm.WithPurpose(ctx, "extract-url")

	req := llm.Request{
		System:      urlSystemPrompt,
		MaxTokens:   e.config.MaxTokens,
		Temperature: 0,
	}

	if llm.SupportsWebSearch(e.provider) {
		req.WebSearch = true
		req.Messages = llm.UserMessage(buildURLSearchMessage(url))
	} else {
		page, err := e.fetchPage(ctx, url)
		if err != nil {
			return "", urlUnreadable(err)
		}
		if len(page) > maxPageText {
			page = strings.ToValidUTF8(page[:maxPageText], "")
		}
		req.Messages = llm.UserMessage(buildPageCleanupMessage(url, page))
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return "", urlUnreadable(fmt.Errorf("LLM extraction failed: %w", err))
	}

	text := strings.TrimSpace(resp.Text())
	if isFailedSentinel(text) {
		return "", urlUnreadable(errors.New("model reported no readable article"))
	}
	return text, nil
}

func isFailedSentinel(text string) bool {
	text = strings.Trim(strings.TrimSpace(text), "`\"'.")
	return text == FailedSentinel
}

// fetchPage downloads url and returns its visible text.
func (e *Extractor) fetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxPageBytes)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		b, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("read page: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	text, err := visibleText(body)
	if err != nil {
		return "", err
	}
	logger.Get().Debug("fetched page",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("text_len", len(text)))
	return text, nil
}

// skipElements never contain article text.
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"svg": true, "head": true, "nav": true, "footer": true,
	"iframe": true, "form": true, "button": true,
}

// blockElements end a line of text.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "section": true,
	"article": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "blockquote": true, "tr": true, "pre": true,
}

// visibleText parses HTML and returns its rendered text, one block per
// line with blank lines collapsed.
func visibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if s := collapseWhitespace(n.Data); s != "" {
				b.WriteString(s)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
