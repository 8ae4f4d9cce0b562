package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfText returns the text of every page, pages separated by a blank line.
// Text runs on a page are joined with a space and whitespace collapses to
// single spaces.
func pdfText(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	n := r.NumPage()
	if n == 0 {
		return "", errors.New("pdf has no pages")
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		if s := collapseWhitespace(strings.Join(pageRuns(p), " ")); s != "" {
			pages = append(pages, s)
		}
	}
	return strings.TrimSpace(strings.Join(pages, "\n\n")), nil
}

// pageRuns returns the decoded text of each show-text operation on p, in
// content-stream order. The pieces of one TJ array form a single run.
func pageRuns(p pdf.Page) []string {
	encoders := map[string]pdf.TextEncoding{}
	for _, name := range p.Fonts() {
		encoders[name] = p.Font(name).Encoder()
	}

	var runs []string
	var enc pdf.TextEncoding
	decode := func(raw string) string {
		if enc == nil {
			return raw
		}
		return enc.Decode(raw)
	}

	interpret := func(strm pdf.Value) {
		pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
			args := make([]pdf.Value, stk.Len())
			for i := len(args) - 1; i >= 0; i-- {
				args[i] = stk.Pop()
			}

			switch op {
			case "Tf":
				if len(args) == 2 {
					enc = encoders[args[0].Name()]
				}
			case "Tj", "'":
				if len(args) == 1 {
					runs = append(runs, decode(args[0].RawString()))
				}
			case "\"":
				if len(args) == 3 {
					runs = append(runs, decode(args[2].RawString()))
				}
			case "TJ":
				if len(args) != 1 {
					return
				}
				var b strings.Builder
				for j := 0; j < args[0].Len(); j++ {
					if x := args[0].Index(j); x.Kind() == pdf.String {
						b.WriteString(decode(x.RawString()))
					}
				}
				runs = append(runs, b.String())
			}
		})
	}

	contents := p.V.Key("Contents")
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			interpret(contents.Index(i))
		}
	} else {
		interpret(contents)
	}
	return runs
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
