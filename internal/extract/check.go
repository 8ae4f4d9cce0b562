package extract

import (
	"fmt"
	"strings"

	"github.com/abhisek/readiz/internal/reading"
)

// MinPassageLength is the fewest trimmed characters a passage may have.
const MinPassageLength = 50

// CheckPassage trims text and rejects it when shorter than
// MinPassageLength. Short URL extractions report KindURLUnreadable and
// short documents KindCorruptOrUnreadable.
func CheckPassage(source reading.ContentKind, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) >= MinPassageLength {
		return trimmed, nil
	}

	short := fmt.Errorf("%d characters, need %d", len([]rune(trimmed)), MinPassageLength)
	switch source {
	case reading.KindURL:
		return "", urlUnreadable(short)
	case reading.KindPDF, reading.KindDOCX:
		return "", corrupt(source, short)
	default:
		return "", &Error{Kind: KindTextTooShort, Source: source, Err: short}
	}
}
