package viva

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Source string

const (
	SourceNone Source = "none"
	SourceText Source = "text"
	SourceFile Source = "file"
)

// Content is the study material resolved from a request.
type Content struct {
	Text   string
	Source Source
}

// HasContent reports whether there is anything to build questions from.
// Blank text and blank files count as no content.
func (c Content) HasContent() bool {
	return strings.TrimSpace(c.Text) != ""
}

// ResolveContent applies the input precedence: an uploaded file wins over the
// text field. file is nil when no file was sent.
func ResolveContent(text string, file []byte) (Content, error) {
	if file != nil {
		decoded, err := DecodeUpload(file)
		if err != nil {
			return Content{}, err
		}
		return Content{Text: decoded, Source: SourceFile}, nil
	}
	if text == "" {
		return Content{Source: SourceNone}, nil
	}
	return Content{Text: text, Source: SourceText}, nil
}

// DecodeUpload returns data as a string if it is valid UTF-8.
func DecodeUpload(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return "", fmt.Errorf("%w: invalid byte 0x%02x at offset %d", ErrInvalidEncoding, data[i], i)
		}
		i += size
	}
	return "", ErrInvalidEncoding
}
