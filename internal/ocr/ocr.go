// Package ocr recovers advisory field values from label photos. The
// results only prefill empty confirmation fields; the operator's input
// always wins, so a missing or wrong extraction costs a few keystrokes
// and nothing else.
package ocr

import "regexp"

// Fields are the values recovered from one label image.
type Fields struct {
	MaterialCode string
	StandardQty  string
	RawText      string
}

// Engine turns an image into text. Implementations wrap an external OCR
// service or binary; a nil engine disables extraction.
type Engine interface {
	Recognize(image []byte) (string, error)
}

var numberPattern = regexp.MustCompile(`\d+`)

// ExtractFields pulls candidate field values out of recognized label
// text. Material codes on the labels are eight digits; the first
// eight-digit token that is not the drum number itself is taken as the
// material code, and the first remaining numeric token as the standard
// quantity.
func ExtractFields(text, drumNumber string) Fields {
	f := Fields{RawText: text}
	for _, token := range numberPattern.FindAllString(text, -1) {
		if token == drumNumber {
			continue
		}
		if len(token) == 8 && f.MaterialCode == "" {
			f.MaterialCode = token
			continue
		}
		if len(token) != 8 && f.StandardQty == "" {
			f.StandardQty = token
		}
	}
	return f
}

// Recognize runs the engine and extracts fields from its output. A nil
// engine or a recognition failure yields empty fields, never an error:
// extraction is advisory.
func Recognize(engine Engine, image []byte, drumNumber string) Fields {
	if engine == nil {
		return Fields{}
	}
	text, err := engine.Recognize(image)
	if err != nil {
		return Fields{}
	}
	return ExtractFields(text, drumNumber)
}
