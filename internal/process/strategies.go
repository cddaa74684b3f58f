package process

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Kind tags how an object was classified.
type Kind string

const (
	TextExtraction       Kind = "text_extraction"
	PDFAnalysis          Kind = "pdf_analysis"
	RTFAnalysis          Kind = "rtf_analysis"
	SpreadsheetAnalysis  Kind = "spreadsheet_analysis"
	PresentationAnalysis Kind = "presentation_analysis"
	DocumentAnalysis     Kind = "document_analysis"
	UnknownFormat        Kind = "unknown_format"
	ProcessingError      Kind = "processing_error"
)

// Extraction is the outcome of running a strategy over an object's bytes.
type Extraction struct {
	Kind      Kind
	Text      string
	WordCount int
	PageCount *int
}

type strategy func(data []byte, key string) Extraction

var strategies = map[string]strategy{
	"text/plain":      extractText,
	"text/markdown":   extractText,
	"text/x-markdown": extractText,
	"text/csv":        extractText,

	"application/pdf": analyzePDF,
	"application/rtf": extractRTF,

	"application/vnd.ms-excel": placeholder(SpreadsheetAnalysis, "Excel file detected"),
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": placeholder(SpreadsheetAnalysis, "Excel file detected"),

	"application/vnd.ms-powerpoint":                                             placeholder(PresentationAnalysis, "PowerPoint file detected"),
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": placeholder(PresentationAnalysis, "PowerPoint file detected"),

	"application/msword": placeholder(DocumentAnalysis, "Word document detected"),
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": placeholder(DocumentAnalysis, "Word document detected"),
}

// rtfControl matches control words like \par or \fs24 with one optional trailing space.
var rtfControl = regexp.MustCompile(`(?i)\\[a-z]+\d*\s?`)

// Classify runs the strategy registered for contentType. A strategy that
// panics is reported as ProcessingError instead of failing the record.
func Classify(data []byte, contentType, key string) (ext Extraction) {
	defer func() {
		if r := recover(); r != nil {
			ext = Extraction{Kind: ProcessingError, Text: fmt.Sprintf("Error processing file: %v", r)}
		}
	}()
	s, ok := strategies[contentType]
	if !ok {
		return Extraction{Kind: UnknownFormat, Text: "Unknown file format: " + contentType}
	}
	return s(data, key)
}

// WordCount counts whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

func extractText(data []byte, _ string) Extraction {
	text := string(data)
	return Extraction{Kind: TextExtraction, Text: text, WordCount: WordCount(text)}
}

// extractRTF is a best-effort strip of control words and group braces.
func extractRTF(data []byte, _ string) Extraction {
	text := rtfControl.ReplaceAllString(string(data), "")
	text = strings.NewReplacer("{", "", "}", "").Replace(text)
	return Extraction{Kind: RTFAnalysis, Text: text, WordCount: WordCount(text)}
}

func analyzePDF(data []byte, key string) Extraction {
	ext := Extraction{Kind: PDFAnalysis, Text: "PDF file detected: " + key}
	if n, ok := pageCount(data); ok {
		ext.PageCount = &n
	}
	return ext
}

// pageCount opens data as a PDF. Malformed files report ok=false.
func pageCount(data []byte) (n int, ok bool) {
	defer func() {
		if recover() != nil {
			n, ok = 0, false
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, false
	}
	return r.NumPage(), true
}

func placeholder(kind Kind, label string) strategy {
	return func(_ []byte, key string) Extraction {
		return Extraction{Kind: kind, Text: label + ": " + key}
	}
}
