package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"hukuk-asistani/models"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// TextExtractor pulls plain text out of an uploaded file
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractionError wraps any failure to read text from a document
type ExtractionError struct {
	Type models.DocumentType
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s text extraction failed: %v", e.Type, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PDFExtractor reads the text layer of a PDF
type PDFExtractor struct{}

func (PDFExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from PDF: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted text: %w", err)
	}
	return string(out), nil
}

// WordExtractor reads the paragraphs and tables of an OOXML (.docx)
// document. Legacy binary .doc files are not zip archives and fail here.
type WordExtractor struct{}

func (WordExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed OOXML document: %v", r)
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not an OOXML document: %w", err)
	}
	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			lines = append(lines, it.String())
		case *docx.Table:
			lines = append(lines, tableLines(it)...)
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n"), nil
}

// tableLines renders each row as its cells' text joined by tabs.
func tableLines(t *docx.Table) []string {
	lines := make([]string, 0, len(t.TableRows))
	for _, row := range t.TableRows {
		cells := make([]string, 0, len(row.TableCells))
		for _, cell := range row.TableCells {
			paras := make([]string, 0, len(cell.Paragraphs))
			for _, p := range cell.Paragraphs {
				paras = append(paras, p.String())
			}
			cells = append(cells, strings.Join(paras, " "))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return lines
}

// ImageExtractor transcribes images through the model
type ImageExtractor struct {
	recognizer ImageRecognizer
	format     string
}

func NewImageExtractor(recognizer ImageRecognizer, format string) *ImageExtractor {
	return &ImageExtractor{recognizer: recognizer, format: format}
}

func (e *ImageExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if e.recognizer == nil {
		return "", errors.New("no image recognizer configured")
	}
	return e.recognizer.RecognizeText(ctx, e.format, data)
}

// Accepted upload content types
const (
	MimePDF  = "application/pdf"
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

type documentKind struct {
	docType   models.DocumentType
	extractor TextExtractor
}

// defaultExtractors maps every accepted content type to its extractor
func defaultExtractors(recognizer ImageRecognizer) map[string]documentKind {
	return map[string]documentKind{
		MimePDF:  {models.DocumentPDF, PDFExtractor{}},
		MimeDoc:  {models.DocumentWord, WordExtractor{}},
		MimeDocx: {models.DocumentWord, WordExtractor{}},
		MimeJPEG: {models.DocumentImage, NewImageExtractor(recognizer, "jpeg")},
		MimePNG:  {models.DocumentImage, NewImageExtractor(recognizer, "png")},
	}
}
