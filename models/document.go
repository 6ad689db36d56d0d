package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType is the coarse kind of an uploaded document
type DocumentType string

const (
	DocumentPDF   DocumentType = "pdf"
	DocumentWord  DocumentType = "word"
	DocumentImage DocumentType = "image"
)

// Document is an uploaded file with its extracted text
type Document struct {
	ID          uuid.UUID    `json:"id"`
	Filename    string       `json:"filename"`
	Type        DocumentType `json:"type"`
	ContentType string       `json:"contentType"`
	Size        int64        `json:"size"`
	Checksum    string       `json:"checksum"`
	StoragePath string       `json:"-"`
	Text        string       `json:"-"`
	Summary     string       `json:"summary"`
	UploadDate  time.Time    `json:"uploadDate"`
}

// DocumentSummary is the listing view of a document
type DocumentSummary struct {
	ID         uuid.UUID    `json:"id"`
	Filename   string       `json:"filename"`
	Type       DocumentType `json:"type"`
	UploadDate time.Time    `json:"uploadDate"`
	Summary    string       `json:"summary"`
}

func (d *Document) Summarize() DocumentSummary {
	return DocumentSummary{
		ID:         d.ID,
		Filename:   d.Filename,
		Type:       d.Type,
		UploadDate: d.UploadDate,
		Summary:    d.Summary,
	}
}
