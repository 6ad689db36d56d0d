package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"strings"
	"unicode/utf8"

	"hukuk-asistani/metrics"
	"hukuk-asistani/models"
	"hukuk-asistani/repository"
	"hukuk-asistani/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrUnsupportedType  = errors.New("unsupported document type")
	ErrFileTooLarge     = errors.New("document exceeds upload limit")
	ErrDocumentNotFound = errors.New("document not found")
	ErrEmptyQuestion    = errors.New("question is empty")
)

const (
	// DefaultMaxUploadBytes is the upload limit when none is configured
	DefaultMaxUploadBytes = 10 << 20

	documentContextRunes = 15000
	wordsPerPage         = 200
)

const askRules = `### YANITLAMA KURALLARI:
1. Yanıtını YALNIZCA belgedeki bilgilere dayandır.
2. Belgeyle ilgili olmayan bilgiler ekleme.
3. Belgenin içeriğinde yanıt yoksa, bunu açıkça belirt.
4. Tam referanslar ve alıntılar kullan.
5. Yasal terimler varsa bunları açıkla.`

// DocumentService stores uploads, extracts their text and answers questions
// grounded on them
type DocumentService struct {
	repo       repository.DocumentRepository
	store      storage.Storage
	model      LanguageModel
	extractors map[string]documentKind
	maxBytes   int64
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// DocumentServiceOption is a functional option for DocumentService
type DocumentServiceOption func(*DocumentService)

func WithMaxUploadBytes(n int64) DocumentServiceOption {
	return func(s *DocumentService) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithImageRecognizer enables OCR for image uploads
func WithImageRecognizer(r ImageRecognizer) DocumentServiceOption {
	return func(s *DocumentService) {
		s.extractors[MimeJPEG] = documentKind{docType: models.DocumentImage, extractor: NewImageExtractor(r, "jpeg")}
		s.extractors[MimePNG] = documentKind{docType: models.DocumentImage, extractor: NewImageExtractor(r, "png")}
	}
}

// WithExtractor overrides the extractor of one content type
func WithExtractor(contentType string, docType models.DocumentType, e TextExtractor) DocumentServiceOption {
	return func(s *DocumentService) {
		s.extractors[contentType] = documentKind{docType: docType, extractor: e}
	}
}

func WithDocumentLogger(logger *zap.Logger) DocumentServiceOption {
	return func(s *DocumentService) {
		s.logger = logger
	}
}

func WithDocumentMetrics(m *metrics.Metrics) DocumentServiceOption {
	return func(s *DocumentService) {
		s.metrics = m
	}
}

func NewDocumentService(repo repository.DocumentRepository, store storage.Storage, model LanguageModel, opts ...DocumentServiceOption) *DocumentService {
	s := &DocumentService{
		repo:       repo,
		store:      store,
		model:      model,
		extractors: defaultExtractors(nil),
		maxBytes:   DefaultMaxUploadBytes,
		logger:     zap.NewNop(),
		metrics:    metrics.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxUploadBytes is the configured upload limit
func (s *DocumentService) MaxUploadBytes() int64 {
	return s.maxBytes
}

// UploadRequest is one uploaded file. Size is the declared size, -1 if unknown.
type UploadRequest struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload validates, extracts, stores and records a document. The content type
// and declared size are checked before the body is read.
func (s *DocumentService) Upload(ctx context.Context, req UploadRequest) (*models.Document, error) {
	mediaType := mediaTypeOf(req.ContentType)
	kind, ok := s.extractors[mediaType]
	if !ok {
		s.metrics.Uploads.WithLabelValues("other", "rejected").Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, req.ContentType)
	}
	if req.Size > s.maxBytes {
		s.metrics.Uploads.WithLabelValues(mediaType, "rejected").Inc()
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		s.metrics.Uploads.WithLabelValues(mediaType, "rejected").Inc()
		return nil, ErrFileTooLarge
	}

	text, err := kind.extractor.Extract(ctx, data)
	if err != nil {
		s.metrics.Uploads.WithLabelValues(mediaType, "failed").Inc()
		return nil, &ExtractionError{Type: kind.docType, Err: err}
	}

	sum := blake2b.Sum256(data)
	doc := &models.Document{
		ID:          uuid.New(),
		Filename:    req.Filename,
		Type:        kind.docType,
		ContentType: mediaType,
		Size:        int64(len(data)),
		Checksum:    hex.EncodeToString(sum[:]),
		Text:        text,
		Summary:     SummarizeDocument(text),
	}

	doc.StoragePath, err = s.store.Put(ctx, storage.Object{
		ID:          doc.ID,
		Name:        req.Filename,
		Namespace:   storage.NamespaceDocuments,
		ContentType: mediaType,
	}, bytes.NewReader(data))
	if err != nil {
		s.metrics.Uploads.WithLabelValues(mediaType, "failed").Inc()
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.metrics.Uploads.WithLabelValues(mediaType, "failed").Inc()
		if delErr := s.store.Delete(ctx, doc.StoragePath); delErr != nil {
			s.logger.Warn("Failed to remove orphaned upload", zap.String("path", doc.StoragePath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	s.metrics.Uploads.WithLabelValues(mediaType, "ok").Inc()
	s.logger.Info("Document uploaded",
		zap.String("id", doc.ID.String()),
		zap.String("type", string(doc.Type)),
		zap.Int64("size", doc.Size))
	return doc, nil
}

// Get returns a stored document
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	return doc, err
}

// List returns every document in upload order
func (s *DocumentService) List(ctx context.Context) ([]models.DocumentSummary, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Summarize())
	}
	return out, nil
}

// AskResult is the answer to a question about a document
type AskResult struct {
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	DocumentID   uuid.UUID `json:"documentId"`
	DocumentName string    `json:"documentName"`
}

// Ask answers question from the document's own text
func (s *DocumentService) Ask(ctx context.Context, id uuid.UUID, question string) (*AskResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	answer, err := s.model.GenerateText(ctx, ChatOptions, DocumentPrompt(doc.Text, question))
	if err != nil {
		return nil, fmt.Errorf("failed to answer document question: %w", err)
	}
	return &AskResult{
		Question:     question,
		Answer:       answer,
		DocumentID:   doc.ID,
		DocumentName: doc.Filename,
	}, nil
}

// DocumentPrompt grounds question on the first part of text
func DocumentPrompt(text, question string) string {
	return "Aşağıdaki belge içeriğine dayanarak soruyu yanıtla:\n\n" +
		"### BELGE İÇERİĞİ:\n" + headRunes(text, documentContextRunes) + "\n\n" +
		"### SORU:\n" + question + "\n\n" +
		askRules + "\n"
}

// SummarizeDocument describes the size of text. Texts longer than the
// context window are measured after truncation with a trailing "...".
func SummarizeDocument(text string) string {
	if utf8.RuneCountInString(text) > documentContextRunes {
		text = headRunes(text, documentContextRunes) + "..."
	}
	chars := utf8.RuneCountInString(text)
	words := len(strings.Split(text, " "))
	pages := int(math.Ceil(float64(words) / wordsPerPage))
	return fmt.Sprintf("Bu belge %d karakter uzunluğunda ve yaklaşık %d sayfa uzunluğundadır.", chars, pages)
}

func headRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func mediaTypeOf(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
