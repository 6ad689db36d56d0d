package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"hukuk-asistani/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const unsupportedDocumentMessage = "Desteklenmeyen dosya formatı. Lütfen PDF, Word veya resim (JPG/PNG) yükleyin."

// DocumentHandler handles HTTP requests for uploaded documents
type DocumentHandler struct {
	documentService *service.DocumentService
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{documentService: documentService, logger: logger}
}

// Upload handles POST /api/documents/upload with the multipart field "document"
func (h *DocumentHandler) Upload(c *gin.Context) {
	limit := h.documentService.MaxUploadBytes()
	// room for the multipart envelope around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, http.StatusRequestEntityTooLarge, tooLargeMessage(limit), nil)
			return
		}
		respondError(c, http.StatusBadRequest, "Dosya bulunamadı", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Doküman yükleme başarısız", err)
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), service.UploadRequest{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		var extractErr *service.ExtractionError
		switch {
		case errors.Is(err, service.ErrUnsupportedType):
			respondError(c, http.StatusBadRequest, unsupportedDocumentMessage, nil)
		case errors.Is(err, service.ErrFileTooLarge):
			respondError(c, http.StatusRequestEntityTooLarge, tooLargeMessage(limit), nil)
		case errors.As(err, &extractErr):
			h.logger.Error("Document text extraction failed",
				zap.String("filename", fileHeader.Filename),
				zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Doküman yükleme başarısız", nil)
		default:
			h.logger.Error("Document upload failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Doküman yükleme başarısız", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Doküman başarıyla yüklendi",
		"document": doc,
	})
}

// List handles GET /api/documents
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Dokümanlar alınamadı", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Get handles GET /api/documents/:id. The extracted text is never returned.
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "Doküman bulunamadı")
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrDocumentNotFound) {
		respondError(c, http.StatusNotFound, "Doküman bulunamadı", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Doküman alınamadı", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// AskRequest is the body of POST /api/documents/:id/ask
type AskRequest struct {
	Question *string `json:"question"`
}

// Ask handles POST /api/documents/:id/ask
func (h *DocumentHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == nil || strings.TrimSpace(*req.Question) == "" {
		respondError(c, http.StatusBadRequest, "Geçerli bir soru gereklidir", nil)
		return
	}
	id, ok := parseID(c, "Doküman bulunamadı")
	if !ok {
		return
	}

	result, err := h.documentService.Ask(c.Request.Context(), id, *req.Question)
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		respondError(c, http.StatusNotFound, "Doküman bulunamadı", nil)
		return
	case err != nil:
		h.logger.Error("Document question failed", zap.String("id", id.String()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Soru cevaplanamadı", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseID reads the :id parameter. IDs that cannot exist are reported as
// not found.
func parseID(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, notFound, nil)
		return uuid.Nil, false
	}
	return id, true
}

func tooLargeMessage(limit int64) string {
	return fmt.Sprintf("Dosya boyutu %d MB sınırını aşıyor.", limit>>20)
}
