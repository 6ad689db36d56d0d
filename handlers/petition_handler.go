package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"hukuk-asistani/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PetitionHandler handles HTTP requests for petitions
type PetitionHandler struct {
	petitionService *service.PetitionService
	logger          *zap.Logger
}

// NewPetitionHandler creates a new petition handler
func NewPetitionHandler(petitionService *service.PetitionService, logger *zap.Logger) *PetitionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PetitionHandler{petitionService: petitionService, logger: logger}
}

// GeneratePetition handles POST /api/petitions/generate
func (h *PetitionHandler) GeneratePetition(c *gin.Context) {
	var req service.GeneratePetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Eksik bilgi. Dilekçe türü, açıklama, kullanıcı ve alıcı bilgileri gereklidir.", err)
		return
	}

	result, err := h.petitionService.GeneratePetition(c.Request.Context(), req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			respondError(c, http.StatusBadRequest, validationErr.Message, nil)
			return
		}
		h.logger.Error("Petition generation failed", zap.String("type", req.PetitionType), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Dilekçe oluşturma başarısız", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Dilekçe başarıyla oluşturuldu",
		"petition": result.Petition.Summary(),
	})
}

// ListPetitions handles GET /api/petitions
func (h *PetitionHandler) ListPetitions(c *gin.Context) {
	petitions, err := h.petitionService.ListPetitions(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Dilekçeler alınamadı", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"petitions": petitions})
}

// ListTypes handles GET /api/petitions/types/list
func (h *PetitionHandler) ListTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"petitionTypes": service.PetitionTypes})
}

// GetPetition handles GET /api/petitions/:id
func (h *PetitionHandler) GetPetition(c *gin.Context) {
	id, ok := parseID(c, "Dilekçe bulunamadı")
	if !ok {
		return
	}

	petition, err := h.petitionService.GetPetition(c.Request.Context(), id)
	if errors.Is(err, service.ErrPetitionNotFound) {
		respondError(c, http.StatusNotFound, "Dilekçe bulunamadı", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Dilekçe alınamadı", err)
		return
	}
	c.JSON(http.StatusOK, petition)
}

// DownloadPetition handles GET /api/petitions/:id/download
func (h *PetitionHandler) DownloadPetition(c *gin.Context) {
	id, ok := parseID(c, "Dilekçe bulunamadı")
	if !ok {
		return
	}

	petition, reader, err := h.petitionService.OpenPetition(c.Request.Context(), id)
	if errors.Is(err, service.ErrPetitionNotFound) {
		respondError(c, http.StatusNotFound, "Dilekçe bulunamadı", nil)
		return
	}
	if err != nil {
		h.logger.Error("Petition download failed", zap.String("id", id.String()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Dilekçe indirilemedi", err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, "application/pdf", reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=\"%s\"", petition.FileName),
	})
}
