package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups everything the router serves
type Handlers struct {
	Chat      *ChatHandler
	Documents *DocumentHandler
	Petitions *PetitionHandler
}

// NewRouter builds the gin engine with health, metrics and /api routes.
// gatherer may be nil to leave /metrics out.
func NewRouter(h Handlers, logger *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Hukuki Asistan API çalışıyor",
		})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.POST("/chat", h.Chat.Chat)
		api.GET("/legal-reference/:reference", h.Chat.LegalReference)

		api.POST("/documents/upload", h.Documents.Upload)
		api.GET("/documents", h.Documents.List)
		api.GET("/documents/:id", h.Documents.Get)
		api.POST("/documents/:id/ask", h.Documents.Ask)

		api.POST("/petitions/generate", h.Petitions.GeneratePetition)
		api.GET("/petitions", h.Petitions.ListPetitions)
		api.GET("/petitions/types/list", h.Petitions.ListTypes)
		api.GET("/petitions/:id", h.Petitions.GetPetition)
		api.GET("/petitions/:id/download", h.Petitions.DownloadPetition)
	}
	return r
}
