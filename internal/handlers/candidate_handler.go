package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/votacion-api/internal/config"
	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/logger"
	"github.com/gravadigital/votacion-api/internal/media"
)

type CandidateHandler struct {
	baseHandler
	registry *candidate.Registry
	images   media.ImageStore
	config   *config.Config
}

func NewCandidateHandler(registry *candidate.Registry, images media.ImageStore, cfg *config.Config) *CandidateHandler {
	return &CandidateHandler{
		baseHandler: baseHandler{log: logger.Handler("candidate_handler")},
		registry:    registry,
		images:      images,
		config:      cfg,
	}
}

// ListCandidates handles GET /api/candidatos
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	candidates, err := h.registry.List(c.Request.Context())
	if err != nil {
		h.errorResponse(c, "Failed to list candidates", err)
		return
	}
	h.successResponse(c, http.StatusOK, candidates, "Candidatos obtenidos")
}

// GetCandidate handles GET /api/candidatos/:id
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	id := c.Param("id")
	cand, err := h.registry.Get(c.Request.Context(), id)
	if err != nil {
		h.errorResponse(c, "Failed to get candidate", err, "candidate_id", id)
		return
	}
	h.successResponse(c, http.StatusOK, cand, "Candidato obtenido")
}

// CreateCandidate handles POST /api/candidatos
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req candidate.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, "Invalid candidate payload", bindError(err))
		return
	}

	cand, err := h.registry.Create(c.Request.Context(), req)
	if err != nil {
		h.errorResponse(c, "Failed to create candidate", err, "numero", req.Number)
		return
	}
	h.fieldsResponse(c, http.StatusCreated, gin.H{"candidato_id": cand.ID, "candidato": cand}, "Candidato creado exitosamente")
}

// UpdateCandidate handles PUT /api/candidatos/:id. Only the fields present
// in the body are changed; votos is never taken from the client. A body with
// no known field only refreshes updated_at.
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	id := c.Param("id")

	var patch candidate.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.errorResponse(c, "Invalid candidate payload", bindError(err))
		return
	}

	cand, err := h.registry.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.errorResponse(c, "Failed to update candidate", err, "candidate_id", id)
		return
	}
	h.fieldsResponse(c, http.StatusOK, gin.H{"candidato": cand}, "Candidato actualizado exitosamente")
}

// DeleteCandidate handles DELETE /api/candidatos/:id
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	id := c.Param("id")
	if err := h.registry.Delete(c.Request.Context(), id); err != nil {
		h.errorResponse(c, "Failed to delete candidate", err, "candidate_id", id)
		return
	}
	h.fieldsResponse(c, http.StatusOK, gin.H{"candidato_id": id}, "Candidato eliminado exitosamente")
}

// GetTally handles GET /api/candidatos/resultados/conteo
func (h *CandidateHandler) GetTally(c *gin.Context) {
	tally, err := h.registry.Tally(c.Request.Context())
	if err != nil {
		h.errorResponse(c, "Failed to compute tally", err)
		return
	}
	h.successResponse(c, http.StatusOK, gin.H{"candidatos": tally}, "Conteo de votos")
}

// GetStatistics handles GET /api/candidatos/resultados/estadisticas
func (h *CandidateHandler) GetStatistics(c *gin.Context) {
	stats, err := h.registry.Statistics(c.Request.Context())
	if err != nil {
		h.errorResponse(c, "Failed to compute statistics", err)
		return
	}
	h.successResponse(c, http.StatusOK, stats, "Estadisticas de la eleccion")
}

// UploadImage handles POST /api/candidatos/:id/imagen (multipart field "imagen", or "file")
func (h *CandidateHandler) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.registry.Get(ctx, id); err != nil {
		h.errorResponse(c, "Candidate not found for image upload", err, "candidate_id", id)
		return
	}

	file, header, err := c.Request.FormFile("imagen")
	if err != nil {
		file, header, err = c.Request.FormFile("file")
	}
	if err != nil {
		h.errorResponse(c, "No image provided", common.NewValidationError("imagen", "a file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, err := media.ValidateImage(contentType, header.Size, h.config.Upload.MaxFileSize)
	if err != nil {
		h.errorResponse(c, "Image rejected", err, "content_type", contentType, "size", header.Size)
		return
	}

	name := media.ObjectName(id, ext, time.Now())
	url, err := h.images.Save(ctx, name, file, header.Size, contentType)
	if err != nil {
		h.errorResponse(c, "Failed to store image", common.StoreError("store image", err), "candidate_id", id)
		return
	}

	cand, err := h.registry.SetImage(ctx, id, url)
	if err != nil {
		if rmErr := h.images.Remove(ctx, name); rmErr != nil {
			h.log.Warn("Failed to remove orphan image", "name", name, "error", rmErr)
		}
		h.errorResponse(c, "Failed to save image url", err, "candidate_id", id)
		return
	}

	h.fieldsResponse(c, http.StatusOK, gin.H{"imagen": cand.Image, "candidato": cand}, "Imagen actualizada exitosamente")
}
