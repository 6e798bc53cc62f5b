package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/logger"
	"github.com/gravadigital/votacion-api/internal/services"
)

type VoteHandler struct {
	baseHandler
	election *services.ElectionService
}

func NewVoteHandler(election *services.ElectionService) *VoteHandler {
	return &VoteHandler{
		baseHandler: baseHandler{log: logger.Handler("vote_handler")},
		election:    election,
	}
}

type CastVoteRequest struct {
	UserID      string   `json:"userId" binding:"required"`
	CandidateID string   `json:"candidatoId" binding:"required"`
	Email       string   `json:"correo" binding:"required"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// CastVote handles POST /api/votos
func (h *VoteHandler) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, "Invalid vote payload", bindError(err))
		return
	}

	v, err := h.election.CastVote(c.Request.Context(), vote.CastRequest{
		UserID:      req.UserID,
		CandidateID: req.CandidateID,
		Email:       req.Email,
		IPAddress:   c.ClientIP(),
		Lat:         req.Lat,
		Lng:         req.Lng,
	})
	if err != nil {
		h.errorResponse(c, "Vote rejected", err, "user_id", req.UserID, "candidate_id", req.CandidateID)
		return
	}

	h.fieldsResponse(c, http.StatusOK, gin.H{
		"candidatoId": v.CandidateID,
		"voto_id":     v.ID,
		"fecha":       v.CastAt.Format(time.RFC3339),
	}, "Voto registrado exitosamente")
}

// CheckUser handles GET /api/votos/verificar/:user_id
func (h *VoteHandler) CheckUser(c *gin.Context) {
	userID := c.Param("user_id")
	voted, err := h.election.HasVoted(c.Request.Context(), userID, vote.FieldUserID)
	if err != nil {
		h.errorResponse(c, "Failed to check voter", err, "user_id", userID)
		return
	}
	h.fieldsResponse(c, http.StatusOK, gin.H{"yaVoto": voted, "userId": userID}, "Verificacion de votante")
}

// CheckEmailUsed handles GET /api/votos/verificar-correo/:correo
func (h *VoteHandler) CheckEmailUsed(c *gin.Context) {
	email := c.Param("correo")
	voted, err := h.election.HasVoted(c.Request.Context(), email, vote.FieldEmail)
	if err != nil {
		h.errorResponse(c, "Failed to check email", err)
		return
	}
	h.fieldsResponse(c, http.StatusOK, gin.H{"yaVoto": voted, "correo": email}, "Verificacion de correo")
}

// CheckLocation handles GET /api/votos/verificar-ubicacion?lat=&lng=
func (h *VoteHandler) CheckLocation(c *gin.Context) {
	lat, lng, ok, err := parseCoordinates(c)
	if err == nil && !ok {
		err = common.NewValidationError("lat", "lat and lng query parameters are required")
	}
	if err != nil {
		h.errorResponse(c, "Invalid coordinates", err)
		return
	}

	result, err := h.election.CheckLocation(*lat, *lng)
	if err != nil {
		h.errorResponse(c, "Invalid coordinates", err)
		return
	}
	h.successResponse(c, http.StatusOK, result, "Verificacion de ubicacion")
}

// ValidateEmail handles GET /api/votos/validar-correo/:correo
func (h *VoteHandler) ValidateEmail(c *gin.Context) {
	h.successResponse(c, http.StatusOK, h.election.CheckEmail(c.Param("correo")), "Validacion de correo institucional")
}

// CanVote handles GET /api/votos/puede-votar?correo=&lat=&lng=
func (h *VoteHandler) CanVote(c *gin.Context) {
	lat, lng, _, err := parseCoordinates(c)
	if err != nil {
		h.errorResponse(c, "Invalid coordinates", err)
		return
	}

	result, err := h.election.CanVote(c.Request.Context(), c.Query("correo"), lat, lng)
	if err != nil {
		h.errorResponse(c, "Failed to check eligibility", err)
		return
	}
	h.successResponse(c, http.StatusOK, result, result.Reason)
}

// VotesForCandidate handles GET /api/votos/candidato/:id
func (h *VoteHandler) VotesForCandidate(c *gin.Context) {
	id := c.Param("id")
	votes, err := h.election.VotesFor(c.Request.Context(), id)
	if err != nil {
		h.errorResponse(c, "Failed to read candidate counter", err, "candidate_id", id)
		return
	}
	h.fieldsResponse(c, http.StatusOK, gin.H{"candidatoId": id, "votos": votes}, "Votos del candidato")
}

// ResetElection handles POST /api/votos/reiniciar
func (h *VoteHandler) ResetElection(c *gin.Context) {
	deleted, err := h.election.ResetElection(c.Request.Context())
	if err != nil {
		h.errorResponse(c, "Failed to reset election", err)
		return
	}
	h.log.Warn("Election reset", "votes_deleted", deleted, "remote_addr", c.ClientIP())
	h.fieldsResponse(c, http.StatusOK, gin.H{"votos_eliminados": deleted}, "Eleccion reiniciada exitosamente")
}

// parseCoordinates reads optional lat/lng query parameters. ok is false
// when neither is present; giving only one is a validation error.
func parseCoordinates(c *gin.Context) (lat, lng *float64, ok bool, err error) {
	rawLat, hasLat := c.GetQuery("lat")
	rawLng, hasLng := c.GetQuery("lng")
	if !hasLat && !hasLng {
		return nil, nil, false, nil
	}
	if hasLat != hasLng {
		return nil, nil, false, common.NewValidationError("lat", "lat and lng must be given together")
	}

	la, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, nil, false, common.NewValidationError("lat", "must be a number")
	}
	ln, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, nil, false, common.NewValidationError("lng", "must be a number")
	}
	return &la, &ln, true, nil
}
