// Package services orquesta el registro de candidatos, el libro de votos,
// las verificaciones de elegibilidad y la difusión en tiempo real.
package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/domain/eligibility"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/logger"
	"github.com/gravadigital/votacion-api/internal/realtime"
	"github.com/gravadigital/votacion-api/internal/validation"
)

// Broadcaster construye un mensaje con el conteo actual y lo entrega a todos
// los espectadores conectados
type Broadcaster interface {
	Publish(ctx context.Context, build func(candidate.Snapshot) any) error
}

// Policy define qué requisitos de elegibilidad se exigen al votar
type Policy struct {
	InstitutionalDomains      []string
	RequireInstitutionalEmail bool
	RequireGeofence           bool
	Campus                    eligibility.Geofence
}

// ElectionService maneja la lógica de negocio de la votación
type ElectionService struct {
	registry *candidate.Registry
	ledger   *vote.Ledger
	hub      Broadcaster
	policy   Policy
	log      *log.Logger
}

// NewElectionService crea una nueva instancia del servicio de elección
func NewElectionService(registry *candidate.Registry, ledger *vote.Ledger, hub Broadcaster, policy Policy) *ElectionService {
	return &ElectionService{
		registry: registry,
		ledger:   ledger,
		hub:      hub,
		policy:   policy,
		log:      logger.Service("election"),
	}
}

// CastVote aplica la política de elegibilidad, registra el voto y notifica
// a los espectadores exactamente una vez por voto aceptado.
func (s *ElectionService) CastVote(ctx context.Context, req vote.CastRequest) (*vote.Vote, error) {
	if err := s.ledger.Validate(req); err != nil {
		return nil, err
	}
	if err := s.checkEligibility(req); err != nil {
		s.log.Info("vote rejected: not eligible", "user_id", req.UserID, "reason", err)
		return nil, err
	}

	v, err := s.ledger.CastVote(ctx, req)
	if err != nil {
		return nil, err
	}

	err = s.hub.Publish(ctx, func(snap candidate.Snapshot) any {
		return realtime.VoteRegisteredEvent(v.CandidateID, snap)
	})
	if err != nil {
		// the vote stands; viewers catch up on the next event
		s.log.Warn("vote accepted but tally unavailable for broadcast", "vote_id", v.ID, "error", err)
	}
	return v, nil
}

// ResetElection borra todos los votos y notifica a los espectadores
func (s *ElectionService) ResetElection(ctx context.Context) (int, error) {
	deleted, err := s.ledger.ResetElection(ctx)
	if err != nil {
		return 0, err
	}

	err = s.hub.Publish(ctx, func(snap candidate.Snapshot) any {
		return realtime.ElectionResetEvent(deleted, snap)
	})
	if err != nil {
		s.log.Warn("election reset but tally unavailable for broadcast", "error", err)
	}
	return deleted, nil
}

// HasVoted indica si ya existe un voto para la clave dada
func (s *ElectionService) HasVoted(ctx context.Context, key string, field vote.Field) (bool, error) {
	return s.ledger.HasVoted(ctx, key, field)
}

// EmailCheck es el resultado de validar un correo institucional
type EmailCheck struct {
	Institutional bool   `json:"esInstitucional"`
	Email         string `json:"correo"`
}

// CheckEmail indica si el correo pertenece a un dominio institucional
func (s *ElectionService) CheckEmail(email string) EmailCheck {
	return EmailCheck{
		Institutional: eligibility.IsInstitutional(email, s.policy.InstitutionalDomains),
		Email:         email,
	}
}

// CheckLocation calcula la distancia al campus
func (s *ElectionService) CheckLocation(lat, lng float64) (eligibility.GeofenceResult, error) {
	if err := validation.ValidateLatLng(lat, lng); err != nil {
		return eligibility.GeofenceResult{}, err
	}
	return s.policy.Campus.Check(eligibility.Point{Lat: lat, Lng: lng}), nil
}

// CanVoteResult explica si un correo puede votar ahora mismo
type CanVoteResult struct {
	CanVote       bool                        `json:"puedeVotar"`
	Reason        string                      `json:"razon"`
	AlreadyVoted  bool                        `json:"yaVoto"`
	Institutional bool                        `json:"esInstitucional"`
	Location      *eligibility.GeofenceResult `json:"ubicacion,omitempty"`
}

// CanVote combina la verificación de correo usado, dominio institucional y,
// cuando se envían coordenadas, la geocerca.
func (s *ElectionService) CanVote(ctx context.Context, email string, lat, lng *float64) (CanVoteResult, error) {
	if err := (validation.VoteValidation{}).ValidateCorreo(email); err != nil {
		return CanVoteResult{}, err
	}
	if (lat == nil) != (lng == nil) {
		return CanVoteResult{}, common.NewValidationError("lat", "lat and lng must be given together")
	}

	result := CanVoteResult{
		Institutional: eligibility.IsInstitutional(email, s.policy.InstitutionalDomains),
	}

	used, err := s.ledger.HasVoted(ctx, email, vote.FieldEmail)
	if err != nil {
		return CanVoteResult{}, err
	}
	result.AlreadyVoted = used

	if lat != nil {
		loc, err := s.CheckLocation(*lat, *lng)
		if err != nil {
			return CanVoteResult{}, err
		}
		result.Location = &loc
	}

	switch {
	case used:
		result.Reason = "Ya has votado anteriormente"
	case s.policy.RequireInstitutionalEmail && !result.Institutional:
		result.Reason = "El correo no pertenece a un dominio institucional"
	case result.Location != nil && !result.Location.Inside:
		result.Reason = fmt.Sprintf("Estas fuera del campus (distancia: %.2f m)", result.Location.Distance)
	case result.Location == nil && s.policy.RequireGeofence:
		result.Reason = "Se requiere la ubicacion para votar"
	default:
		result.CanVote = true
		result.Reason = "Puedes votar"
	}
	return result, nil
}

// VotesFor devuelve el contador de un candidato, 0 si no existe
func (s *ElectionService) VotesFor(ctx context.Context, candidateID string) (int, error) {
	return s.registry.VotesFor(ctx, candidateID)
}

// Snapshot devuelve conteo y estadísticas de una sola lectura
func (s *ElectionService) Snapshot(ctx context.Context) (candidate.Snapshot, error) {
	return s.registry.Snapshot(ctx)
}

func (s *ElectionService) checkEligibility(req vote.CastRequest) error {
	if s.policy.RequireInstitutionalEmail && !eligibility.IsInstitutional(req.Email, s.policy.InstitutionalDomains) {
		return &common.IneligibleError{Reason: "el correo no pertenece a un dominio institucional"}
	}
	if !s.policy.RequireGeofence {
		return nil
	}
	if req.Lat == nil || req.Lng == nil {
		return &common.IneligibleError{Reason: "se requiere la ubicacion para votar"}
	}
	loc := s.policy.Campus.Check(eligibility.Point{Lat: *req.Lat, Lng: *req.Lng})
	if !loc.Inside {
		return &common.IneligibleError{Reason: fmt.Sprintf("fuera del campus (distancia: %.2f m)", loc.Distance)}
	}
	return nil
}
