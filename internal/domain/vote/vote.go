package vote

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/votacion-api/internal/domain/common"
)

// Field names a uniqueness key of the vote collection
type Field string

const (
	FieldUserID Field = "user_id"
	FieldEmail  Field = "correo"
)

// Valid reports whether f is one of the uniqueness keys
func (f Field) Valid() bool {
	return f == FieldUserID || f == FieldEmail
}

// Vote is a single accepted ballot. Votes are never updated.
type Vote struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey" bson:"_id"`
	UserID      string    `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_votes_user_id" bson:"user_id"`
	CandidateID string    `json:"candidato_id" gorm:"column:candidato_id;type:varchar(36);not null;index:idx_votes_candidato" bson:"candidato_id"`
	Email       string    `json:"correo" gorm:"column:correo;not null;uniqueIndex:idx_votes_correo" bson:"correo"`
	CastAt      time.Time `json:"fecha" gorm:"column:fecha;not null" bson:"fecha"`
	IPAddress   string    `json:"ip_address,omitempty" gorm:"column:ip_address" bson:"ip_address,omitempty"`
	Lat         *float64  `json:"lat,omitempty" gorm:"column:lat" bson:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty" gorm:"column:lng" bson:"lng,omitempty"`
}

// TableName overrides the table name
func (Vote) TableName() string {
	return "votes"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// NewVote builds a vote stamped with at
func NewVote(userID, candidateID, email string, at time.Time) *Vote {
	return &Vote{
		ID:          uuid.NewString(),
		UserID:      userID,
		CandidateID: candidateID,
		Email:       email,
		CastAt:      at,
	}
}

// Validate checks if the vote data is valid
func (v *Vote) Validate() error {
	if v.UserID == "" {
		return common.NewValidationError("user_id", "is required")
	}
	if v.CandidateID == "" {
		return common.NewValidationError("candidato_id", "is required")
	}
	if v.Email == "" {
		return common.NewValidationError("correo", "is required")
	}
	if (v.Lat == nil) != (v.Lng == nil) {
		return common.NewValidationError("lat", "lat and lng must be given together")
	}
	return nil
}

// Key returns the value of the given uniqueness field
func (v *Vote) Key(field Field) string {
	if field == FieldEmail {
		return v.Email
	}
	return v.UserID
}
