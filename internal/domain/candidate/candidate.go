package candidate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/votacion-api/internal/domain/common"
)

// Column names shared by every storage backend.
const (
	FieldNombre      = "nombre"
	FieldNumero      = "numero"
	FieldCargo       = "cargo"
	FieldImagen      = "imagen"
	FieldPropuesta   = "propuesta"
	FieldVision      = "vision"
	FieldExperiencia = "experiencia"
	FieldSemestre    = "semestre"
	FieldVotos       = "votos"
	FieldUpdatedAt   = "updated_at"
)

// Candidate is a person on the ballot
type Candidate struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey" bson:"_id"`
	Name       string    `json:"nombre" gorm:"column:nombre;not null" bson:"nombre"`
	Number     int       `json:"numero" gorm:"column:numero;not null;uniqueIndex:idx_candidates_numero" bson:"numero"`
	Position   string    `json:"cargo" gorm:"column:cargo" bson:"cargo"`
	Image      string    `json:"imagen" gorm:"column:imagen" bson:"imagen"`
	Proposal   string    `json:"propuesta" gorm:"column:propuesta;type:text" bson:"propuesta"`
	Vision     string    `json:"vision" gorm:"column:vision;type:text" bson:"vision"`
	Experience string    `json:"experiencia" gorm:"column:experiencia;type:text" bson:"experiencia"`
	Semester   string    `json:"semestre" gorm:"column:semestre" bson:"semestre"`
	Votes      int       `json:"votos" gorm:"column:votos;not null;default:0" bson:"votos"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at" bson:"updated_at"`
}

// TableName overrides the table name used by GORM
func (Candidate) TableName() string {
	return "candidates"
}

// BeforeCreate sets a UUID before creating the record
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CreateInput carries the fields accepted when registering a candidate
type CreateInput struct {
	Name       string `json:"nombre" binding:"required"`
	Number     int    `json:"numero" binding:"required"`
	Position   string `json:"cargo"`
	Image      string `json:"imagen"`
	Proposal   string `json:"propuesta"`
	Vision     string `json:"vision"`
	Experience string `json:"experiencia"`
	Semester   string `json:"semestre"`
}

// NewCandidate creates a candidate with a zero counter
func NewCandidate(in CreateInput, now time.Time) *Candidate {
	return &Candidate{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Number:     in.Number,
		Position:   in.Position,
		Image:      in.Image,
		Proposal:   in.Proposal,
		Vision:     in.Vision,
		Experience: in.Experience,
		Semester:   in.Semester,
		Votes:      0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Clone returns a copy safe to hand out of an in-process store
func (c *Candidate) Clone() *Candidate {
	cp := *c
	return &cp
}

// Patch is a partial update. Absent fields are left untouched, an explicit
// null clears a text field, and an empty string is stored as an empty string.
// Votes are never part of a patch.
type Patch struct {
	Name       common.Optional[string] `json:"nombre"`
	Number     common.Optional[int]    `json:"numero"`
	Position   common.Optional[string] `json:"cargo"`
	Image      common.Optional[string] `json:"imagen"`
	Proposal   common.Optional[string] `json:"propuesta"`
	Vision     common.Optional[string] `json:"vision"`
	Experience common.Optional[string] `json:"experiencia"`
	Semester   common.Optional[string] `json:"semestre"`
}

// IsEmpty reports whether the patch touches no field
func (p Patch) IsEmpty() bool {
	return len(p.Changes()) == 0
}

// Changes returns the field update set keyed by column name
func (p Patch) Changes() map[string]any {
	changes := make(map[string]any)
	if p.Name.Set {
		changes[FieldNombre] = p.Name.Value
	}
	if p.Number.Set {
		changes[FieldNumero] = p.Number.Value
	}
	text := map[string]common.Optional[string]{
		FieldCargo:       p.Position,
		FieldImagen:      p.Image,
		FieldPropuesta:   p.Proposal,
		FieldVision:      p.Vision,
		FieldExperiencia: p.Experience,
		FieldSemestre:    p.Semester,
	}
	for field, opt := range text {
		if opt.Set {
			changes[field] = opt.Value
		}
	}
	return changes
}

// ApplyChanges writes a field update set onto c. Unknown keys are ignored.
func ApplyChanges(c *Candidate, changes map[string]any) {
	for field, value := range changes {
		switch field {
		case FieldNombre:
			c.Name, _ = value.(string)
		case FieldNumero:
			c.Number, _ = value.(int)
		case FieldCargo:
			c.Position, _ = value.(string)
		case FieldImagen:
			c.Image, _ = value.(string)
		case FieldPropuesta:
			c.Proposal, _ = value.(string)
		case FieldVision:
			c.Vision, _ = value.(string)
		case FieldExperiencia:
			c.Experience, _ = value.(string)
		case FieldSemestre:
			c.Semester, _ = value.(string)
		case FieldUpdatedAt:
			if at, ok := value.(time.Time); ok {
				c.UpdatedAt = at
			}
		}
	}
}
