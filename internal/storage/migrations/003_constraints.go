package migrations

import "gorm.io/gorm"

// migration003Up adds the check constraints on counters and ballot numbers
func migration003Up(db *gorm.DB) error {
	constraints := []string{
		"ALTER TABLE candidates ADD CONSTRAINT chk_candidates_votos_non_negative CHECK (votos >= 0)",
		"ALTER TABLE candidates ADD CONSTRAINT chk_candidates_numero_positive CHECK (numero > 0)",
	}

	for _, constraintSQL := range constraints {
		if err := db.Exec(constraintSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the check constraints
func migration003Down(db *gorm.DB) error {
	constraints := []string{
		"ALTER TABLE candidates DROP CONSTRAINT IF EXISTS chk_candidates_numero_positive",
		"ALTER TABLE candidates DROP CONSTRAINT IF EXISTS chk_candidates_votos_non_negative",
	}

	for _, constraintSQL := range constraints {
		if err := db.Exec(constraintSQL).Error; err != nil {
			return err
		}
	}

	return nil
}
