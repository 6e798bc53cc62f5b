package migrations

import "gorm.io/gorm"

// migration002Up creates the lookup indexes. The unique indexes on
// numero, user_id and correo come from the model tags.
func migration002Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_candidates_votos ON candidates(votos DESC)",
		"CREATE INDEX IF NOT EXISTS idx_votes_fecha ON votes(fecha DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration002Down drops the lookup indexes
func migration002Down(db *gorm.DB) error {
	indexes := []string{
		"DROP INDEX IF EXISTS idx_votes_fecha",
		"DROP INDEX IF EXISTS idx_candidates_votos",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}
