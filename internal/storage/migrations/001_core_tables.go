package migrations

import "gorm.io/gorm"

// migration001Up creates the candidates and votes tables using GORM AutoMigrate.
// votes.candidato_id has no foreign key: deleting a candidate keeps its votes.
func migration001Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// migration001Down drops all core tables
func migration001Down(db *gorm.DB) error {
	tables := []string{
		"votes",
		"candidates",
	}

	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
