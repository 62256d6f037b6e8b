// Package store wraps the database handle behind a small adapter so the
// sync engine and the HTTP handlers receive their persistence as a
// dependency instead of reaching for a global.
package store

import (
	"gorm.io/gorm"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return models.MigrateTable(s.db)
}
