package models

import "gorm.io/gorm"

func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&Category{}, &Product{},
		&Branch{}, &ProductInventory{},
		&Customer{}, &Order{}, &OrderItem{},
		&Banner{}, &SiteConfig{},
		&AnalyticsEvent{},
		&SyncRun{},
	)
}
