package internal

import "gorm.io/gorm"

func logAction(db *gorm.DB, actorID *uint, action, details string) {
	_ = db.Create(&AuditLog{ActorID: actorID, Action: action, Details: details}).Error
}
