package db

import (
	"time"

	"gorm.io/gorm"
)

// Completed is a GORM scope that keeps attendance sessions carrying both a
// punch-in and a punch-out timestamp.
//
// Example usage:
//
//	db.Model(&models.AttendanceSessionModel{}).Scopes(db.Completed()).Count(&count)
func Completed() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("punch_in_at IS NOT NULL AND punch_out_at IS NOT NULL")
	}
}

// WorkDateWithin restricts work_date to the half-open range [from, to).
// A zero bound is ignored.
func WorkDateWithin(from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !from.IsZero() {
			db = db.Where("work_date >= ?", from)
		}
		if !to.IsZero() {
			db = db.Where("work_date < ?", to)
		}
		return db
	}
}

// AfterID is a keyset pagination scope: rows with id greater than the cursor,
// ordered by id and capped at limit.
func AfterID(cursor uint, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id > ?", cursor).Order("id ASC").Limit(limit)
	}
}
