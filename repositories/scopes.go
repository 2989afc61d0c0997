package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Scope narrows a gorm query.
type Scope = func(*gorm.DB) *gorm.DB

// likePattern lowercases s, escapes LIKE wildcards and wraps it in %...%.
// Pair it with ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// Between limits column to [from, to). A zero to leaves the range open.
func Between(column string, from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(column+" >= ?", from)
		if !to.IsZero() {
			db = db.Where(column+" < ?", to)
		}
		return db
	}
}
