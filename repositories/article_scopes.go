package repositories

import (
	"strings"

	"itblog-api/models"

	"gorm.io/gorm"
)

// VisibleTo selects the articles a listing may show to actor: anonymous
// callers get public articles, users get their own, admins get public
// articles plus their own.
func VisibleTo(actor models.Actor) Scope {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case actor.IsAnonymous():
			return db.Where("articles.status = ?", models.StatusPublic)
		case actor.IsAdmin():
			return db.Where("(articles.status = ? OR articles.user_id = ?)", models.StatusPublic, actor.ID)
		default:
			return db.Where("articles.user_id = ?", actor.ID)
		}
	}
}

func PublicOnly() Scope {
	return WithStatus(models.StatusPublic)
}

func WithStatus(status models.ArticleStatus) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("articles.status = ?", status)
	}
}

func OwnedBy(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("articles.user_id = ?", userID)
	}
}

// TitleContains narrows the result set. It never widens it.
func TitleContains(search string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(search) == "" {
			return db
		}
		return db.Where("LOWER(articles.title) LIKE ? ESCAPE '\\'", likePattern(search))
	}
}
