package services

import "itblog-api/models"

type Intent int

const (
	IntentRead Intent = iota
	IntentWrite
	IntentDelete
	IntentApprove
)

func (i Intent) String() string {
	switch i {
	case IntentRead:
		return "read"
	case IntentWrite:
		return "write"
	case IntentDelete:
		return "delete"
	case IntentApprove:
		return "approve"
	}
	return "unknown"
}

// CanAccess decides whether actor may act on article with the given intent.
//
// Anyone may read a public article. Owners may read, write and delete their
// own articles in any state. Admins may do everything, and only admins approve.
func CanAccess(actor models.Actor, article *models.Article, intent Intent) bool {
	if article == nil {
		return false
	}
	owner := !actor.IsAnonymous() && actor.ID == article.UserID

	switch intent {
	case IntentRead:
		return article.Status == models.StatusPublic || owner || actor.IsAdmin()
	case IntentWrite, IntentDelete:
		return owner || actor.IsAdmin()
	case IntentApprove:
		return actor.IsAdmin()
	}
	return false
}

// Authorize is CanAccess as an error. Unreadable articles look missing;
// other denials are forbidden.
func Authorize(actor models.Actor, article *models.Article, intent Intent) error {
	if CanAccess(actor, article, intent) {
		return nil
	}
	switch {
	case intent == IntentRead:
		return models.NewNotFoundError(models.MsgArticleNotFound)
	case intent == IntentApprove:
		return models.NewForbiddenError(models.MsgAdminRequired)
	case actor.IsAnonymous():
		return models.NewUnauthorizedError(models.MsgLoginRequired)
	default:
		return models.NewForbiddenError(models.MsgForbidden)
	}
}

// CanDeleteNotification allows the recipient and admins.
func CanDeleteNotification(actor models.Actor, notification *models.Notification) bool {
	if notification == nil || actor.IsAnonymous() {
		return false
	}
	return actor.ID == notification.UserID || actor.IsAdmin()
}

// CanViewAccount allows the account owner and admins to see private fields
// such as email, role and block state.
func CanViewAccount(actor models.Actor, user *models.User) bool {
	if user == nil || actor.IsAnonymous() {
		return false
	}
	return actor.ID == user.ID || actor.IsAdmin()
}
