package services

import (
	"testing"

	"itblog-api/models"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	anonymous := models.Actor{}
	owner := models.Actor{ID: 1, Role: models.RoleUser}
	stranger := models.Actor{ID: 2, Role: models.RoleUser}
	admin := models.Actor{ID: 3, Role: models.RoleAdmin}

	statuses := []models.ArticleStatus{models.StatusDraft, models.StatusPending, models.StatusPublic, models.StatusRejected}

	for _, status := range statuses {
		article := &models.Article{UserID: 1, Status: status}
		public := status == models.StatusPublic

		assert.Equal(t, public, CanAccess(anonymous, article, IntentRead), "anonymous read %s", status)
		assert.Equal(t, public, CanAccess(stranger, article, IntentRead), "stranger read %s", status)
		assert.True(t, CanAccess(owner, article, IntentRead), "owner read %s", status)
		assert.True(t, CanAccess(admin, article, IntentRead), "admin read %s", status)

		for _, intent := range []Intent{IntentWrite, IntentDelete} {
			assert.False(t, CanAccess(anonymous, article, intent), "anonymous %s", intent)
			assert.False(t, CanAccess(stranger, article, intent), "stranger %s", intent)
			assert.True(t, CanAccess(owner, article, intent), "owner %s", intent)
			assert.True(t, CanAccess(admin, article, intent), "admin %s", intent)
		}

		assert.False(t, CanAccess(owner, article, IntentApprove))
		assert.True(t, CanAccess(admin, article, IntentApprove))
	}

	assert.False(t, CanAccess(admin, nil, IntentRead))
}

func TestAuthorizeErrors(t *testing.T) {
	article := &models.Article{UserID: 1, Status: models.StatusDraft}

	assert.ErrorAs(t, Authorize(models.Actor{ID: 2, Role: models.RoleUser}, article, IntentRead), &models.ErrorNotFound{})
	assert.ErrorAs(t, Authorize(models.Actor{ID: 2, Role: models.RoleUser}, article, IntentWrite), &models.ErrorForbidden{})
	assert.ErrorAs(t, Authorize(models.Actor{}, article, IntentDelete), &models.ErrorUnauthorized{})
	assert.ErrorAs(t, Authorize(models.Actor{ID: 1, Role: models.RoleUser}, article, IntentApprove), &models.ErrorForbidden{})
	assert.NoError(t, Authorize(models.Actor{ID: 1, Role: models.RoleUser}, article, IntentWrite))
}

func TestCanDeleteNotification(t *testing.T) {
	n := &models.Notification{UserID: 5}
	assert.True(t, CanDeleteNotification(models.Actor{ID: 5, Role: models.RoleUser}, n))
	assert.True(t, CanDeleteNotification(models.Actor{ID: 9, Role: models.RoleAdmin}, n))
	assert.False(t, CanDeleteNotification(models.Actor{ID: 6, Role: models.RoleUser}, n))
	assert.False(t, CanDeleteNotification(models.Actor{}, n))
}

func TestCanViewAccount(t *testing.T) {
	user := &models.User{ID: 4}
	assert.True(t, CanViewAccount(models.Actor{ID: 4, Role: models.RoleUser}, user))
	assert.True(t, CanViewAccount(models.Actor{ID: 9, Role: models.RoleAdmin}, user))
	assert.False(t, CanViewAccount(models.Actor{ID: 5, Role: models.RoleUser}, user))
	assert.False(t, CanViewAccount(models.Actor{}, user))
	assert.False(t, CanViewAccount(models.Actor{ID: 4, Role: models.RoleUser}, nil))
}
