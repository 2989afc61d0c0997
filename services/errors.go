package services

import (
	"itblog-api/models"
	"itblog-api/repositories"
)

// storeError turns a repository error into a typed error. Missing rows
// become notFoundMsg.
func storeError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if repositories.IsNotFound(err) {
		return models.NewNotFoundError(notFoundMsg)
	}
	return models.NewInternalError(models.MsgInternal, err)
}
