package services

import (
	"strings"

	"itblog-api/helper"
	"itblog-api/models"
	"itblog-api/repositories"
)

// InteractionService covers comments and likes. Both only apply to public
// articles and notify the article owner when someone else interacts.
type InteractionService interface {
	Comments(actor models.Actor, key string, p helper.Pagination) ([]models.Comment, int64, error)
	AddComment(actor models.Actor, key string, req models.CommentRequest) (*models.Comment, error)
	DeleteComment(actor models.Actor, id uint) error
	ToggleLike(actor models.Actor, key string) (liked bool, total int64, err error)
}

type interactionService struct {
	articleRepo repositories.ArticleRepository
	commentRepo repositories.CommentRepository
	likeRepo    repositories.LikeRepository
}

func NewInteractionService(
	articleRepo repositories.ArticleRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
) InteractionService {
	return &interactionService{articleRepo: articleRepo, commentRepo: commentRepo, likeRepo: likeRepo}
}

func (s *interactionService) publicArticle(key string) (*models.Article, error) {
	article, err := s.articleRepo.GetByIDOrSlug(strings.TrimSpace(key))
	if err != nil {
		return nil, storeError(err, models.MsgArticleNotFound)
	}
	if article.Status != models.StatusPublic {
		return nil, models.NewNotFoundError(models.MsgArticleNotFound)
	}
	return article, nil
}

func (s *interactionService) Comments(actor models.Actor, key string, p helper.Pagination) ([]models.Comment, int64, error) {
	article, err := s.publicArticle(key)
	if err != nil {
		return nil, 0, err
	}
	comments, total, err := s.commentRepo.ListByArticle(article.ID, p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, models.NewInternalError(models.MsgInternal, err)
	}
	return comments, total, nil
}

func (s *interactionService) AddComment(actor models.Actor, key string, req models.CommentRequest) (*models.Comment, error) {
	if actor.IsAnonymous() {
		return nil, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, models.NewValidationError(models.MsgCommentRequired)
	}
	article, err := s.publicArticle(key)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{ArticleID: article.ID, UserID: actor.ID, Content: content}
	var notification *models.Notification
	if article.UserID != actor.ID {
		notification = &models.Notification{
			UserID:        article.UserID,
			Type:          models.NotificationComment,
			RelatedUserID: &actor.ID,
			ArticleID:     &article.ID,
		}
	}
	if err := s.commentRepo.Create(comment, notification); err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}

	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, storeError(err, models.MsgCommentNotFound)
	}
	return created, nil
}

// DeleteComment allows the comment author, the article owner and admins.
func (s *interactionService) DeleteComment(actor models.Actor, id uint) error {
	if actor.IsAnonymous() {
		return models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return storeError(err, models.MsgCommentNotFound)
	}
	articleOwner := comment.Article != nil && comment.Article.UserID == actor.ID
	if comment.UserID != actor.ID && !articleOwner && !actor.IsAdmin() {
		return models.NewForbiddenError(models.MsgForbidden)
	}
	if err := s.commentRepo.Delete(id); err != nil {
		return models.NewInternalError(models.MsgInternal, err)
	}
	return nil
}

func (s *interactionService) ToggleLike(actor models.Actor, key string) (bool, int64, error) {
	if actor.IsAnonymous() {
		return false, 0, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	article, err := s.publicArticle(key)
	if err != nil {
		return false, 0, err
	}
	liked, err := s.likeRepo.Toggle(actor.ID, article.ID, article.UserID)
	if err != nil {
		return false, 0, models.NewInternalError(models.MsgInternal, err)
	}
	total, err := s.likeRepo.Count(article.ID)
	if err != nil {
		return false, 0, models.NewInternalError(models.MsgInternal, err)
	}
	return liked, total, nil
}
