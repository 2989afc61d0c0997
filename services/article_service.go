package services

import (
	"strings"
	"time"

	"itblog-api/helper"
	"itblog-api/models"
	"itblog-api/repositories"
	"itblog-api/storage"

	"go.uber.org/zap"
)

type ArticleService interface {
	List(actor models.Actor, search string, p helper.Pagination) ([]models.Article, int64, error)
	ListPublic(search string, p helper.Pagination) ([]models.Article, int64, error)
	ListRejected(actor models.Actor, p helper.Pagination) ([]models.Article, int64, error)
	ListPending(actor models.Actor, p helper.Pagination) ([]models.Article, int64, error)
	Show(actor models.Actor, key string) (*models.Article, error)
	Detail(actor models.Actor, key string) (*models.Article, error)
	DetailRejected(actor models.Actor, key string) (*models.Article, error)
	Create(actor models.Actor, form models.ArticleForm) (*models.Article, error)
	Update(actor models.Actor, key string, form models.ArticleForm) (*models.Article, error)
	SaveDraft(actor models.Actor, key string, form models.ArticleForm) (*models.Article, error)
	Approve(actor models.Actor, key string) (*models.Article, error)
	Reject(actor models.Actor, key string, reason string) (*models.Article, error)
	Delete(actor models.Actor, key string) error
}

type articleService struct {
	articleRepo  repositories.ArticleRepository
	categoryRepo repositories.CategoryRepository
	images       storage.ImageStore
	log          *zap.SugaredLogger
	now          func() time.Time
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	categoryRepo repositories.CategoryRepository,
	images storage.ImageStore,
	log *zap.SugaredLogger,
) ArticleService {
	return &articleService{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		images:       images,
		log:          log,
		now:          time.Now,
	}
}

func (s *articleService) list(p helper.Pagination, scopes ...repositories.Scope) ([]models.Article, int64, error) {
	articles, total, err := s.articleRepo.List(p.Offset(), p.Limit, scopes...)
	if err != nil {
		return nil, 0, models.NewInternalError(models.MsgInternal, err)
	}
	return articles, total, nil
}

// List applies the caller's visibility. A search term only narrows it.
func (s *articleService) List(actor models.Actor, search string, p helper.Pagination) ([]models.Article, int64, error) {
	return s.list(p, repositories.VisibleTo(actor), repositories.TitleContains(search))
}

func (s *articleService) ListPublic(search string, p helper.Pagination) ([]models.Article, int64, error) {
	return s.list(p, repositories.PublicOnly(), repositories.TitleContains(search))
}

func (s *articleService) ListRejected(actor models.Actor, p helper.Pagination) ([]models.Article, int64, error) {
	if actor.IsAnonymous() {
		return nil, 0, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	return s.list(p, repositories.OwnedBy(actor.ID), repositories.WithStatus(models.StatusRejected))
}

func (s *articleService) ListPending(actor models.Actor, p helper.Pagination) ([]models.Article, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, models.NewForbiddenError(models.MsgAdminRequired)
	}
	return s.list(p, repositories.WithStatus(models.StatusPending))
}

func (s *articleService) find(key string) (*models.Article, error) {
	article, err := s.articleRepo.GetByIDOrSlug(strings.TrimSpace(key))
	if err != nil {
		return nil, storeError(err, models.MsgArticleNotFound)
	}
	return article, nil
}

// Show reads an article. Reading a public article counts a view and, for
// signed in readers, refreshes their reading list entry.
func (s *articleService) Show(actor models.Actor, key string) (*models.Article, error) {
	article, err := s.find(key)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, article, IntentRead); err != nil {
		return nil, err
	}
	if article.Status != models.StatusPublic {
		return article, nil
	}

	if err := s.articleRepo.IncrementView(article.ID); err != nil {
		s.log.Warnw("failed to count view", "article_id", article.ID, "error", err)
	}
	if !actor.IsAnonymous() {
		if err := s.articleRepo.UpsertReadingList(actor.ID, article.ID, s.now()); err != nil {
			s.log.Warnw("failed to update reading list", "article_id", article.ID, "user_id", actor.ID, "error", err)
		}
	}

	fresh, err := s.articleRepo.GetByID(article.ID)
	if err != nil {
		return nil, storeError(err, models.MsgArticleNotFound)
	}
	return fresh, nil
}

// Detail is the editing view: owner or admin only, no view counted.
func (s *articleService) Detail(actor models.Actor, key string) (*models.Article, error) {
	article, err := s.find(key)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, article, IntentWrite); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) DetailRejected(actor models.Actor, key string) (*models.Article, error) {
	article, err := s.Detail(actor, key)
	if err != nil {
		return nil, err
	}
	if article.Status != models.StatusRejected {
		return nil, models.NewNotFoundError(models.MsgArticleNotFound)
	}
	return article, nil
}

// categoryIDs validates the categories of form. required rejects an empty list.
func (s *articleService) categoryIDs(form models.ArticleForm, required bool) ([]uint, error) {
	ids, err := form.CategoryIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		if required {
			return nil, models.NewValidationError(models.MsgCategoryRequired)
		}
		return nil, nil
	}
	count, err := s.categoryRepo.CountExisting(ids)
	if err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	if count != int64(len(ids)) {
		return nil, models.NewValidationError(models.MsgCategoryInvalid)
	}
	return ids, nil
}

// checkSlug rejects taken slugs and all-digit slugs, which would be read as ids.
func (s *articleService) checkSlug(slug string, excludeID uint) error {
	if strings.IndexFunc(slug, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
		return models.NewValidationError(models.MsgSlugNumeric)
	}
	exists, err := s.articleRepo.SlugExists(slug, excludeID)
	if err != nil {
		return models.NewInternalError(models.MsgInternal, err)
	}
	if exists {
		return models.NewValidationError(models.MsgSlugExists)
	}
	return nil
}

func (s *articleService) Create(actor models.Actor, form models.ArticleForm) (*models.Article, error) {
	if actor.IsAnonymous() {
		return nil, models.NewUnauthorizedError(models.MsgLoginRequired)
	}

	title := strings.TrimSpace(form.Title)
	content := strings.TrimSpace(form.Content)
	slug := strings.TrimSpace(form.Slug)
	if title == "" || content == "" || slug == "" {
		return nil, models.NewValidationError(models.MsgArticleFieldsNeeded)
	}
	if err := s.checkSlug(slug, 0); err != nil {
		return nil, err
	}
	categoryIDs, err := s.categoryIDs(form, true)
	if err != nil {
		return nil, err
	}
	if form.Image == nil {
		return nil, models.NewValidationError(models.MsgImageRequired)
	}

	imageURL, err := s.images.Save("articles", form.Image)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		UserID:   actor.ID,
		Title:    title,
		Slug:     slug,
		Content:  content,
		Tags:     strings.TrimSpace(form.Tags),
		Status:   models.InitialStatus(form.Draft(), actor.IsAdmin()),
		ImageURL: imageURL,
	}
	if err := s.articleRepo.CreateWithCategories(article, categoryIDs); err != nil {
		s.removeImage(imageURL)
		if repositories.IsUniqueViolation(err) {
			return nil, models.NewValidationError(models.MsgSlugExists)
		}
		return nil, models.NewInternalError(models.MsgInternal, err)
	}

	return s.reload(article.ID)
}

func (s *articleService) Update(actor models.Actor, key string, form models.ArticleForm) (*models.Article, error) {
	return s.modify(actor, key, form, form.Draft())
}

func (s *articleService) SaveDraft(actor models.Actor, key string, form models.ArticleForm) (*models.Article, error) {
	return s.modify(actor, key, form, true)
}

// modify applies the non-empty fields of form. The status becomes draft, or
// goes through the submit transition when draft is false.
func (s *articleService) modify(actor models.Actor, key string, form models.ArticleForm, draft bool) (*models.Article, error) {
	article, err := s.find(key)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, article, IntentWrite); err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(form.Title); title != "" {
		article.Title = title
	}
	if content := strings.TrimSpace(form.Content); content != "" {
		article.Content = content
	}
	if form.Tags != "" {
		article.Tags = strings.TrimSpace(form.Tags)
	}
	if slug := strings.TrimSpace(form.Slug); slug != "" && slug != article.Slug {
		if err := s.checkSlug(slug, article.ID); err != nil {
			return nil, err
		}
		article.Slug = slug
	}

	var categoryIDs []uint
	if strings.TrimSpace(form.Categories) != "" {
		if categoryIDs, err = s.categoryIDs(form, !draft); err != nil {
			return nil, err
		}
	}

	action := models.ActionSubmit
	if draft {
		action = models.ActionSaveDraft
	}
	next, ok := article.Status.Transition(action, actor.IsAdmin())
	if !ok {
		return nil, models.NewValidationError(models.MsgArticleCannotPub)
	}
	article.Status = next
	if next != models.StatusRejected {
		article.RejectReason = ""
	}

	oldImage := ""
	if form.Image != nil {
		url, err := s.images.Save("articles", form.Image)
		if err != nil {
			return nil, err
		}
		oldImage = article.ImageURL
		article.ImageURL = url
	}

	if err := s.articleRepo.UpdateWithCategories(article, categoryIDs); err != nil {
		if form.Image != nil {
			s.removeImage(article.ImageURL)
		}
		if repositories.IsUniqueViolation(err) {
			return nil, models.NewValidationError(models.MsgSlugExists)
		}
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	s.removeImage(oldImage)

	return s.reload(article.ID)
}

func (s *articleService) Approve(actor models.Actor, key string) (*models.Article, error) {
	article, err := s.find(key)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, article, IntentApprove); err != nil {
		return nil, err
	}

	next, ok := article.Status.Transition(models.ActionApprove, true)
	if !ok {
		return nil, models.NewValidationError(models.MsgArticleCannotPub)
	}
	article.Status = next
	article.RejectReason = ""
	if err := s.articleRepo.UpdateStatus(article); err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	return s.reload(article.ID)
}

// Reject keeps title and slug intact and records the reason on its own.
func (s *articleService) Reject(actor models.Actor, key string, reason string) (*models.Article, error) {
	article, err := s.find(key)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, article, IntentApprove); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewValidationError(models.MsgRejectReasonNeeded)
	}
	next, ok := article.Status.Transition(models.ActionReject, true)
	if !ok {
		if article.Status == models.StatusPublic {
			return nil, models.NewValidationError(models.MsgArticleAlreadyPub)
		}
		return nil, models.NewValidationError(models.MsgArticleNotPending)
	}
	article.Status = next
	article.RejectReason = reason
	if err := s.articleRepo.UpdateStatus(article); err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	return s.reload(article.ID)
}

// Delete removes the article with everything that references it. The image
// file goes only once the rows are gone.
func (s *articleService) Delete(actor models.Actor, key string) error {
	article, err := s.find(key)
	if err != nil {
		return err
	}
	if err := Authorize(actor, article, IntentDelete); err != nil {
		return err
	}
	if err := s.articleRepo.DeleteCascade(article.ID); err != nil {
		return storeError(err, models.MsgArticleNotFound)
	}
	s.removeImage(article.ImageURL)
	return nil
}

func (s *articleService) reload(id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, storeError(err, models.MsgArticleNotFound)
	}
	return article, nil
}

func (s *articleService) removeImage(url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(url); err != nil {
		s.log.Warnw("failed to remove image", "url", url, "error", err)
	}
}
