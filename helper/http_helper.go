package helper

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"itblog-api/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	textError             = `error`
	textOk                = `ok`
	codeSuccess           = 200
	codeCreated           = 201
	codeBadRequestError   = 400
	codeUnauthorizedError = 401
	codeForbiddenError    = 403
	codeNotFound          = 404
	codeTooManyRequests   = 429
	codeInternalError     = 500
)

// ResponseHelper ...
type ResponseHelper struct {
	C        *gin.Context
	Status   string
	Message  string
	Data     interface{}
	Code     int
	CodeType string
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper wires validator.v9 with English field messages.
func NewHTTPHelper() *HTTPHelper {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &HTTPHelper{Validate: validate, Translator: trans}
}

// GetStatusCode ...
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		validation   models.ErrorValidation
		unauthorized models.ErrorUnauthorized
		forbidden    models.ErrorForbidden
		notFound     models.ErrorNotFound
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// BindAndValidate binds the request body into obj and runs the validator.
// It writes the error response itself and reports false when the handler must stop.
func (u *HTTPHelper) BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		u.SendBadRequest(c, models.MsgInvalidRequest, u.EmptyJsonMap())
		return false
	}
	if err := u.Validate.Struct(obj); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			u.SendValidationError(c, validationErrors)
			return false
		}
		u.SendBadRequest(c, models.MsgInvalidRequest, u.EmptyJsonMap())
		return false
	}
	return true
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int, codeType string) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType}
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, message string, data interface{}, code int, codeType string) error {
	res := u.SetResponse(c, textError, message, data, code, codeType)

	return u.SendResponse(res)
}

// SendErrorFrom maps a typed error onto the envelope. Internal errors echo their cause.
func (u *HTTPHelper) SendErrorFrom(c *gin.Context, err error) error {
	status := u.GetStatusCode(err)
	switch status {
	case http.StatusBadRequest:
		return u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
	case http.StatusUnauthorized:
		return u.SendUnauthorizedError(c, err.Error(), u.EmptyJsonMap())
	case http.StatusForbidden:
		return u.SendForbiddenError(c, err.Error(), u.EmptyJsonMap())
	case http.StatusNotFound:
		return u.SendNotFoundError(c, err.Error(), u.EmptyJsonMap())
	}

	message := models.MsgInternal
	var internal models.ErrorInternalServer
	if errors.As(err, &internal) && internal.Message != "" {
		message = internal.Message
	}
	return u.SendInternalError(c, message, map[string]interface{}{"error": err.Error()})
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeBadRequestError, `badRequest`)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":         codeBadRequestError,
		"code_type":    "validationError",
		"code_message": errorResponse,
		"data":         u.EmptyJsonMap(),
	})
	return nil
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeUnauthorizedError, `unAuthorized`)
}

func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeForbiddenError, `forbidden`)
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeNotFound, `notFound`)
}

func (u *HTTPHelper) SendTooManyRequests(c *gin.Context, message string) error {
	return u.SendError(c, message, u.EmptyJsonMap(), codeTooManyRequests, `tooManyRequests`)
}

func (u *HTTPHelper) SendInternalError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeInternalError, `internalError`)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeSuccess, `success`)

	return u.SendResponse(res)
}

func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeCreated, `created`)

	return u.SendResponse(res)
}

// SendPaged sends a page of items together with its pagination block.
func (u *HTTPHelper) SendPaged(c *gin.Context, message string, items interface{}, p Pagination, total int64) error {
	return u.SendSuccess(c, message, map[string]interface{}{
		"items":      items,
		"pagination": u.GeneratePaging(c, p, total),
	})
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}
	if res.Data == nil {
		res.Data = u.EmptyJsonMap()
	}

	res.C.JSON(res.Code, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// get pagination URL, keeping the other query parameters
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	query := url.Values{}
	for k, v := range r.URL.Query() {
		query[k] = v
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	return scheme + "://" + r.Host + r.URL.Path + "?" + query.Encode()
}

// Set pagination response
func (u *HTTPHelper) GeneratePaging(c *gin.Context, p Pagination, totalRecord int64) map[string]interface{} {
	prevURL, nextURL, firstURL, lastURL := "", "", "", ""

	totalPages := p.TotalPages(totalRecord)
	page := p.Page

	if page > 1 && totalPages >= page {
		prevURL = u.GetPagingUrl(c, page-1, p.Limit)
		firstURL = u.GetPagingUrl(c, 1, p.Limit)
	}

	if totalPages > page {
		nextURL = u.GetPagingUrl(c, page+1, p.Limit)
		lastURL = u.GetPagingUrl(c, totalPages, p.Limit)
	}

	links := map[string]interface{}{
		"previous": prevURL,
		"next":     nextURL,
		"first":    firstURL,
		"last":     lastURL,
	}

	return map[string]interface{}{
		"total_items":  totalRecord,
		"per_page":     p.Limit,
		"current_page": page,
		"total_pages":  totalPages,
		"links":        links,
	}
}
