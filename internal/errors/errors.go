// errors стандартизирует ответы об ошибках HTTP-слоя movie-api.
// На вход принимает ошибку сервисного слоя или проверки токена,
// на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей драйвера БД.
//
// Детали исходной ошибки остаются в логе (см. service).
package errors

import (
	"context"
	stderrs "errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/myflixjw/movie-api/internal/auth"
	"github.com/myflixjw/movie-api/internal/service"
	"github.com/myflixjw/movie-api/internal/validation"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError - единый формат для фронта.
// Code - короткий стабильный код для машиночитаемой обработки на FE.
// Message - безопасное человекочитаемое описание.
// RequestID - прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse - корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ValidationResponse - тело 422: список нарушений правил регистрации.
type ValidationResponse struct {
	Errors validation.Violations `json:"errors"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - программная ошибка вызова: 500/internal;
//   - сервисные ошибки маппятся через errors.Is (см. таблицу в base);
//   - ошибки токена - 401;
//   - отмена/таймаут контекста - 499/504;
//   - прочее - 500/internal без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError - хелпер для HTTP-хендлеров.
// Пишет статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)
	write(w, r, status, resp)
}

// WriteErrorMessage - как WriteError, но с собственным текстом message
// (например, "alice was not found"). Статус и code берутся из ToHTTP.
func WriteErrorMessage(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, resp := ToHTTP(err)
	resp.Error.Message = msg
	write(w, r, status, resp)
}

// WriteStatus пишет ошибку с явно заданными статусом, кодом и сообщением.
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	write(w, r, status, ErrorResponse{Error: APIError{Code: code, Message: msg}})
}

// WriteValidation пишет 422 со списком нарушений.
func WriteValidation(w http.ResponseWriter, v validation.Violations) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(ValidationResponse{Errors: v})
}

func write(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base - маппинг ошибки в HTTP/FE-код/сообщение:
//   - ErrInvalidArgument -> 400
//   - ErrUsernameTaken -> 400 (исторический контракт, не 409)
//   - ErrNotFound -> 404
//   - ErrInvalidCredentials, auth.ErrInvalidToken, auth.ErrTokenExpired -> 401
//   - context.Canceled -> 499
//   - context.DeadlineExceeded -> 504
//   - прочее -> 500/internal
func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case stderrs.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrs.Is(err, service.ErrUsernameTaken):
		return http.StatusBadRequest, "already_exists", "already exists"
	case stderrs.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrs.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthenticated", "invalid credentials"
	case stderrs.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthenticated", "token expired"
	case stderrs.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthenticated", "invalid token"
	case stderrs.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrs.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
