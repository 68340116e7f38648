package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const maxJSONBody = 1 << 20

// maxPrice — верхняя граница NUMERIC(10,2).
var maxPrice = decimal.RequireFromString("99999999.99")

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Message: message,
	}
}

// clientErrors — ошибки, которые отдаются клиенту как есть, и их HTTP-статусы.
var clientErrors = []struct {
	err  error
	code int
}{
	{e.ErrStatusBadRequest, http.StatusBadRequest},
	{e.ErrInvalidJSON, http.StatusBadRequest},
	{e.ErrNameRequired, http.StatusBadRequest},
	{e.ErrIDRequired, http.StatusBadRequest},
	{e.ErrCategoryRequired, http.StatusBadRequest},
	{e.ErrParentNotFound, http.StatusBadRequest},
	{e.ErrSelfParent, http.StatusBadRequest},
	{e.ErrUnknownCategory, http.StatusBadRequest},
	{e.ErrInvalidPrice, http.StatusBadRequest},
	{e.ErrPricePrecision, http.StatusBadRequest},
	{e.ErrCredentialsRequired, http.StatusBadRequest},
	{e.ErrExpectedMultipart, http.StatusBadRequest},
	{e.ErrFileRequired, http.StatusBadRequest},
	{e.ErrFileTooLarge, http.StatusBadRequest},
	{e.ErrUnsupportedMediaType, http.StatusBadRequest},
	{e.ErrEmptyOrder, http.StatusBadRequest},
	{e.ErrInvalidQuantity, http.StatusBadRequest},
	{e.ErrQuantityTooLarge, http.StatusBadRequest},
	{e.ErrInvalidPrintType, http.StatusBadRequest},
	{e.ErrVariantNotOffered, http.StatusBadRequest},
	{e.ErrOrderProductNotFound, http.StatusBadRequest},
	{e.ErrUnauthorized, http.StatusUnauthorized},
	{e.ErrInvalidCredentials, http.StatusUnauthorized},
	{e.ErrSessionNotCreated, http.StatusUnauthorized},
	{e.ErrCategoryNotFound, http.StatusNotFound},
	{e.ErrProductNotFound, http.StatusNotFound},
	{e.ErrCategoryHasChildren, http.StatusConflict},
	{e.ErrCategoryHasProducts, http.StatusConflict},
}

// ToHTTPResponse сопоставляет ошибку со статусом и текстом ответа.
// Для неизвестных ошибок возвращается 500 и текст исходной причины.
func ToHTTPResponse(err error) (int, string) {
	for _, c := range clientErrors {
		if errors.Is(err, c.err) {
			return c.code, describe(err, c.err)
		}
	}

	return http.StatusInternalServerError, rootCause(err).Error()
}

// describe возвращает текст вида "<sentinel>: <подробности>", если ошибка была так уточнена,
// иначе сам текст sentinel.
func describe(err, target error) string {
	prefix := target.Error()
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if msg := cur.Error(); strings.HasPrefix(msg, prefix) {
			return msg
		}
	}

	return prefix
}

func rootCause(err error) error {
	if err == nil {
		return e.ErrInternalServerError
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func WriteError(w http.ResponseWriter, err error) {
	recordError(w, err)
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(msg))
}

// recordError передает ошибку ближайшей обертке ResponseWriter, которая ее ждет.
func recordError(w http.ResponseWriter, err error) {
	for w != nil {
		if rec, ok := w.(errorRecorder); ok {
			rec.recordError(err)
			return
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return
		}
		w = u.Unwrap()
	}
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Неизвестные поля игнорируются.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.ErrInvalidJSON)
	}

	return nil
}

// optionalString — строковое поле JSON, у которого важно наличие ключа.
// Set == true, если ключ был в теле; Value == nil, если значение не строка.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.Value = nil

	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		o.Value = &s
	}

	return nil
}

// String возвращает значение или пустую строку.
func (o optionalString) String() string {
	if o.Value == nil {
		return ""
	}

	return *o.Value
}

// parsePrice читает цену из числа или строки JSON.
// Отсутствующее значение возвращает nil без ошибки.
// Ошибки:
// - нечисловое значение
// - отрицательное значение или больше maxPrice
// - больше двух знаков после запятой
func parsePrice(raw json.RawMessage) (*decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil, e.ErrInvalidPrice
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return nil, nil
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, e.ErrInvalidPrice
	}

	if d.IsNegative() || d.GreaterThan(maxPrice) {
		return nil, e.ErrInvalidPrice
	}

	if !d.Equal(d.Truncate(2)) {
		return nil, e.ErrPricePrecision
	}

	return &d, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	return nil
}

// readFile читает загруженный файл не больше maxSize байт и определяет его тип по содержимому.
func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileRequired)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}

// bearerToken возвращает access-токен из cookie или заголовка Authorization.
func bearerToken(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}

	return ""
}
