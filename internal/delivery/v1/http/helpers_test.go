package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "wrapped sentinel",
			err:     e.Wrap("CategoryUseCase.Get", e.ErrCategoryNotFound),
			code:    http.StatusNotFound,
			message: "category not found",
		},
		{
			name:    "sentinel with detail",
			err:     e.Wrap("OrderUseCase.WhatsAppSummary", fmt.Errorf("%w: Poster", e.ErrVariantNotOffered)),
			code:    http.StatusBadRequest,
			message: "print variant is not offered for product: Poster",
		},
		{
			name:    "conflict",
			err:     e.Wrap("CategoryUseCase.Delete", e.ErrCategoryHasProducts),
			code:    http.StatusConflict,
			message: e.ErrCategoryHasProducts.Error(),
		},
		{
			name:    "unauthorized",
			err:     e.Wrap("AuthUseCase.Authenticate", e.ErrUnauthorized),
			code:    http.StatusUnauthorized,
			message: "unauthorized",
		},
		{
			name:    "unknown error reports root cause",
			err:     e.Wrap("ProductRepo.Create", e.Wrap("pgx", errors.New("connection reset by peer"))),
			code:    http.StatusInternalServerError,
			message: "connection reset by peer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		isNil   bool
		wantErr error
	}{
		{raw: `12.5`, want: "12.5"},
		{raw: `"7.25"`, want: "7.25"},
		{raw: `" 3 "`, want: "3"},
		{raw: `0`, want: "0"},
		{raw: `99999999.99`, want: "99999999.99"},
		{raw: ``, isNil: true},
		{raw: `null`, isNil: true},
		{raw: `""`, isNil: true},
		{raw: `"abc"`, wantErr: e.ErrInvalidPrice},
		{raw: `true`, wantErr: e.ErrInvalidPrice},
		{raw: `-0.01`, wantErr: e.ErrInvalidPrice},
		{raw: `100000000`, wantErr: e.ErrInvalidPrice},
		{raw: `1.005`, wantErr: e.ErrPricePrecision},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parsePrice(json.RawMessage(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.isNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestOptionalString(t *testing.T) {
	var body struct {
		Missing optionalString `json:"missing"`
		Null    optionalString `json:"null"`
		Number  optionalString `json:"number"`
		Text    optionalString `json:"text"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"null":null,"number":5,"text":"hi"}`), &body))

	assert.False(t, body.Missing.Set)
	assert.True(t, body.Null.Set)
	assert.Nil(t, body.Null.Value)
	assert.True(t, body.Number.Set)
	assert.Nil(t, body.Number.Value)
	assert.Equal(t, "", body.Number.String())
	require.NotNil(t, body.Text.Value)
	assert.Equal(t, "hi", body.Text.String())
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "bearer  header-token ")
	assert.Equal(t, "header-token", bearerToken(req))

	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", bearerToken(req))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, bearerToken(other))
}
