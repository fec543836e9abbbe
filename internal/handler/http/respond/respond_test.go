package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsdesk/internal/domain/entity"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedBody string
	}{
		{name: "map", code: http.StatusOK, data: map[string]string{"message": "success"}, expectedBody: `{"message":"success"}`},
		{name: "struct", code: http.StatusCreated, data: struct{ ID int }{ID: 123}, expectedBody: `{"ID":123}`},
		{name: "nil", code: http.StatusNoContent, data: nil, expectedBody: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			if w.Code != tt.code {
				t.Errorf("Code = %v, want %v", w.Code, tt.code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %v, want application/json", ct)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tt.expectedBody {
				t.Errorf("Body = %v, want %v", body, tt.expectedBody)
			}
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, make(chan int))

	// ヘッダーは送信済み
	if w.Code != http.StatusOK {
		t.Errorf("Code = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		err         error
		expectedMsg string
	}{
		{name: "required", code: http.StatusBadRequest, err: errors.New("title is required"), expectedMsg: "title is required"},
		{name: "invalid", code: http.StatusBadRequest, err: errors.New("invalid news ID"), expectedMsg: "invalid news ID"},
		{name: "not found", code: http.StatusNotFound, err: errors.New("news not found"), expectedMsg: "news not found"},
		{name: "conflict", code: http.StatusConflict, err: errors.New("news with this slug already exists"), expectedMsg: "news with this slug already exists"},
		{name: "unauthorized", code: http.StatusUnauthorized, err: errors.New("unauthorized"), expectedMsg: "unauthorized"},
		{name: "must not", code: http.StatusUnprocessableEntity, err: errors.New("title must not exceed 500 characters"), expectedMsg: "title must not exceed 500 characters"},
		{name: "internal error hidden", code: http.StatusBadRequest, err: errors.New("pq: connection refused"), expectedMsg: "internal server error"},
		{name: "5xx always hidden", code: http.StatusInternalServerError, err: errors.New("news not found"), expectedMsg: "internal server error"},
		{name: "wrapped db error hidden", code: http.StatusInternalServerError, err: fmt.Errorf("list: %w", errors.New("postgres://u:p@h/db unreachable")), expectedMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			if w.Code != tt.code {
				t.Errorf("Code = %v, want %v", w.Code, tt.code)
			}
			var body ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Error != tt.expectedMsg {
				t.Errorf("error = %q, want %q", body.Error, tt.expectedMsg)
			}
		})
	}
}

func TestSafeError_NilError(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)

	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestValidationFailed(t *testing.T) {
	w := httptest.NewRecorder()
	ValidationFailed(w, &entity.ValidationError{Field: "published_at", Message: "cannot be set on a draft"})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Code = %v, want 422", w.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Field != "published_at" || body.Error != "published_at cannot be set on a draft" {
		t.Errorf("unexpected body %+v", body)
	}
}
