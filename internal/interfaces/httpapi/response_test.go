package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tennis-ranking/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	return body
}

func errorObject(t *testing.T, body map[string]any) map[string]any {
	t.Helper()

	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response, got %v", body)
	}
	return errorObj
}

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput),
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
			wantReason: "invalidInput",
		},
		{
			name:       "already exists",
			err:        &usecase.PlayerAlreadyExistsError{LastName: "Nadal"},
			wantCode:   http.StatusBadRequest,
			wantStatus: "ALREADY_EXISTS",
			wantReason: "alreadyExists",
		},
		{
			name:       "not found",
			err:        &usecase.PlayerNotFoundError{LastName: "Doe"},
			wantCode:   http.StatusNotFound,
			wantStatus: "NOT_FOUND",
			wantReason: "notFound",
		},
		{
			name:       "unauthorized",
			err:        fmt.Errorf("%w: missing token", usecase.ErrUnauthorized),
			wantCode:   http.StatusUnauthorized,
			wantStatus: "UNAUTHENTICATED",
			wantReason: "unauthorized",
		},
		{
			name:       "forbidden",
			err:        fmt.Errorf("%w: admin only", usecase.ErrForbidden),
			wantCode:   http.StatusForbidden,
			wantStatus: "PERMISSION_DENIED",
			wantReason: "forbidden",
		},
		{
			name:       "dependency unavailable",
			err:        fmt.Errorf("%w: account service down", usecase.ErrDependencyUnavailable),
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "UNAVAILABLE",
			wantReason: "dependencyUnavailable",
		},
		{
			name:       "data retrieval",
			err:        &usecase.DataRetrievalError{Op: "list players", Err: errors.New("connection refused")},
			wantCode:   http.StatusInternalServerError,
			wantStatus: "INTERNAL",
			wantReason: "dataRetrieval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tt.err)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			errorObj := errorObject(t, decodeEnvelope(t, rec))
			if got, _ := errorObj["status"].(string); got != tt.wantStatus {
				t.Fatalf("expected error status %s, got %v", tt.wantStatus, errorObj["status"])
			}
			if got, _ := errorObj["message"].(string); got != tt.err.Error() {
				t.Fatalf("expected message %q, got %v", tt.err.Error(), errorObj["message"])
			}
			items, _ := errorObj["errors"].([]any)
			if len(items) != 1 {
				t.Fatalf("expected one error item, got %v", errorObj["errors"])
			}
			item, _ := items[0].(map[string]any)
			if got, _ := item["reason"].(string); got != tt.wantReason {
				t.Fatalf("expected reason %s, got %v", tt.wantReason, item["reason"])
			}
		})
	}
}

func TestWriteError_HidesUnclassifiedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: password authentication failed for user \"app\""))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	errorObj := errorObject(t, decodeEnvelope(t, rec))
	if got, _ := errorObj["message"].(string); got != internalErrorMsg {
		t.Fatalf("expected generic message, got %v", errorObj["message"])
	}
}

func TestWriteError_ValidationViolationsBecomeItems(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, &requestValidationError{Violations: []fieldViolation{
		{Field: "lastName", Message: "Last name is mandatory"},
		{Field: "points", Message: "Points must be positive or zero"},
	}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	errorObj := errorObject(t, decodeEnvelope(t, rec))
	if got, _ := errorObj["message"].(string); got != "Last name is mandatory; Points must be positive or zero" {
		t.Fatalf("unexpected message %v", errorObj["message"])
	}

	items, _ := errorObj["errors"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected two error items, got %v", errorObj["errors"])
	}
	first, _ := items[0].(map[string]any)
	if first["location"] != "lastName" || first["locationType"] != "body" || first["reason"] != "invalidField" {
		t.Fatalf("unexpected first item %v", first)
	}
}

func TestWriteSuccess_EchoesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(withRequestID(context.Background(), "req-9"), rec, http.StatusOK, []string{})

	if got := decodeEnvelope(t, rec)["id"]; got != "req-9" {
		t.Fatalf("expected envelope id req-9, got %v", got)
	}
}
