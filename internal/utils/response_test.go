package utils_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Could not parse response body: %v", err)
	}
	return response
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		data       interface{}
		wantBody   map[string]interface{}
	}{
		{
			name:       "Success response",
			statusCode: http.StatusOK,
			data:       map[string]string{"message": "Login successful"},
			wantBody: map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"message": "Login successful"},
			},
		},
		{
			name:       "Created response",
			statusCode: http.StatusCreated,
			data:       map[string]string{"message": "Registration successful! You can now log in."},
			wantBody: map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"message": "Registration successful! You can now log in."},
			},
		},
		{
			name:       "Nil data",
			statusCode: http.StatusOK,
			data:       nil,
			wantBody: map[string]interface{}{
				"success": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			utils.JSON(rr, tt.statusCode, tt.data)

			if rr.Code != tt.statusCode {
				t.Errorf("wrong status code: got %v want %v", rr.Code, tt.statusCode)
			}
			if ctype := rr.Header().Get("Content-Type"); ctype != "application/json" {
				t.Errorf("wrong content type: got %v want application/json", ctype)
			}
			if got := decodeBody(t, rr); !reflect.DeepEqual(got, tt.wantBody) {
				t.Errorf("unexpected body: got %v want %v", got, tt.wantBody)
			}
		})
	}
}

func TestErrorWithData(t *testing.T) {
	rr := httptest.NewRecorder()

	utils.ErrorWithData(rr, http.StatusUnauthorized, constants.CodeUnauthorized, constants.MsgAuthRequired, nil,
		map[string]bool{"authenticated": false})

	want := map[string]interface{}{
		"success": false,
		"data":    map[string]interface{}{"authenticated": false},
		"error": map[string]interface{}{
			"code":    constants.CodeUnauthorized,
			"message": constants.MsgAuthRequired,
		},
	}
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong status code: got %v", rr.Code)
	}
	if got := decodeBody(t, rr); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected body: got %v want %v", got, want)
	}
}

func TestErrorFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        *utils.AppError
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"duplicate", utils.NewDuplicateError(""), http.StatusConflict, constants.CodeDuplicateResource, constants.MsgUserExists},
		{"invalid credentials", utils.NewInvalidCredentialsError(), http.StatusUnauthorized, constants.CodeInvalidCredentials, constants.MsgInvalidCredentials},
		{"expired code", utils.NewExpiredTokenError(constants.MsgResetCodeExpired), http.StatusBadRequest, constants.CodeTokenExpired, constants.MsgResetCodeExpired},
		{"invalid code", utils.NewInvalidTokenError(constants.MsgResetCodeInvalid), http.StatusBadRequest, constants.CodeTokenInvalid, constants.MsgResetCodeInvalid},
		{"unavailable", utils.NewServiceUnavailableError(constants.MsgChatKeyMissing), http.StatusServiceUnavailable, constants.CodeServiceUnavailable, constants.MsgChatKeyMissing},
		{"upstream", utils.NewUpstreamError(constants.MsgChatUpstreamFailure, errors.New("dial tcp")), http.StatusInternalServerError, constants.CodeUpstreamError, constants.MsgChatUpstreamFailure},
		{"internal", utils.NewInternalServerError(errors.New("boom")), http.StatusInternalServerError, constants.CodeInternalError, constants.MsgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			utils.ErrorFromAppError(rr, tt.err)

			if rr.Code != tt.wantStatus {
				t.Errorf("wrong status code: got %v want %v", rr.Code, tt.wantStatus)
			}
			body := decodeBody(t, rr)
			errInfo, ok := body["error"].(map[string]interface{})
			if !ok {
				t.Fatalf("missing error object in %v", body)
			}
			if errInfo["code"] != tt.wantCode {
				t.Errorf("wrong code: got %v want %v", errInfo["code"], tt.wantCode)
			}
			if errInfo["message"] != tt.wantMsg {
				t.Errorf("wrong message: got %v want %v", errInfo["message"], tt.wantMsg)
			}
		})
	}
}

func TestErrorFromAppErrorFieldDetails(t *testing.T) {
	rr := httptest.NewRecorder()

	utils.ErrorFromAppError(rr, utils.NewValidationError("email", "Must be a valid email address"))

	body := decodeBody(t, rr)
	details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
	if details["email"] != "Must be a valid email address" {
		t.Errorf("unexpected details: %v", details)
	}
}

func TestTooManyRequests(t *testing.T) {
	rr := httptest.NewRecorder()

	utils.TooManyRequests(rr, 1500*time.Millisecond)

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("wrong status code: got %v", rr.Code)
	}
	if got := rr.Header().Get(constants.HeaderRetryAfter); got != "1" {
		t.Errorf("wrong Retry-After: got %q", got)
	}
}

func TestNotFound(t *testing.T) {
	rr := httptest.NewRecorder()
	utils.NotFound(rr, "")

	if rr.Code != http.StatusNotFound {
		t.Errorf("wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
	}
	body := decodeBody(t, rr)
	if body["success"] != false {
		t.Errorf("expected success=false, got %v", body["success"])
	}
	errInfo, _ := body["error"].(map[string]interface{})
	if errInfo["message"] != constants.MsgResourceNotFound {
		t.Errorf("wrong message: got %v", errInfo["message"])
	}
}
