package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shiftkeeper/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.BaseURL())
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

// TestClient_Register проверяет успешную регистрацию
func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "testuser", req.Username)
		assert.Equal(t, "password123", req.Password)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.RegisterResponse{
			UserID:  "user-123",
			Message: "Registration successful",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Register(context.Background(), api.RegisterRequest{
		Username: "testuser",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-123", resp.UserID)
	assert.Equal(t, "Registration successful", resp.Message)
}

// TestClient_Register_Error проверяет обработку ошибок и их классификацию
func TestClient_Register_Error(t *testing.T) {
	tests := []struct {
		responseBody   interface{}
		wantClass      error
		name           string
		expectedErrMsg string
		statusCode     int
	}{
		{
			name:           "User already exists",
			statusCode:     http.StatusConflict,
			responseBody:   api.ErrorResponse{Error: "conflict", Message: "user already exists"},
			expectedErrMsg: "server error (409): user already exists",
			wantClass:      ErrPermanent,
		},
		{
			name:           "Invalid request",
			statusCode:     http.StatusBadRequest,
			responseBody:   api.ErrorResponse{Error: "invalid username"},
			expectedErrMsg: "server error (400): invalid username",
			wantClass:      ErrPermanent,
		},
		{
			name:           "Internal server error",
			statusCode:     http.StatusInternalServerError,
			responseBody:   "Internal Server Error",
			expectedErrMsg: "server error (500): Internal Server Error",
			wantClass:      ErrTransient,
		},
		{
			name:           "Rate limited",
			statusCode:     http.StatusTooManyRequests,
			responseBody:   api.ErrorResponse{Error: "too many requests"},
			expectedErrMsg: "server error (429)",
			wantClass:      ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if errResp, ok := tt.responseBody.(api.ErrorResponse); ok {
					_ = json.NewEncoder(w).Encode(errResp)
				} else {
					_, _ = w.Write([]byte(tt.responseBody.(string)))
				}
			}))
			defer server.Close()

			client := NewClient(server.URL)
			resp, err := client.Register(context.Background(), api.RegisterRequest{Username: "testuser"})

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)
			assert.ErrorIs(t, err, tt.wantClass)
		})
	}
}

// TestClient_Login проверяет успешный логин
func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)

		_ = json.NewEncoder(w).Encode(api.TokenResponse{
			UserID:      "user-uuid-123",
			AccessToken: "access_token_123",
			ExpiresIn:   3600,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Login(context.Background(), api.LoginRequest{Username: "testuser", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "user-uuid-123", resp.UserID)
	assert.Equal(t, "access_token_123", resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
}

func TestClient_ListShifts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/shifts", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(api.ListShiftsResponse{
			Shifts: []api.Shift{{ID: "s1", Date: "2024-05-01", Kind: "A"}},
		})
	}))
	defer server.Close()

	shifts, err := NewClient(server.URL).ListShifts(context.Background(), "token-1")
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "s1", shifts[0].ID)
}

func TestClient_UpsertShift(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/shifts/s1", r.URL.Path)

		var shift api.Shift
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&shift))
		assert.Equal(t, "client-1", shift.OriginClientID)
		_ = json.NewEncoder(w).Encode(shift)
	}))
	defer server.Close()

	got, err := NewClient(server.URL).UpsertShift(context.Background(), "token", api.Shift{
		ID:             "s1",
		Date:           "2024-05-01",
		Kind:           "B",
		OriginClientID: "client-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "B", got.Kind)
}

func TestClient_SendsClientIDHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client-7", r.Header.Get(api.ClientIDHeader))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetClientID("client-7")
	require.NoError(t, client.DeleteShift(context.Background(), "token", "s1"))
}

func TestClient_DeleteShift_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "shift not found"})
	}))
	defer server.Close()

	err := NewClient(server.URL).DeleteShift(context.Background(), "token", "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, ErrPermanent)
}

func TestClient_NetworkErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	err := NewClient(baseURL).Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)
	assert.False(t, errors.Is(err, ErrPermanent))
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	assert.NoError(t, NewClient(server.URL).Health(context.Background()))
}

func TestIsPermanentStatus(t *testing.T) {
	for _, code := range []int{400, 401, 403, 404, 409, 422} {
		assert.True(t, IsPermanentStatus(code), code)
	}
	for _, code := range []int{408, 429, 500, 502, 503} {
		assert.False(t, IsPermanentStatus(code), code)
	}
}
