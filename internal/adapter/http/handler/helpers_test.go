package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/internal/service/auth"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrOrderNotFound, http.StatusNotFound},
		{types.ErrUserNotFound, http.StatusNotFound},
		{types.ErrCourierNotFound, http.StatusNotFound},
		{types.ErrLocationNotAvailable, http.StatusNotFound},
		{types.ErrCourierNotAssigned, http.StatusNotFound},

		{types.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrExpToken, http.StatusUnauthorized},

		{types.ErrOrderCourierMismatch, http.StatusForbidden},

		{types.ErrInvalidTransition, http.StatusConflict},
		{types.ErrOrderAlreadyTaken, http.StatusConflict},
		{types.ErrNotTrackableInState, http.StatusConflict},
		{types.ErrEmailAlreadyExists, http.StatusConflict},
		{types.ErrCourierAlreadyOnline, http.StatusConflict},
		{types.ErrCourierAlreadyOffline, http.StatusConflict},
		{types.ErrCourierOffline, http.StatusConflict},

		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := GetCode(tt.err); got != tt.want {
			t.Fatalf("GetCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}

	// Wrapped errors map the same way.
	wrapped := fmt.Errorf("service: %w", types.ErrOrderAlreadyTaken)
	if got := GetCode(wrapped); got != http.StatusConflict {
		t.Fatalf("GetCode(wrapped) = %d, want %d", got, http.StatusConflict)
	}
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	newReq := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		return httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	t.Run("valid body", func(t *testing.T) {
		w, r := newReq(`{"name": "khobzak"}`)
		var dst payload
		if err := readJSON(w, r, &dst); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dst.Name != "khobzak" {
			t.Fatalf("name = %q", dst.Name)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		w, r := newReq("")
		var dst payload
		if err := readJSON(w, r, &dst); err == nil {
			t.Fatal("expected error for empty body")
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		w, r := newReq(`{"name": "a", "bogus": 1}`)
		var dst payload
		err := readJSON(w, r, &dst)
		if err == nil || !strings.Contains(err.Error(), "unknown key") {
			t.Fatalf("expected unknown key error, got %v", err)
		}
	})

	t.Run("trailing garbage", func(t *testing.T) {
		w, r := newReq(`{"name": "a"}{"name": "b"}`)
		var dst payload
		err := readJSON(w, r, &dst)
		if err == nil || !strings.Contains(err.Error(), "single JSON value") {
			t.Fatalf("expected single value error, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		w, r := newReq(`{"name":`)
		var dst payload
		if err := readJSON(w, r, &dst); err == nil {
			t.Fatal("expected error for malformed body")
		}
	})
}
