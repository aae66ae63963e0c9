package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err        error
		code       string
		httpStatus int
	}{
		{NewInvalidInput("bad", nil), "INVALID_INPUT", http.StatusBadRequest},
		{NewNotFound("ticket", nil), "NOT_FOUND", http.StatusNotFound},
		{NewForbidden("no"), "FORBIDDEN", http.StatusForbidden},
		{NewUnauthorized("who"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		var domainErr *DomainError
		if !errors.As(tc.err, &domainErr) {
			t.Fatalf("%v is not a DomainError", tc.err)
		}
		if domainErr.Code != tc.code {
			t.Errorf("code = %q, want %q", domainErr.Code, tc.code)
		}
		if domainErr.HTTPStatus != tc.httpStatus {
			t.Errorf("status = %d, want %d", domainErr.HTTPStatus, tc.httpStatus)
		}
	}
}

func TestToDomainError(t *testing.T) {
	if got := ToDomainError(nil); got != nil {
		t.Errorf("nil error mapped to %v", got)
	}

	forbidden := NewForbidden("no")
	if got := ToDomainError(forbidden); got.Code != "FORBIDDEN" {
		t.Errorf("existing DomainError remapped to %q", got.Code)
	}

	if got := ToDomainError(pgx.ErrNoRows); got.Code != "NOT_FOUND" {
		t.Errorf("pgx.ErrNoRows mapped to %q, want NOT_FOUND", got.Code)
	}

	plain := errors.New("boom")
	got := ToDomainError(plain)
	if got.Code != "INTERNAL_ERROR" {
		t.Errorf("plain error mapped to %q, want INTERNAL_ERROR", got.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("wrapped error must unwrap to the original")
	}
}

func TestPredicates(t *testing.T) {
	if !IsNotFound(NewNotFound("reply", nil)) {
		t.Error("IsNotFound failed on NotFound error")
	}
	if IsNotFound(NewForbidden("no")) {
		t.Error("IsNotFound matched Forbidden")
	}
	if !IsForbidden(NewForbidden("no")) {
		t.Error("IsForbidden failed on Forbidden error")
	}
}
