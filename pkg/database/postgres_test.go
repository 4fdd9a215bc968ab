package database

import (
	"database/sql"
	"errors"
	"testing"

	"corporate-backend-refactor/pkg/apperr"

	"github.com/lib/pq"
)

func TestMapPQErrorTranslatesConstraintViolations(t *testing.T) {
	// 唯一约束、外键约束、非空约束都属于存储完整性拒绝
	for _, code := range []pq.ErrorCode{"23505", "23503", "23502"} {
		err := mapPQError(&pq.Error{Code: code}, "employee", "x")
		if !apperr.IsStorageIntegrity(err) {
			t.Fatalf("code %s: expected StorageIntegrity, got %v", code, err)
		}
	}

	if err := mapPQError(sql.ErrNoRows, "employee", "x"); !apperr.IsNotFound(err) {
		t.Fatalf("ErrNoRows: expected NotFound, got %v", err)
	}

	plain := errors.New("connection reset")
	if err := mapPQError(plain, "employee", "x"); apperr.IsStorageIntegrity(err) || apperr.IsNotFound(err) {
		t.Fatalf("plain error must keep its generic kind, got %v", err)
	}

	if err := mapPQError(nil, "employee", "x"); err != nil {
		t.Fatalf("nil error must stay nil, got %v", err)
	}
}
