package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatusByKind(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("Notebook not found").Status())
	assert.Equal(t, http.StatusBadRequest, Validation("bad").Status())
	assert.Equal(t, http.StatusBadGateway, Upstream("llm", errors.New("boom")).Status())
	assert.Equal(t, http.StatusInternalServerError, Constraint(errors.New("dup")).Status())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("no").Status())
	assert.Equal(t, http.StatusForbidden, Forbidden("csrf").Status())
	assert.Equal(t, http.StatusRequestEntityTooLarge, TooLarge("audio").Status())
}

func TestValidationIds(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	err := ValidationIds("Folders not found", []uuid.UUID{a, b})

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, []string{a.String(), b.String()}, err.Ids)
	assert.Equal(t, "Folders not found: "+a.String()+", "+b.String(), err.Error())
}

func TestFromStorage(t *testing.T) {
	assert.Nil(t, FromStorage(nil))

	wrapped := fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)
	assert.True(t, Is(FromStorage(wrapped), KindConstraint))

	pgErr := &pgconn.PgError{Code: "23505"}
	assert.True(t, Is(FromStorage(pgErr), KindConstraint))

	nf := NotFound("Notebook not found")
	assert.Same(t, nf, FromStorage(nf))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, FromStorage(plain))
}
