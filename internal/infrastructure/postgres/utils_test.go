package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var w whereBuilder
	w.eq("product_id", "p1")
	w.eq("unit_id", "")
	w.add("(from_location = ? OR to_location = ?)", "AULA 1 – VC")
	w.between("created_at", &from, nil)

	assert.Equal(t, " WHERE product_id = $1 AND (from_location = $2 OR to_location = $2) AND created_at >= $3", w.sql())
	assert.Equal(t, " ORDER BY created_at DESC LIMIT $4 OFFSET $5", w.page("created_at DESC", 0, 10))
	assert.Equal(t, []any{"p1", "AULA 1 – VC", from, 100, 10}, w.args)
}

func TestWhereBuilder_SinFiltros(t *testing.T) {
	var w whereBuilder
	assert.Empty(t, w.sql())
	assert.Equal(t, " ORDER BY id LIMIT $1 OFFSET $2", w.page("id", 20, 0))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}
