package helper

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm translated", fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey), true},
		{"raw postgres", &pgconn.PgError{Code: "23505"}, true},
		{"other postgres", &pgconn.PgError{Code: "23503"}, false},
		{"not found", gorm.ErrRecordNotFound, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}
