package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithInsecureSSL(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "url without sslmode",
			dsn:  "postgres://u:p@db.example:5432/attribution",
			want: "postgres://u:p@db.example:5432/attribution?sslmode=require",
		},
		{
			name: "url with other params",
			dsn:  "postgresql://u:p@db/attr?connect_timeout=5",
			want: "postgresql://u:p@db/attr?connect_timeout=5&sslmode=require",
		},
		{
			name: "explicit sslmode is kept",
			dsn:  "postgres://u:p@localhost/attr?sslmode=disable",
			want: "postgres://u:p@localhost/attr?sslmode=disable",
		},
		{
			name: "key value form",
			dsn:  "host=db user=u dbname=attr",
			want: "host=db user=u dbname=attr sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withInsecureSSL(tt.dsn))
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schemaStatements {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS conversions").
		WillReturnError(errors.New("permission denied"))

	err = EnsureSchema(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema statement 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
