package enrollments

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+enrollments\s*\(user_id,\s*course_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*purchased_at\s*$`
	listQ   = `(?s)^SELECT\s+id,\s*user_id,\s*course_id,\s*purchased_at\s+FROM\s+enrollments\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+purchased_at,\s*id\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		rowErr  error
		wantErr error
	}{
		{name: "ok"},
		{name: "duplicate", rowErr: &pgconn.PgError{Code: "23505"}, wantErr: common.ErrorAlreadyExists},
		{name: "missing course", rowErr: &pgconn.PgError{Code: "23503"}, wantErr: common.ErrorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			exp := mock.ExpectQuery(insertQ).WithArgs(int64(1), int64(2))
			if tt.rowErr != nil {
				exp.WillReturnError(tt.rowErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"id", "purchased_at"}).AddRow(int64(9), time.Now()))
			}

			e, err := repo.Create(context.Background(), 1, 2)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(9), e.ID)
			assert.Equal(t, int64(1), e.UserID)
			assert.Equal(t, int64(2), e.CourseID)
		})
	}
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "purchased_at"}).
			AddRow(int64(1), int64(1), int64(2), time.Now()).
			AddRow(int64(2), int64(1), int64(3), time.Now()))

	got, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[1].CourseID)
}
