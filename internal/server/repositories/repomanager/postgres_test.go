package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func stubGoose(t *testing.T, up, reset func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	origUp, origReset := gooseUpContext, gooseResetContext
	if up != nil {
		gooseUpContext = up
	}
	if reset != nil {
		gooseResetContext = reset
	}
	t.Cleanup(func() {
		gooseUpContext, gooseResetContext = origUp, origReset
	})
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	var _ RepositoryManager = NewPostgresRepositoryManager()
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager()

	if u := m.Users(db); u == nil {
		t.Fatal("Users() nil")
	}
	if c := m.Courses(db); c == nil {
		t.Fatal("Courses() nil")
	}
	if ch := m.Chapters(db); ch == nil {
		t.Fatal("Chapters() nil")
	}
	if e := m.Enrollments(db); e == nil {
		t.Fatal("Enrollments() nil")
	}
	if s := m.ExamSessions(db); s == nil {
		t.Fatal("ExamSessions() nil")
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}, nil)

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}, nil)

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestResetSchema_ResetsThenMigrates(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var calls []string
	stubGoose(t,
		func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			calls = append(calls, "up")
			return nil
		},
		func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			calls = append(calls, "reset")
			return nil
		})

	m := NewPostgresRepositoryManager()
	if err := m.ResetSchema(context.Background(), db); err != nil {
		t.Fatalf("ResetSchema error: %v", err)
	}
	if len(calls) != 2 || calls[0] != "reset" || calls[1] != "up" {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestResetSchema_ResetError(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	upCalled := false
	stubGoose(t,
		func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			upCalled = true
			return nil
		},
		func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return errors.New("locked")
		})

	m := NewPostgresRepositoryManager()
	err := m.ResetSchema(context.Background(), db)
	if err == nil || err.Error() != "reset: locked" {
		t.Fatalf("expected reset error, got %v", err)
	}
	if upCalled {
		t.Fatal("up must not run after a failed reset")
	}
}
