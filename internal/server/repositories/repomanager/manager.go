package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gremath/internal/dbx"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/chapters"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/courses"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/enrollments"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/examsessions"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	ResetSchema(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Courses(db dbx.DBTX) courses.Repository
	Chapters(db dbx.DBTX) chapters.Repository
	Enrollments(db dbx.DBTX) enrollments.Repository
	ExamSessions(db dbx.DBTX) examsessions.Repository
}
