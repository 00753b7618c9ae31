package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/dbx"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/chapters"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/courses"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/enrollments"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/examsessions"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/users"
	_ "modernc.org/sqlite"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newTxDB returns a real pool for services whose repositories are faked but
// whose connection and transaction handling should still run.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// --- users ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	nextID  int64

	getErr    error
	createErr error
	updateErr error

	updated map[int64]string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, updated: map[int64]string{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	u.ID = f.nextID
	u.IsActive = true
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			u.HashedPassword = hash
			f.updated[id] = hash
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- courses ---

type fakeCoursesRepo struct {
	byID   map[int64]*models.Course
	nextID int64

	gotPublishedOnly  bool
	gotLimit, gotSkip int
	err               error
}

func newFakeCoursesRepo() *fakeCoursesRepo {
	return &fakeCoursesRepo{byID: map[int64]*models.Course{}}
}

func (f *fakeCoursesRepo) Create(_ context.Context, c *models.Course) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	c.ID = f.nextID
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeCoursesRepo) Get(_ context.Context, id int64) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCoursesRepo) List(_ context.Context, limit, skip int, publishedOnly bool) ([]models.Course, error) {
	f.gotLimit, f.gotSkip, f.gotPublishedOnly = limit, skip, publishedOnly
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Course{}
	for i := int64(1); i <= f.nextID; i++ {
		c, ok := f.byID[i]
		if !ok || (publishedOnly && !c.IsPublished) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCoursesRepo) SetCoverImage(_ context.Context, id int64, url string) error {
	c, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.CoverImage = &url
	return nil
}

// --- chapters ---

type fakeChaptersRepo struct {
	courses *fakeCoursesRepo
	items   []models.Chapter
}

func (f *fakeChaptersRepo) Create(_ context.Context, ch *models.Chapter) (*models.Chapter, error) {
	if _, ok := f.courses.byID[ch.CourseID]; !ok {
		return nil, common.ErrorNotFound
	}
	ch.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *ch)
	return ch, nil
}

func (f *fakeChaptersRepo) ListByCourse(_ context.Context, courseID int64) ([]models.Chapter, error) {
	out := []models.Chapter{}
	for _, ch := range f.items {
		if ch.CourseID == courseID {
			out = append(out, ch)
		}
	}
	return out, nil
}

// --- enrollments ---

type fakeEnrollmentsRepo struct {
	items []models.Enrollment
}

func (f *fakeEnrollmentsRepo) Create(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	for _, e := range f.items {
		if e.UserID == userID && e.CourseID == courseID {
			return nil, common.ErrorAlreadyExists
		}
	}
	e := models.Enrollment{ID: int64(len(f.items) + 1), UserID: userID, CourseID: courseID, PurchasedAt: time.Now()}
	f.items = append(f.items, e)
	return &e, nil
}

func (f *fakeEnrollmentsRepo) ListByUser(_ context.Context, userID int64) ([]models.Enrollment, error) {
	out := []models.Enrollment{}
	for _, e := range f.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- exam sessions ---

type fakeExamsRepo struct {
	items []*models.ExamSession
}

func (f *fakeExamsRepo) Create(_ context.Context, userID int64, templateID *string) (*models.ExamSession, error) {
	s := &models.ExamSession{
		ID:             int64(len(f.items) + 1),
		UserID:         userID,
		ExamTemplateID: templateID,
		Status:         models.ExamInProgress,
		StartedAt:      time.Now(),
	}
	f.items = append(f.items, s)
	cp := *s
	return &cp, nil
}

func (f *fakeExamsRepo) Get(_ context.Context, id int64) (*models.ExamSession, error) {
	for _, s := range f.items {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeExamsRepo) Finish(_ context.Context, userID, id int64, score int) (*models.ExamSession, error) {
	for _, s := range f.items {
		if s.ID == id && s.UserID == userID && s.Status == models.ExamInProgress {
			now := time.Now()
			s.Status = models.ExamCompleted
			s.TotalScore = score
			s.FinishedAt = &now
			cp := *s
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeExamsRepo) ListByUser(_ context.Context, userID int64) ([]models.ExamSession, error) {
	out := []models.ExamSession{}
	for _, s := range f.items {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

// --- manager ---

type fakeRepoManager struct {
	users       *fakeUsersRepo
	courses     *fakeCoursesRepo
	chapters    *fakeChaptersRepo
	enrollments *fakeEnrollmentsRepo
	exams       *fakeExamsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	c := newFakeCoursesRepo()
	return &fakeRepoManager{
		users:       newFakeUsersRepo(),
		courses:     c,
		chapters:    &fakeChaptersRepo{courses: c},
		enrollments: &fakeEnrollmentsRepo{},
		exams:       &fakeExamsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) ResetSchema(context.Context, *sql.DB) error   { return nil }

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository               { return m.users }
func (m *fakeRepoManager) Courses(dbx.DBTX) courses.Repository           { return m.courses }
func (m *fakeRepoManager) Chapters(dbx.DBTX) chapters.Repository         { return m.chapters }
func (m *fakeRepoManager) Enrollments(dbx.DBTX) enrollments.Repository   { return m.enrollments }
func (m *fakeRepoManager) ExamSessions(dbx.DBTX) examsessions.Repository { return m.exams }

var errUnavailable = errors.Join(common.ErrStoreUnavailable, errBoom{})
