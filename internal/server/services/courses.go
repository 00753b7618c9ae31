package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/dbx"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"github.com/dmitrijs2005/gremath/internal/server/questions"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gremath/internal/server/storage"
)

type CoverPresigner interface {
	PutURL(ctx context.Context, key string) (string, error)
	GetURL(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type CoverUpload struct {
	Key       string
	UploadURL string
}

type CourseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	covers      CoverPresigner
}

func NewCourseService(db *sql.DB, m repomanager.RepositoryManager, covers CoverPresigner) *CourseService {
	return &CourseService{db: db, repomanager: m, covers: covers}
}

func requireAuthor(principal *models.User) error {
	if principal == nil {
		return common.ErrUnauthenticated
	}
	if !principal.Role.CanAuthor() {
		return common.ErrorForbidden
	}
	return nil
}

func canSeeDrafts(principal *models.User) bool {
	return principal != nil && principal.Role.CanAuthor()
}

func (s *CourseService) CreateCourse(ctx context.Context, principal *models.User, c *models.Course) (*models.Course, error) {
	if err := requireAuthor(principal); err != nil {
		return nil, err
	}

	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if c.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", common.ErrValidation)
	}

	var created *models.Course
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			created, err = s.repomanager.Courses(tx).Create(ctx, c)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetCourse returns a course. Unpublished courses are visible to authors only.
func (s *CourseService) GetCourse(ctx context.Context, principal *models.User, id int64) (*models.Course, error) {
	var course *models.Course
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		var err error
		course, err = s.visibleCourse(ctx, conn, principal, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.signCover(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// signCover swaps the stored object key for a short-lived download URL.
func (s *CourseService) signCover(ctx context.Context, c *models.Course) error {
	if c.CoverImage == nil || *c.CoverImage == "" {
		return nil
	}
	url, err := s.covers.GetURL(ctx, *c.CoverImage)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	c.CoverImage = &url
	return nil
}

func (s *CourseService) visibleCourse(ctx context.Context, db dbx.DBTX, principal *models.User, id int64) (*models.Course, error) {
	course, err := s.repomanager.Courses(db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished && !canSeeDrafts(principal) {
		return nil, common.ErrorNotFound
	}
	return course, nil
}

// ListCourses pages through courses. Anonymous callers and students see
// published courses only.
func (s *CourseService) ListCourses(ctx context.Context, principal *models.User, limit, skip int) ([]models.Course, error) {
	limit, skip, err := questions.NormalizePage(limit, skip)
	if err != nil {
		return nil, err
	}

	var list []models.Course
	err = dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		var err error
		list, err = s.repomanager.Courses(conn).List(ctx, limit, skip, !canSeeDrafts(principal))
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range list {
		if err := s.signCover(ctx, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (s *CourseService) AddChapter(ctx context.Context, principal *models.User, ch *models.Chapter) (*models.Chapter, error) {
	if err := requireAuthor(principal); err != nil {
		return nil, err
	}

	ch.Title = strings.TrimSpace(ch.Title)
	if ch.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if ch.OrderIndex < 0 {
		return nil, fmt.Errorf("%w: order_index must not be negative", common.ErrValidation)
	}

	var created *models.Chapter
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			created, err = s.repomanager.Chapters(tx).Create(ctx, ch)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListChapters returns the chapters of a visible course in reading order.
func (s *CourseService) ListChapters(ctx context.Context, principal *models.User, courseID int64) ([]models.Chapter, error) {
	var list []models.Chapter
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		if _, err := s.visibleCourse(ctx, conn, principal, courseID); err != nil {
			return err
		}
		var err error
		list, err = s.repomanager.Chapters(conn).ListByCourse(ctx, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Enroll records that principal bought the course. Enrolling twice yields
// common.ErrorAlreadyExists.
func (s *CourseService) Enroll(ctx context.Context, principal *models.User, courseID int64) (*models.Enrollment, error) {
	if principal == nil {
		return nil, common.ErrUnauthenticated
	}

	var e *models.Enrollment
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		if _, err := s.visibleCourse(ctx, conn, principal, courseID); err != nil {
			return err
		}
		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			e, err = s.repomanager.Enrollments(tx).Create(ctx, principal.ID, courseID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *CourseService) ListEnrollments(ctx context.Context, principal *models.User) ([]models.Enrollment, error) {
	if principal == nil {
		return nil, common.ErrUnauthenticated
	}

	var list []models.Enrollment
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		var err error
		list, err = s.repomanager.Enrollments(conn).ListByUser(ctx, principal.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CoverUploadURL presigns an upload for a new cover image. The course keeps
// its current cover until ConfirmCover is called with the returned key.
func (s *CourseService) CoverUploadURL(ctx context.Context, principal *models.User, courseID int64) (*CoverUpload, error) {
	if err := requireAuthor(principal); err != nil {
		return nil, err
	}

	key := storage.CoverKey(courseID)

	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		_, err := s.repomanager.Courses(conn).Get(ctx, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	url, err := s.covers.PutURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &CoverUpload{Key: key, UploadURL: url}, nil
}

// ConfirmCover points the course at an uploaded cover. The key must belong
// to the course and the object must already be in the bucket.
func (s *CourseService) ConfirmCover(ctx context.Context, principal *models.User, courseID int64, key string) (*models.Course, error) {
	if err := requireAuthor(principal); err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("courses/%d/", courseID)
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) || strings.Contains(key[len(prefix):], "/") {
		return nil, fmt.Errorf("%w: key does not belong to course %d", common.ErrValidation, courseID)
	}

	var course *models.Course
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		if _, err := s.repomanager.Courses(conn).Get(ctx, courseID); err != nil {
			return err
		}

		ok, err := s.covers.Exists(ctx, key)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		if !ok {
			return fmt.Errorf("%w: cover has not been uploaded", common.ErrValidation)
		}

		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.repomanager.Courses(tx).SetCoverImage(ctx, courseID, key); err != nil {
				return err
			}
			var err error
			course, err = s.repomanager.Courses(tx).Get(ctx, courseID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	if err := s.signCover(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}
