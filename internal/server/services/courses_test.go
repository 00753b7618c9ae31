package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	teacher = &models.User{ID: 10, Email: "t@x.com", Role: models.RoleTeacher, IsActive: true}
	student = &models.User{ID: 20, Email: "s@x.com", Role: models.RoleStudent, IsActive: true}
)

type fakePresigner struct {
	err     error
	getErr  error
	gotKey  string
	present map[string]bool
}

func (f *fakePresigner) PutURL(_ context.Context, key string) (string, error) {
	f.gotKey = key
	if f.err != nil {
		return "", f.err
	}
	return "http://signed/" + key, nil
}

func (f *fakePresigner) GetURL(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return "http://get/" + key, nil
}

func (f *fakePresigner) Exists(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.present[key], nil
}

func newCourseService(t *testing.T) (*CourseService, *fakeRepoManager, *fakePresigner) {
	t.Helper()
	rm := newFakeRepoManager()
	p := &fakePresigner{present: map[string]bool{}}
	return NewCourseService(newTxDB(t), rm, p), rm, p
}

func TestCreateCourse_Roles(t *testing.T) {
	tests := []struct {
		name      string
		principal *models.User
		wantErr   error
	}{
		{name: "teacher", principal: teacher},
		{name: "admin", principal: &models.User{ID: 1, Role: models.RoleAdmin}},
		{name: "student", principal: student, wantErr: common.ErrorForbidden},
		{name: "anonymous", principal: nil, wantErr: common.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rm, _ := newCourseService(t)

			c, err := s.CreateCourse(context.Background(), tt.principal, &models.Course{Title: " GRE Quant "})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, rm.courses.byID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "GRE Quant", c.Title)
			assert.NotZero(t, c.ID)
		})
	}
}

func TestCreateCourse_Validation(t *testing.T) {
	s, _, _ := newCourseService(t)

	_, err := s.CreateCourse(context.Background(), teacher, &models.Course{Title: "  "})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.CreateCourse(context.Background(), teacher, &models.Course{Title: "x", Price: -1})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestDraftVisibility(t *testing.T) {
	s, rm, _ := newCourseService(t)
	rm.courses.byID[1] = &models.Course{ID: 1, Title: "draft"}
	rm.courses.byID[2] = &models.Course{ID: 2, Title: "live", IsPublished: true}
	rm.courses.nextID = 2

	_, err := s.GetCourse(context.Background(), student, 1)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	c, err := s.GetCourse(context.Background(), teacher, 1)
	require.NoError(t, err)
	assert.Equal(t, "draft", c.Title)

	list, err := s.ListCourses(context.Background(), nil, 0, 0)
	require.NoError(t, err)
	assert.True(t, rm.courses.gotPublishedOnly)
	assert.Equal(t, 10, rm.courses.gotLimit)
	require.Len(t, list, 1)
	assert.Equal(t, "live", list[0].Title)

	list, err = s.ListCourses(context.Background(), teacher, 500, 0)
	require.NoError(t, err)
	assert.False(t, rm.courses.gotPublishedOnly)
	assert.Equal(t, 100, rm.courses.gotLimit)
	assert.Len(t, list, 2)

	_, err = s.ListCourses(context.Background(), nil, -1, 0)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestChapters(t *testing.T) {
	s, rm, _ := newCourseService(t)
	rm.courses.byID[1] = &models.Course{ID: 1, Title: "live", IsPublished: true}
	rm.courses.nextID = 1

	_, err := s.AddChapter(context.Background(), teacher, &models.Chapter{CourseID: 1, Title: "Algebra"})
	require.NoError(t, err)

	_, err = s.AddChapter(context.Background(), teacher, &models.Chapter{CourseID: 99, Title: "Orphan"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.AddChapter(context.Background(), student, &models.Chapter{CourseID: 1, Title: "x"})
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.AddChapter(context.Background(), teacher, &models.Chapter{CourseID: 1, Title: ""})
	assert.ErrorIs(t, err, common.ErrValidation)

	list, err := s.ListChapters(context.Background(), student, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Algebra", list[0].Title)

	_, err = s.ListChapters(context.Background(), student, 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestEnroll(t *testing.T) {
	s, rm, _ := newCourseService(t)
	rm.courses.byID[1] = &models.Course{ID: 1, Title: "live", IsPublished: true}
	rm.courses.nextID = 1

	e, err := s.Enroll(context.Background(), student, 1)
	require.NoError(t, err)
	assert.Equal(t, student.ID, e.UserID)

	_, err = s.Enroll(context.Background(), student, 1)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = s.Enroll(context.Background(), student, 42)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := s.ListEnrollments(context.Background(), student)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.ListEnrollments(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestCoverUploadURL(t *testing.T) {
	s, rm, p := newCourseService(t)
	rm.courses.byID[3] = &models.Course{ID: 3, Title: "c"}
	rm.courses.nextID = 3

	up, err := s.CoverUploadURL(context.Background(), teacher, 3)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.Key, "courses/3/"))
	assert.Equal(t, p.gotKey, up.Key)
	assert.Equal(t, "http://signed/"+up.Key, up.UploadURL)
	assert.Nil(t, rm.courses.byID[3].CoverImage, "cover must not change before the upload is confirmed")

	_, err = s.CoverUploadURL(context.Background(), teacher, 4)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.CoverUploadURL(context.Background(), student, 3)
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestCoverUploadURL_PresignError(t *testing.T) {
	s, rm, p := newCourseService(t)
	rm.courses.byID[3] = &models.Course{ID: 3, Title: "c"}
	p.err = errors.New("no creds")

	_, err := s.CoverUploadURL(context.Background(), teacher, 3)
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Nil(t, rm.courses.byID[3].CoverImage)
}

func TestConfirmCover(t *testing.T) {
	s, rm, p := newCourseService(t)
	old := "courses/3/old"
	rm.courses.byID[3] = &models.Course{ID: 3, Title: "c", CoverImage: &old}
	rm.courses.byID[4] = &models.Course{ID: 4, Title: "d"}
	rm.courses.nextID = 4
	p.present["courses/3/new"] = true
	p.present["courses/4/other"] = true

	tests := []struct {
		name      string
		principal *models.User
		course    int64
		key       string
		wantErr   error
	}{
		{name: "student", principal: student, course: 3, key: "courses/3/new", wantErr: common.ErrorForbidden},
		{name: "anonymous", course: 3, key: "courses/3/new", wantErr: common.ErrUnauthenticated},
		{name: "other course key", principal: teacher, course: 3, key: "courses/4/other", wantErr: common.ErrValidation},
		{name: "prefix only", principal: teacher, course: 3, key: "courses/3/", wantErr: common.ErrValidation},
		{name: "nested key", principal: teacher, course: 3, key: "courses/3/a/b", wantErr: common.ErrValidation},
		{name: "external url", principal: teacher, course: 3, key: "http://evil/x.png", wantErr: common.ErrValidation},
		{name: "not uploaded", principal: teacher, course: 3, key: "courses/3/missing", wantErr: common.ErrValidation},
		{name: "unknown course", principal: teacher, course: 9, key: "courses/9/new", wantErr: common.ErrorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ConfirmCover(context.Background(), tt.principal, tt.course, tt.key)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, old, *rm.courses.byID[3].CoverImage)
		})
	}

	c, err := s.ConfirmCover(context.Background(), teacher, 3, "courses/3/new")
	require.NoError(t, err)
	assert.Equal(t, "courses/3/new", *rm.courses.byID[3].CoverImage)
	require.NotNil(t, c.CoverImage)
	assert.Equal(t, "http://get/courses/3/new", *c.CoverImage)
}

func TestConfirmCover_StoreError(t *testing.T) {
	s, rm, p := newCourseService(t)
	rm.courses.byID[3] = &models.Course{ID: 3, Title: "c"}
	p.err = errors.New("403")

	_, err := s.ConfirmCover(context.Background(), teacher, 3, "courses/3/k")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Nil(t, rm.courses.byID[3].CoverImage)
}

func TestCoverIsSignedOnRead(t *testing.T) {
	s, rm, p := newCourseService(t)
	key := "courses/1/k"
	rm.courses.byID[1] = &models.Course{ID: 1, Title: "a", IsPublished: true, CoverImage: &key}
	rm.courses.byID[2] = &models.Course{ID: 2, Title: "b", IsPublished: true}
	rm.courses.nextID = 2

	c, err := s.GetCourse(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "http://get/courses/1/k", *c.CoverImage)
	assert.Equal(t, key, *rm.courses.byID[1].CoverImage)

	list, err := s.ListCourses(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "http://get/courses/1/k", *list[0].CoverImage)
	assert.Nil(t, list[1].CoverImage)

	p.getErr = errors.New("sign")
	_, err = s.GetCourse(context.Background(), nil, 1)
	assert.ErrorIs(t, err, common.ErrorInternal)
}
