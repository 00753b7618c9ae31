// Package httpapi exposes the services over JSON/HTTP with gorilla/mux.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gremath/internal/logging"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"github.com/dmitrijs2005/gremath/internal/server/services"
	"github.com/gorilla/mux"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.AccessToken, error)
}

type Authenticator interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

type QuestionService interface {
	Create(ctx context.Context, principal *models.User, q *models.Question) (*models.Question, error)
	List(ctx context.Context, limit, skip int) ([]models.Question, error)
	Get(ctx context.Context, id string) (*models.Question, error)
}

type CourseService interface {
	CreateCourse(ctx context.Context, principal *models.User, c *models.Course) (*models.Course, error)
	GetCourse(ctx context.Context, principal *models.User, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, principal *models.User, limit, skip int) ([]models.Course, error)
	AddChapter(ctx context.Context, principal *models.User, ch *models.Chapter) (*models.Chapter, error)
	ListChapters(ctx context.Context, principal *models.User, courseID int64) ([]models.Chapter, error)
	Enroll(ctx context.Context, principal *models.User, courseID int64) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, principal *models.User) ([]models.Enrollment, error)
	CoverUploadURL(ctx context.Context, principal *models.User, courseID int64) (*services.CoverUpload, error)
	ConfirmCover(ctx context.Context, principal *models.User, courseID int64, key string) (*models.Course, error)
}

type ExamService interface {
	StartExam(ctx context.Context, principal *models.User, templateID *string) (*models.ExamSession, error)
	FinishExam(ctx context.Context, principal *models.User, sessionID int64, score int) (*models.ExamSession, error)
	ListExamSessions(ctx context.Context, principal *models.User) ([]models.ExamSession, error)
}

type HealthChecker interface {
	Check(ctx context.Context) map[string]bool
}

type Deps struct {
	Users     UserService
	Auth      Authenticator
	Questions QuestionService
	Courses   CourseService
	Exams     ExamService
	Health    HealthChecker
	Logger    logging.Logger

	// ExposeErrorDetails adds the raw error type and message to 5xx bodies.
	ExposeErrorDetails bool
}

type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = logging.NopLogger{}
	}
	return &Handler{Deps: d}
}

// Routes builds the router wrapped in the common middleware chain.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.HandleFunc("/", h.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health-check", h.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/users/register", h.handleRegister).Methods(http.MethodPost)
	r.Handle("/users/me", h.authenticated(h.handleMe)).Methods(http.MethodGet)
	r.Handle("/users/me/enrollments", h.authenticated(h.handleListEnrollments)).Methods(http.MethodGet)

	r.Handle("/questions", h.authenticated(h.handleCreateQuestion)).Methods(http.MethodPost)
	r.HandleFunc("/questions", h.handleListQuestions).Methods(http.MethodGet)
	r.HandleFunc("/questions/{id}", h.handleGetQuestion).Methods(http.MethodGet)

	r.Handle("/courses", h.optionallyAuthenticated(h.handleListCourses)).Methods(http.MethodGet)
	r.Handle("/courses", h.authenticated(h.handleCreateCourse)).Methods(http.MethodPost)
	r.Handle("/courses/{id:[0-9]+}", h.optionallyAuthenticated(h.handleGetCourse)).Methods(http.MethodGet)
	r.Handle("/courses/{id:[0-9]+}/chapters", h.optionallyAuthenticated(h.handleListChapters)).Methods(http.MethodGet)
	r.Handle("/courses/{id:[0-9]+}/chapters", h.authenticated(h.handleAddChapter)).Methods(http.MethodPost)
	r.Handle("/courses/{id:[0-9]+}/enroll", h.authenticated(h.handleEnroll)).Methods(http.MethodPost)
	r.Handle("/courses/{id:[0-9]+}/cover", h.authenticated(h.handleCoverUpload)).Methods(http.MethodPost)
	r.Handle("/courses/{id:[0-9]+}/cover", h.authenticated(h.handleConfirmCover)).Methods(http.MethodPut)

	r.Handle("/exams/sessions", h.authenticated(h.handleListExamSessions)).Methods(http.MethodGet)
	r.Handle("/exams/sessions", h.authenticated(h.handleStartExam)).Methods(http.MethodPost)
	r.Handle("/exams/sessions/{id:[0-9]+}/finish", h.authenticated(h.handleFinishExam)).Methods(http.MethodPost)

	return chain(r, requestID, h.logRequests, h.recoverer, cors)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "GRE Math API is running"})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]map[string]bool{"database_status": h.Health.Check(r.Context())})
}
