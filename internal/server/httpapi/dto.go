package httpapi

import (
	"time"

	"github.com/dmitrijs2005/gremath/internal/server/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: string(u.Role), IsActive: u.IsActive}
}

type questionRequest struct {
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	Type          string          `json:"type"`
	Difficulty    string          `json:"difficulty"`
	Tags          []string        `json:"tags"`
	Options       []models.Option `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
	Analysis      *string         `json:"analysis"`
}

func (q questionRequest) toModel() *models.Question {
	return &models.Question{
		Title:         q.Title,
		Content:       q.Content,
		Type:          q.Type,
		Difficulty:    q.Difficulty,
		Tags:          q.Tags,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Analysis:      q.Analysis,
	}
}

type questionResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	Type          string          `json:"type"`
	Difficulty    string          `json:"difficulty"`
	Tags          []string        `json:"tags"`
	Options       []models.Option `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
	Analysis      *string         `json:"analysis"`
}

func newQuestionResponse(q *models.Question) questionResponse {
	r := questionResponse{
		ID:            q.ID,
		Title:         q.Title,
		Content:       q.Content,
		Type:          q.Type,
		Difficulty:    q.Difficulty,
		Tags:          q.Tags,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Analysis:      q.Analysis,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Options == nil {
		r.Options = []models.Option{}
	}
	return r
}

type courseRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	IsPublished bool    `json:"is_published"`
}

type courseResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	CoverImage  *string   `json:"cover_image"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func newCourseResponse(c *models.Course) courseResponse {
	return courseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		CoverImage:  c.CoverImage,
		IsPublished: c.IsPublished,
		CreatedAt:   c.CreatedAt,
	}
}

type chapterRequest struct {
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
}

type chapterResponse struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
}

type enrollmentResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	CourseID    int64     `json:"course_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type coverUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

type confirmCoverRequest struct {
	Key string `json:"key"`
}

type startExamRequest struct {
	ExamTemplateID *string `json:"exam_template_id"`
}

type finishExamRequest struct {
	TotalScore int `json:"total_score"`
}

type examSessionResponse struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	ExamTemplateID *string    `json:"exam_template_id"`
	Status         string     `json:"status"`
	TotalScore     int        `json:"total_score"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
}

func newExamSessionResponse(s *models.ExamSession) examSessionResponse {
	return examSessionResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		ExamTemplateID: s.ExamTemplateID,
		Status:         string(s.Status),
		TotalScore:     s.TotalScore,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
	}
}
