package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gremath/internal/server/models"
)

func (h *Handler) handleListCourses(w http.ResponseWriter, r *http.Request) {
	limit, skip, err := paging(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	list, err := h.Courses.ListCourses(r.Context(), principal(r), limit, skip)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]courseResponse, 0, len(list))
	for i := range list {
		out = append(out, newCourseResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	c, err := h.Courses.CreateCourse(r.Context(), principal(r), &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newCourseResponse(c))
}

func (h *Handler) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	c, err := h.Courses.GetCourse(r.Context(), principal(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCourseResponse(c))
}

func (h *Handler) handleListChapters(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	list, err := h.Courses.ListChapters(r.Context(), principal(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]chapterResponse, 0, len(list))
	for _, ch := range list {
		out = append(out, chapterResponse{ID: ch.ID, CourseID: ch.CourseID, Title: ch.Title, OrderIndex: ch.OrderIndex})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAddChapter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req chapterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	ch, err := h.Courses.AddChapter(r.Context(), principal(r), &models.Chapter{
		CourseID:   id,
		Title:      req.Title,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, chapterResponse{ID: ch.ID, CourseID: ch.CourseID, Title: ch.Title, OrderIndex: ch.OrderIndex})
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	e, err := h.Courses.Enroll(r.Context(), principal(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, enrollmentResponse{ID: e.ID, UserID: e.UserID, CourseID: e.CourseID, PurchasedAt: e.PurchasedAt})
}

func (h *Handler) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	list, err := h.Courses.ListEnrollments(r.Context(), principal(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]enrollmentResponse, 0, len(list))
	for _, e := range list {
		out = append(out, enrollmentResponse{ID: e.ID, UserID: e.UserID, CourseID: e.CourseID, PurchasedAt: e.PurchasedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCoverUpload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	up, err := h.Courses.CoverUploadURL(r.Context(), principal(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, coverUploadResponse{Key: up.Key, UploadURL: up.UploadURL})
}

func (h *Handler) handleConfirmCover(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req confirmCoverRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	c, err := h.Courses.ConfirmCover(r.Context(), principal(r), id, req.Key)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newCourseResponse(c))
}
