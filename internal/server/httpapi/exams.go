package httpapi

import (
	"net/http"
)

func (h *Handler) handleStartExam(w http.ResponseWriter, r *http.Request) {
	var req startExamRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}

	s, err := h.Exams.StartExam(r.Context(), principal(r), req.ExamTemplateID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newExamSessionResponse(s))
}

func (h *Handler) handleFinishExam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req finishExamRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	s, err := h.Exams.FinishExam(r.Context(), principal(r), id, req.TotalScore)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newExamSessionResponse(s))
}

func (h *Handler) handleListExamSessions(w http.ResponseWriter, r *http.Request) {
	list, err := h.Exams.ListExamSessions(r.Context(), principal(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]examSessionResponse, 0, len(list))
	for i := range list {
		out = append(out, newExamSessionResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
