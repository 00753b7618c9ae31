package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	q, err := h.Questions.Create(r.Context(), principal(r), req.toModel())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newQuestionResponse(q))
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	limit, skip, err := paging(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	list, err := h.Questions.List(r.Context(), limit, skip)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]questionResponse, 0, len(list))
	for i := range list {
		out = append(out, newQuestionResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.Questions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuestionResponse(q))
}
