package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/simple-quiz/pkg/api"
)

type Handle struct {
	quizService *QuizService
}

func NewHandle(quizService *QuizService) *Handle {
	return &Handle{quizService: quizService}
}

type collectionsResponseBody struct {
	Success     bool     `json:"success"`
	Collections []string `json:"collections"`
	Count       int      `json:"count"`
}

// ListCollections handles GET /quizes
func (h *Handle) ListCollections(w http.ResponseWriter, r *http.Request) {
	names, err := h.quizService.ListCollections(r.Context())
	if err != nil {
		api.RespondError(w, r, err)
		return
	}

	api.RespondJSON(w, r, http.StatusOK, collectionsResponseBody{
		Success:     true,
		Collections: names,
		Count:       len(names),
	})
}

type questionsResponseBody struct {
	Success bool       `json:"success"`
	Count   int        `json:"count"`
	Data    []Question `json:"data"`
}

// GetQuestions handles GET /quizes/{collectionName}. The optional
// search query filters on question text, case-insensitively.
func (h *Handle) GetQuestions(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collectionName")
	keyword := r.URL.Query().Get("search")

	questions, err := h.quizService.FetchQuestions(r.Context(), collection, keyword)
	if err != nil {
		api.RespondError(w, r, err)
		return
	}

	api.RespondJSON(w, r, http.StatusOK, questionsResponseBody{
		Success: true,
		Count:   len(questions),
		Data:    questions,
	})
}
