package student

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fenix011/student-management-API-c6e/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/students", h.GetAllStudents)
	router.Post("/students", h.CreateStudent)
	router.Get("/students/{id}", h.GetStudent)
	router.Put("/students/{id}", h.UpdateStudent)
	router.Delete("/students/{id}", h.DeleteStudent)
	router.Get("/statistics", h.GetStatistics)
}

// GetAllStudents lists students. A min_grade that is not an integer is
// ignored and the full list is returned.
func (h *Handler) GetAllStudents(w http.ResponseWriter, r *http.Request) {
	var minGrade *int
	if raw := r.URL.Query().Get("min_grade"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			minGrade = &v
		}
	}

	h.logger.InfoContext(r.Context(), "fetching students", "min_grade", logValue(minGrade))
	students, err := h.service.GetAllStudents(r.Context(), minGrade)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, students)
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.studentID(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching student by ID", "id", id)
	student, err := h.service.GetStudentByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, student)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "email", in.Email)
	id, err := h.service.CreateStudent(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, httputil.MessageResponse{
		ID:      id,
		Message: "Student created successfully",
	})
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.studentID(w, r)
	if !ok {
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "updating student", "id", id, "email", in.Email)
	if err := h.service.UpdateStudent(r.Context(), id, in); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, httputil.MessageResponse{Message: "Student updated successfully"})
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.studentID(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "deleting student", "id", id)
	deleted, err := h.service.DeleteStudent(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if !deleted {
		h.handleServiceError(w, r, ErrStudentNotFound)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, httputil.MessageResponse{Message: "Student deleted successfully"})
}

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "computing grade statistics")

	stats, err := h.service.GetStatistics(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, stats)
}

// decodeInput reads the request body. An empty or null body and malformed
// JSON are reported as missing data; a value of the wrong type names its field.
func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in *Input
	err := json.NewDecoder(r.Body).Decode(&in)

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid value for field: "+typeErr.Field)
		return Input{}, false
	case err != nil || in == nil:
		httputil.RespondWithError(w, http.StatusBadRequest, "No JSON data provided")
		return Input{}, false
	}
	return *in, true
}

func (h *Handler) studentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var missing *MissingFieldError
	switch {
	case errors.Is(err, ErrStudentNotFound):
		h.logger.InfoContext(ctx, "student not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
	case errors.As(err, &missing):
		h.logger.InfoContext(ctx, "missing field", "field", missing.Field)
		httputil.RespondWithError(w, http.StatusBadRequest, "Missing required field: "+missing.Field)
	case errors.Is(err, ErrInvalidGrade):
		h.logger.InfoContext(ctx, "invalid grade")
		httputil.RespondWithError(w, http.StatusBadRequest, "Grade must be between 0 and 100")
	case errors.Is(err, ErrDuplicateEmail):
		h.logger.InfoContext(ctx, "duplicate email")
		httputil.RespondWithError(w, http.StatusBadRequest, "Email already exists")
	default:
		h.logger.ErrorContext(ctx, "internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func logValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
