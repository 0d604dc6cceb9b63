package dto

import (
	"errors"
	"strings"
	"time"

	dom "taskboard/internal/domain"

	"github.com/go-playground/validator/v10"
)

type CreateTodoRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=255"`
}

type UpdateTodoRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=255"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in_progress done"`
}

type OwnerResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TodoResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	User        OwnerResponse `json:"user"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   *time.Time    `json:"deleted_at"`
}

// TodoPage mirrors the paginator shape the board page consumes.
type TodoPage struct {
	Data        []TodoResponse `json:"data"`
	CurrentPage int            `json:"current_page"`
	PerPage     int            `json:"per_page"`
	Total       int            `json:"total"`
	LastPage    int            `json:"last_page"`
}

// BoardPageResponse is the full listing payload: one page of todos
// (active and trashed together), the valid statuses, and whether the
// requester is an admin.
type BoardPageResponse struct {
	Todos    TodoPage `json:"todos"`
	Statuses []string `json:"statuses"`
	IsAdmin  bool     `json:"is_admin"`
}

func NewTodoResponse(t dom.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		User:        OwnerResponse{ID: t.UserID, Name: t.OwnerName},
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DeletedAt:   t.DeletedAt,
	}
}

func NewBoardPageResponse(p dom.Page, isAdmin bool) BoardPageResponse {
	data := make([]TodoResponse, len(p.Items))
	for i := range p.Items {
		data[i] = NewTodoResponse(p.Items[i])
	}
	statuses := make([]string, 0, 3)
	for _, s := range dom.Statuses() {
		statuses = append(statuses, string(s))
	}
	return BoardPageResponse{
		Todos: TodoPage{
			Data:        data,
			CurrentPage: p.Page,
			PerPage:     p.PerPage,
			Total:       p.Total,
			LastPage:    p.LastPage(),
		},
		Statuses: statuses,
		IsAdmin:  isAdmin,
	}
}

// FieldErrors flattens a gin binding error into field → message, so
// the form can render failures inline. Non-validator errors land under
// "_body".
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_body"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = field + " is required"
		case "max":
			out[field] = field + " must be at most " + fe.Param() + " characters"
		case "oneof":
			out[field] = field + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
		default:
			out[field] = field + " is invalid"
		}
	}
	return out
}
