package maintenance

import (
	"context"

	"homezen/pkg/apiclient"
)

const (
	StatusNew        = "new"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Statuses is the board order of the kanban columns.
var Statuses = []string{StatusNew, StatusInProgress, StatusCompleted}

var Priorities = []string{"low", "medium", "high", "urgent"}

type Request struct {
	ID           apiclient.ID `json:"id"`
	TenantID     apiclient.ID `json:"tenant_id"`
	TenantName   string       `json:"tenant_name,omitempty"`
	UnitNumber   string       `json:"unit_number,omitempty"`
	PropertyName string       `json:"property_name,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Priority     string       `json:"priority"`
	Status       string       `json:"status"`
	CreatedAt    string       `json:"created_at,omitempty"`
	AssignedTo   string       `json:"assigned_to,omitempty"`
}

type NewRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high urgent"`
}

type StatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=new in-progress completed"`
}

type Repository interface {
	GetAll(ctx context.Context) ([]Request, error)
	Create(ctx context.Context, r NewRequest) (*Request, error)
	UpdateStatus(ctx context.Context, id string, u StatusUpdate) (*Request, error)
}
