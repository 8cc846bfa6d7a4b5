package maintenance

import (
	"context"
	"strings"

	"homezen/pkg/forms"
)

type ServiceInterface interface {
	GetAll(ctx context.Context) ([]Request, error)
	Create(ctx context.Context, r NewRequest) (*Request, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Request, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

func (s *Service) GetAll(ctx context.Context) ([]Request, error) {
	return s.Repo.GetAll(ctx)
}

func (s *Service) Create(ctx context.Context, r NewRequest) (*Request, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Priority = strings.ToLower(strings.TrimSpace(r.Priority))
	if err := forms.Validate(&r); err != nil {
		return nil, err
	}
	return s.Repo.Create(ctx, r)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*Request, error) {
	u := StatusUpdate{Status: strings.ToLower(strings.TrimSpace(status))}
	if err := forms.Validate(&u); err != nil {
		return nil, err
	}
	return s.Repo.UpdateStatus(ctx, id, u)
}

// Column is one lane of the maintenance board.
type Column struct {
	Status   string
	Requests []Request
}

func (c Column) Label() string {
	switch c.Status {
	case StatusNew:
		return "New"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return c.Status
}

// Board groups requests by status in board order. Requests with a
// status the board does not know land in the first column.
func Board(requests []Request) []Column {
	cols := make([]Column, len(Statuses))
	index := make(map[string]int, len(Statuses))
	for i, s := range Statuses {
		cols[i] = Column{Status: s}
		index[s] = i
	}
	for _, r := range requests {
		i := index[strings.ToLower(r.Status)]
		cols[i].Requests = append(cols[i].Requests, r)
	}
	return cols
}

// Open counts requests not yet completed.
func Open(requests []Request) int {
	n := 0
	for _, r := range requests {
		if !strings.EqualFold(r.Status, StatusCompleted) {
			n++
		}
	}
	return n
}
