package dto

import (
	"tasklist/internal/domains/todo/model"
	gModel "tasklist/shared/model"
	"tasklist/shared/optional"
	"tasklist/shared/timezone"
	"tasklist/shared/validator"
)

const (
	maxTitleTag       = "max=255"
	maxDescriptionTag = "max=1024"
)

type CreateTodoRequest struct {
	Title       string  `json:"title"       validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
}

// ToModel builds a new, not yet completed todo for owner. Any completion flag in the
// request body is never read.
func (c *CreateTodoRequest) ToModel(ownerID int64, user string) model.Todo {
	now := timezone.Now()

	return model.Todo{
		Title:       c.Title,
		Description: c.Description,
		Completed:   false,
		OwnerID:     ownerID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// ReplaceTodoRequest overwrites title and description. An omitted description clears it.
type ReplaceTodoRequest struct {
	Title       string  `db:"title"       json:"title"       validate:"required,max=255"`
	Description *string `db:"description" json:"description" validate:"omitempty,max=1024"`
}

// PatchTodoRequest applies only the fields present in the body. null counts as absent.
type PatchTodoRequest struct {
	Title       optional.Field[string] `db:"title"       json:"title"`
	Description optional.Field[string] `db:"description" json:"description"`
	Completed   optional.Field[bool]   `db:"completed"   json:"completed"`
}

func (p *PatchTodoRequest) Validate() error {
	if title, ok := p.Title.Get(); ok {
		if err := validator.ValidateVar(title, "required,"+maxTitleTag); err != nil {
			return err //nolint:wrapcheck
		}
	}

	if description, ok := p.Description.Get(); ok {
		if err := validator.ValidateVar(description, maxDescriptionTag); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

type TodoResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	OwnerID     int64   `json:"owner_id"`
}

func (r *TodoResponse) FromModel(model model.Todo) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.Completed = model.Completed
	r.OwnerID = model.OwnerID
}

func FromModels(models []model.Todo) []TodoResponse {
	res := make([]TodoResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
