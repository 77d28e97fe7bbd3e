package model

import "tasklist/shared/model"

const (
	TableName  = "todos"
	EntityName = "todo"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
	FieldOwnerID     = "owner_id"
)

type Todo struct {
	ID          int64   `db:"id"          generated:"true"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
	Completed   bool    `db:"completed"`
	OwnerID     int64   `db:"owner_id"`
	model.Metadata
}
