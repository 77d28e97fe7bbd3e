package model

import "tasklist/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID             = "id"
	FieldUsername       = "username"
	FieldHashedPassword = "hashed_password"
)

// User is an account. HashedPassword holds the digest only, never the plaintext.
type User struct {
	ID             int64  `db:"id"              generated:"true"`
	Username       string `db:"username"`
	HashedPassword string `db:"hashed_password"`
	model.Metadata
}
