package dto

import (
	todoDto "tasklist/internal/domains/todo/model/dto"
	"tasklist/internal/domains/user/model"
	gModel "tasklist/shared/model"
	"tasklist/shared/timezone"
)

// Rules applied to credentials outside a request body; they mirror the CreateUserRequest tags.
const (
	UsernameRules = "required,notblank,max=64"
	PasswordRules = "required,maxbytes=72"
)

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

func (r *CreateUserRequest) ToModel(createdBy, hashedPassword string) model.User {
	now := timezone.Now()

	return model.User{
		Username:       r.Username,
		HashedPassword: hashedPassword,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
	}
}

type UserResponse struct {
	ID       int64                  `json:"id"`
	Username string                 `json:"username"`
	Todos    []todoDto.TodoResponse `json:"todos"`
}

// FromModel fills the response for a freshly registered user, who owns no todos yet.
func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Username = user.Username
	r.Todos = []todoDto.TodoResponse{}
}
