package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type RegisterReq struct {
	Username string `json:"username" validate:"required,min=3,max=30"  example:"frank"`
	Email    string `json:"email"    validate:"required,email"         example:"frank@example.com"`
	Password string `json:"password" validate:"required,min=6,max=72"  example:"s3cret!"`
}

type LoginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordReq struct {
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type UpdatePasswordReq struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=72"`
}

// UpdateProfileReq is bound from the multipart form of a profile edit.
type UpdateProfileReq struct {
	FullName string `form:"fullName" validate:"omitempty,max=100"`
	Username string `form:"username" validate:"omitempty,min=3,max=30"`
	Bio      string `form:"bio"      validate:"omitempty,max=300"`
	Gender   string `form:"gender"   validate:"omitempty,oneof=male female other"`
	DOB      string `form:"dob"      validate:"omitempty,datetime=2006-01-02"`
	Location string `form:"location" validate:"omitempty,max=100"`
	Website  string `form:"website"  validate:"omitempty,url"`
	Phone    string `form:"phone"    validate:"omitempty,max=30"`
}

type AuthUser struct {
	ID             bson.ObjectID `json:"id"`
	Username       string        `json:"username"`
	Email          string        `json:"email"`
	ProfilePicture string        `json:"profilePicture"`
}

type AuthResp struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    AuthUser `json:"user"`
}

type ValidateResp struct {
	Valid   bool      `json:"valid"`
	User    *AuthUser `json:"user,omitempty"`
	Message string    `json:"message"`
}

// UserProfileResp is a user without credentials, with follow lists resolved.
type UserProfileResp struct {
	ID             bson.ObjectID `json:"_id"`
	Username       string        `json:"username"`
	Email          string        `json:"email"`
	Avatar         string        `json:"avatar"`
	ProfilePicture string        `json:"profilePicture"`
	CoverPhoto     string        `json:"coverPhoto"`
	Bio            string        `json:"bio"`
	FullName       string        `json:"fullName"`
	Gender         string        `json:"gender"`
	DOB            *time.Time    `json:"dob,omitempty"`
	Location       string        `json:"location"`
	Website        string        `json:"website"`
	Phone          string        `json:"phone"`
	Followers      []UserSummary `json:"followers"`
	Following      []UserSummary `json:"following"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// UserCard is the explore/search representation of a user.
type UserCard struct {
	ID             bson.ObjectID   `json:"_id"`
	Username       string          `json:"username"`
	ProfilePicture string          `json:"profilePicture"`
	Followers      []bson.ObjectID `json:"followers"`
	Following      []bson.ObjectID `json:"following"`
	IsFollowing    bool            `json:"isFollowing"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type FollowStatusResp struct {
	IsFollowing bool `json:"isFollowing"`
}
