package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID                  bson.ObjectID   `bson:"_id,omitempty"                 json:"_id"`
	Username            string          `bson:"username"                      json:"username"`
	Email               string          `bson:"email"                         json:"email"`
	PasswordHash        string          `bson:"password"                      json:"-"`
	PasswordChangedAt   *time.Time      `bson:"passwordChangedAt"             json:"passwordChangedAt,omitempty"`
	ResetPasswordToken  string          `bson:"resetPasswordToken,omitempty"  json:"-"`
	ResetPasswordExpire *time.Time      `bson:"resetPasswordExpire,omitempty" json:"-"`
	Avatar              string          `bson:"avatar"                        json:"avatar"`
	CoverPhoto          string          `bson:"coverPhoto"                    json:"coverPhoto"`
	ProfilePicture      string          `bson:"profilePicture"                json:"profilePicture"`
	Bio                 string          `bson:"bio"                           json:"bio"`
	Followers           []bson.ObjectID `bson:"followers"                     json:"followers"`
	Following           []bson.ObjectID `bson:"following"                     json:"following"`
	FullName            string          `bson:"fullName"                      json:"fullName"`
	Gender              string          `bson:"gender"                        json:"gender"`
	DOB                 *time.Time      `bson:"dob,omitempty"                 json:"dob,omitempty"`
	Location            string          `bson:"location"                      json:"location"`
	Website             string          `bson:"website"                       json:"website"`
	Phone               string          `bson:"phone"                         json:"phone"`
	CreatedAt           time.Time       `bson:"createdAt"                     json:"createdAt"`
	UpdatedAt           time.Time       `bson:"updatedAt"                     json:"updatedAt"`
}

// Profile is the display identity that replaces a user reference in responses.
type Profile struct {
	ID             bson.ObjectID `bson:"_id"`
	Username       string        `bson:"username"`
	ProfilePicture string        `bson:"profilePicture"`
	Avatar         string        `bson:"avatar"`
}

// AvatarURL prefers the uploaded profile picture over the legacy avatar field.
func (p Profile) AvatarURL() string {
	if p.ProfilePicture != "" {
		return p.ProfilePicture
	}
	return p.Avatar
}

// DeletedProfile stands in for a reference whose user no longer exists.
func DeletedProfile(id bson.ObjectID) Profile {
	return Profile{ID: id, Username: "deleted user"}
}

// ProfileUpdate carries the optional fields of a profile edit; empty values
// are left untouched.
type ProfileUpdate struct {
	FullName       string
	Username       string
	Bio            string
	Gender         string
	DOB            *time.Time
	Location       string
	Website        string
	Phone          string
	ProfilePicture string
	CoverPhoto     string
}
