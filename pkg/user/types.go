package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account in the quiz_users collection.
// Password holds only the bcrypt digest; OTPSecret is the base32-encoded
// TOTP secret generated once at registration.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	OTPSecret  string             `bson:"otpSecret" json:"-"`
	IsVerified bool               `bson:"isVerified" json:"is_verified"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updated_at"`
}

// ApiUser is the shape user data takes in API responses
type ApiUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ToApiUser maps a stored record to its response shape
func (u *User) ToApiUser() ApiUser {
	return ApiUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
	}
}
