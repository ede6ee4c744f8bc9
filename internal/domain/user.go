package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Roles lists the accepted values of User.Role in declaration order.
var Roles = []string{RoleUser, RoleAdmin}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) ToggleActive() {
	u.IsActive = !u.IsActive
}
