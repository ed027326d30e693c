package entities

import "time"

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email     string `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	FirstName string `gorm:"type:varchar(150)" json:"first_name"`
	LastName  string `gorm:"type:varchar(150)" json:"last_name"`
	Password  string `gorm:"type:varchar(255);not null" json:"-"`

	Timestamp

	Recipes []*Recipe `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// AuthToken is the single live token of a user. Logging out deletes the row,
// which revokes the JWT even before it expires.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Key       string    `gorm:"type:text;not null" json:"key"`
	TokenID   string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"token_id"`
	CreatedAt time.Time `gorm:"type:timestamp;autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
