package user

import "time"

// Account is an account row owned by the dashboard backend. PasswordHash is
// written by that backend's auth flow; the proxy never reads it, but the
// seeder fills it so local fixtures look like production rows.
type Account struct {
	ID           string     `gorm:"column:id;primaryKey" json:"id"`
	Email        string     `gorm:"column:email" json:"email"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"-"`
}

func (Account) TableName() string { return "users" }

// CanOwnContent reports whether the account is still authorized for its own
// files. A deactivated or soft-deleted account owns nothing except files
// explicitly marked public.
func (a *Account) CanOwnContent() bool {
	return a.IsActive && a.DeletedAt == nil
}
