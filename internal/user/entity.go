// AngelaMos | 2026
// entity.go

package user

import (
	"slices"
	"strings"
	"time"
)

type User struct {
	ID                  int64      `db:"id"`
	Email               string     `db:"email"`
	PasswordHash        string     `db:"password_hash"`
	Active              bool       `db:"active"`
	TargetDailyCalories int        `db:"target_daily_calories"`
	TokenVersion        int        `db:"token_version"`
	LastLoginAt         *time.Time `db:"last_login_at"`
	CurrentLoginAt      *time.Time `db:"current_login_at"`
	LastLoginIP         *string    `db:"last_login_ip"`
	CurrentLoginIP      *string    `db:"current_login_ip"`
	LoginCount          int        `db:"login_count"`
	RoleNames           string     `db:"role_names"`
	DateCreated         time.Time  `db:"date_created"`
	DateModified        time.Time  `db:"date_modified"`
}

// Roles splits the comma separated role list aggregated by the queries.
func (u *User) Roles() []string {
	if u.RoleNames == "" {
		return []string{}
	}
	return strings.Split(u.RoleNames, ",")
}

func (u *User) HasRole(name string) bool {
	return slices.Contains(u.Roles(), name)
}
