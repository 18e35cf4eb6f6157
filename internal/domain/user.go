package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// User is the employer account as reported by /auth/me. The dashboard never
// mutates it; it re-queries after login and logout instead.
type User struct {
	ID          string    `json:"id"`
	DisplayName *string   `json:"displayName"`
	YandexLogin *string   `json:"yandexLogin"`
	Email       *string   `json:"email"`
	AvatarURL   *string   `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) Name() string {
	switch {
	case u.DisplayName != nil && *u.DisplayName != "":
		return *u.DisplayName
	case u.YandexLogin != nil && *u.YandexLogin != "":
		return *u.YandexLogin
	default:
		return "Пользователь"
	}
}

func (u *User) Handle() string {
	switch {
	case u.Email != nil && *u.Email != "":
		return *u.Email
	case u.YandexLogin != nil && *u.YandexLogin != "":
		return "@" + *u.YandexLogin
	default:
		return u.ID
	}
}

func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
