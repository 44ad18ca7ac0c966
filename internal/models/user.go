// internal/models/user.go
package models

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      Role      `json:"role,omitempty"`
	IsDemo    bool      `json:"isDemo,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is sent to update-profile. ConfirmPassword never leaves the client.
type ProfileUpdate struct {
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	Avatar          string `json:"avatar,omitempty"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"-"`
}

type RoleUpdate struct {
	Role Role `json:"role"`
}

// AuthResponse covers login, signup and demo-login. Older routes return
// the user fields at the top level instead of under "user".
type AuthResponse struct {
	User    User   `json:"user"`
	Token   string `json:"token,omitempty"`
	IsDemo  bool   `json:"isDemo,omitempty"`
	Message string `json:"message,omitempty"`
}

func (a *AuthResponse) UnmarshalJSON(data []byte) error {
	type plain AuthResponse
	aux := struct {
		*plain
		User json.RawMessage `json:"user"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.User) > 0 && string(aux.User) != "null" {
		if err := json.Unmarshal(aux.User, &a.User); err != nil {
			return err
		}
	} else {
		if err := json.Unmarshal(data, &a.User); err != nil {
			return err
		}
	}
	if a.IsDemo {
		a.User.IsDemo = true
	}
	return nil
}

// UserList decodes a bare array or {users: [...]}.
type UserList []User

func (u *UserList) UnmarshalJSON(data []byte) error {
	var arr []User
	if err := json.Unmarshal(data, &arr); err == nil {
		*u = arr
		return nil
	}
	aux := struct {
		Users []User `json:"users"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = aux.Users
	return nil
}
