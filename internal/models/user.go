package models

// Role is one of the two mutually exclusive user categories.
type Role string

const (
	RoleAgent  Role = "agent"
	RoleClient Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAgent || r == RoleClient
}

// SessionUser is the user record cached in the session next to the token.
type SessionUser struct {
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	UserID int64  `json:"userId"`
}

// User represents an account as returned by the backend (password never included).
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// SessionUser projects the account onto the cached session record.
func (u *User) SessionUser() SessionUser {
	return SessionUser{Email: u.Email, Role: u.Role, UserID: u.ID}
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email_address"`
	Password string `json:"password" form:"password" validate:"required,password_policy"`
	Name     string `json:"name" form:"name" validate:"required"`
	Role     Role   `json:"role" form:"role" validate:"required,oneof=agent client"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email_address"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token  string `json:"token"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	UserID int64  `json:"userId"`
}

// SessionUser projects the login response onto the cached session record.
func (r *LoginResponse) SessionUser() SessionUser {
	return SessionUser{Email: r.Email, Role: r.Role, UserID: r.UserID}
}

// ProfileUpdate is the body of PUT /users/profile. Password is optional.
type ProfileUpdate struct {
	Name     string `json:"name,omitempty" form:"name"`
	Password string `json:"password,omitempty" form:"password" validate:"omitempty,password_policy"`
}
