package model

// User is a row of the admin user list.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"isVerified"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Profile is the response of GET /user/me.
type Profile = User

// UserPage is one page of GET /auth/users. Page is zero-based on the wire.
type UserPage struct {
	Users         []User `json:"users"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	TotalElements int    `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
}

// SignUpInput is the body of POST /auth/signup.
type SignUpInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RoleChange is the body of POST /auth/role.
type RoleChange struct {
	UserID  string `json:"userId"`
	NewRole Role   `json:"newRole"`
}
