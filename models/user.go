package models

// User is the profile returned by the backend on login.
type User struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Session is the locally cached identity that gates cart and order calls.
type Session struct {
	User  User
	Token string
}

// Registration is the sign-up form.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// ProfileUpdate carries the editable profile fields; all are required.
type ProfileUpdate struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// PasswordChange is the change-password form.
type PasswordChange struct {
	Old     string `validate:"required"`
	New     string `validate:"required,min=6"`
	Confirm string `validate:"required,eqfield=New"`
}
