package models

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateQuoteRequest represents a quote creation request
type CreateQuoteRequest struct {
	Content string  `json:"content"`
	Author  *string `json:"author"`
	Source  *string `json:"source"`
}

// UpdateQuoteRequest represents a partial quote update request.
// Nil fields are left unchanged.
type UpdateQuoteRequest struct {
	Content *string `json:"content"`
	Author  *string `json:"author"`
	Source  *string `json:"source"`
}

// ChangeRoleRequest represents an admin role change request
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// AuthResponse is returned on successful registration or login
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Message      string `json:"message"`
}

// ProfileResponse is the authenticated user's own record
type ProfileResponse struct {
	User
	EmailVerified bool `json:"email_verified"`
}

// ToggleResponse reports the resulting association state of a
// like/favorite toggle
type ToggleResponse struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

// BulkResult reports how many quotes a bulk admin operation affected
type BulkResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// AuthorQuotesResponse groups an author's quotes under the exact author
// name stored in the database
type AuthorQuotesResponse struct {
	Author string  `json:"author"`
	Quotes []Quote `json:"quotes"`
}
