package http

type SignupResponse struct {
	UserID   uint64 `json:"user_id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	Message  string `json:"message"`
}

type LoginResponse struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type ResendEmailConfirmationResponse struct {
	Message string `json:"message"`
}

type ConfirmEmailResponse struct {
	UserID   uint64 `json:"user_id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	Message  string `json:"message"`
}

type MeResponse struct {
	UserID   uint64 `json:"user_id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
