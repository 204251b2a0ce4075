package helpers

// Request DTOs for identity flows

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
}

// VerifyCodeRequest submits the 6-digit code for either flow; the session
// decides which flow it belongs to.
type VerifyCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	Password  *string `json:"password"`
}
