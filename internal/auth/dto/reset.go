package dto

type ForgotPasswordInput struct {
	Email string `json:"email"`
}

// ResetTokenOutput stands in for the reset email the original flow
// would send; the token is returned to the caller directly.
type ResetTokenOutput struct {
	ResetToken string `json:"reset_token"`
}

type ResetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
