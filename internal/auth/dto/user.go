package dto

import "time"

type UserOutput struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	FailedAttempts int       `json:"failed_attempts"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UpdateRoleInput struct {
	Role string `json:"role"`
}

type LoginAttemptOutput struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	IPAddress   string    `json:"ip_address"`
	AttemptTime time.Time `json:"attempt_time"`
	Successful  bool      `json:"successful"`
}
