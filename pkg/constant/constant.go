package constant

const (
	DefaultUserRole = "user"
	AdminRole       = "admin"

	DefaultTokenType = "Bearer"
)
