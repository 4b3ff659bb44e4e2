package dto

// RegisterRequest describes the account creation payload.
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	UserType string `json:"userType"`
}

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SessionUserResponse is the identity snapshot returned with a token.
type SessionUserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserType string `json:"userType"`
}

// SessionResponse carries the bearer token and user record the client
// persists locally.
type SessionResponse struct {
	Token string              `json:"token"`
	User  SessionUserResponse `json:"user"`
}
