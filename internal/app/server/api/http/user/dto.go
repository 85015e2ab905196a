package user

type credentials struct {
	Email    string `json:"email" format:"email" doc:"Account email"`
	Password string `json:"password" minLength:"8" maxLength:"72" doc:"Account password"`
}

type registerInput struct {
	Body credentials
}

type loginInput struct {
	Body credentials
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authOutput struct {
	Body AuthResponse
}

// AuthResponse is returned by both register and login: a bearer token plus
// the account it belongs to.
type AuthResponse struct {
	Token string   `json:"token"`
	User  userInfo `json:"user"`
}

type meInput struct{}

type meOutput struct {
	Body userInfo
}
