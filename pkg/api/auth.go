package api

type LoginRequest struct {
	Name string `json:"name"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	User *User `json:"user"`
}
