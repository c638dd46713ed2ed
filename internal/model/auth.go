package model

// SignInRequest is the payload for admin sign-in.
type SignInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// SignInResponse is returned after a successful sign-in.
type SignInResponse struct {
	Token string `json:"token"`
}
