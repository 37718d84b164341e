package dto

// LoginRequest represents login credentials. Role must match the account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ann.lee@greenfield.edu"`
	Password string `json:"password" binding:"required" example:"password123"`
	Role     string `json:"role" binding:"required,role" example:"STUDENT" enums:"ADMIN,FACULTY,STUDENT"`
}

// LoginResponse is returned with the Set-Cookie header on success
type LoginResponse struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message" example:"Login successful"`
	User    UserResponse `json:"user"`
}

// LogoutResponse tells the client where to go after the cookie is cleared
type LogoutResponse struct {
	Success  bool   `json:"success" example:"true"`
	Message  string `json:"message" example:"Logged out successfully"`
	Redirect string `json:"redirect" example:"/portal"`
}
