package dto

// ContactRequest is a message from the public contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=200" example:"Pat Doe"`
	Email   string `json:"email" binding:"required,email" example:"pat@example.com"`
	Message string `json:"message" binding:"required,max=5000" example:"When is the next open house?"`
}
