package dto

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Phone    string `json:"phone" binding:"required,numeric,min=10,max=15"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required,max=100"`
	Address  string `json:"address"`
}

type LoginInput struct {
	// Identifier accepts either the email address or the phone number.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type SendOtpRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	OtpType    string `json:"otp_type" binding:"required"`
}

type VerifyRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Otp        string `json:"otp" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	Identifier  string `json:"identifier" binding:"required"`
	Otp         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user"`
}
