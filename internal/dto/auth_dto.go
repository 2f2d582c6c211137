package dto

// SignInRequest carries credentials for user and admin sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest carries a previously issued refresh token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse is returned after a successful sign-up or sign-in.
// User holds either a UserResponse or an AdminResponse.
type AuthResponse struct {
	User         interface{} `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// AccessTokenResponse is returned when exchanging a refresh token.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// LoggedInCountResponse reports how many users hold an active session.
type LoggedInCountResponse struct {
	Count int64 `json:"count"`
}

// PasswordResetRequest asks for a reset link to be mailed.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest sets a new password using a mailed token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}
