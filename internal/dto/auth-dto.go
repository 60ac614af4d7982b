package dto

type RegisterRequest struct {
	Name          string `json:"name" form:"name"`
	Email         string `json:"email" form:"email" validate:"omitempty,email"`
	Password      string `json:"password" form:"password"`
	ContactNumber string `json:"contactNumber" form:"contactNumber" validate:"omitempty,contact"`
	LoginMode     string `json:"loginMode" form:"loginMode" validate:"omitempty,oneof=email google facebook twitter"`
	Token         string `json:"token" form:"token"`
}

type UserLogin struct {
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	LoginMode string `json:"loginMode" form:"loginMode" validate:"omitempty,oneof=email google facebook twitter"`
	Token     string `json:"token" form:"token"`
	// Role is accepted for compatibility with older clients and ignored.
	Role string `json:"role" form:"role"`
}

// AuthResult is what register and login hand back to the transport layer.
type AuthResult struct {
	Token     string
	ExpiresAt int64
	User      UserSummary
	// Created is false when a federated login matched an existing user.
	Created bool
	// Federated is set when the caller authenticated with a provider token,
	// whatever mode the matched account was created with.
	Federated        bool
	WorkspaceCreated bool
}

type UserSummary struct {
	ID                uint    `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	ContactNumber     *string `json:"contactNumber"`
	Role              string  `json:"role"`
	LoginMode         string  `json:"loginMode"`
	ActiveAvatar      *string `json:"activeAvatar"`
	ActiveAvatarVoice *string `json:"activeAvatarVoice"`
	Gender            *string `json:"gender"`
	Language          string  `json:"language"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

type SetPasswordRequest struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

type SetRoleRequest struct {
	Role string `json:"role" form:"role"`
}

type FederatedIdentity struct {
	Email         string
	Name          string
	EmailVerified bool
}
