package dto

type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type UpdateUserProfile struct {
	UserName     Patch[string] `json:"userName"`
	Gender       Patch[string] `json:"gender"`
	Language     Patch[string] `json:"language"`
	ProfileImage Patch[string] `json:"profileImage"`
	File         *FileUpload   `json:"-"`
}

type UserProfileResponse struct {
	UserName     string  `json:"userName"`
	UserEmail    string  `json:"userEmail,omitempty"`
	Gender       *string `json:"gender"`
	Language     string  `json:"language"`
	ProfileImage *string `json:"profileImage"`
}

type UpdateNameImageRequest struct {
	Name         string `json:"name" form:"name"`
	ProductImage string `json:"product_image" form:"product_image"`
}
