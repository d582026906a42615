package user

type UpdateProfileDTO struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

type GoogleLoginDTO struct {
	Code string `json:"code"`
}
