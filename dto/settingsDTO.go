package dto

type UpdateSettingsRequest struct {
	EnableWelcome *bool `json:"enableWelcome"`
	EnableSfx     *bool `json:"enableSfx"`
}
