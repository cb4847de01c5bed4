package dto

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

// StartSessionRequest is sent once the client has loaded. Coordinates are
// optional: the client may not have geolocation.
type StartSessionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

type PermissionRequest struct {
	Permission string `json:"permission" binding:"required,oneof=default granted denied"`
}
