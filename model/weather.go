package model

// WeatherSnapshot holds the current conditions. WeatherCode is a WMO code.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"`
	WeatherCode int     `json:"weatherCode"`
}

// Adverse reports rain, snow, showers or storms (WMO codes above 50).
func (w WeatherSnapshot) Adverse() bool {
	return w.WeatherCode > 50
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
