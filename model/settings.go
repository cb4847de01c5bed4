package model

type AppSettings struct {
	EnableWelcome bool `json:"enableWelcome"`
	EnableSfx     bool `json:"enableSfx"`
}

func DefaultSettings() AppSettings {
	return AppSettings{EnableWelcome: true, EnableSfx: true}
}

// WelcomeStatus is the transient voice status shown by the client.
type WelcomeStatus string

const (
	WelcomeIdle         WelcomeStatus = "idle"
	WelcomeInitializing WelcomeStatus = "initializing"
	WelcomeSpeaking     WelcomeStatus = "speaking"
)
