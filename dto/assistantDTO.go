package dto

type AskRequest struct {
	Query string `json:"query" binding:"required,max=2000"`
	// Speak reads the answer aloud on the client.
	Speak bool `json:"speak"`
}
