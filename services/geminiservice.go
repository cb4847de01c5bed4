package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey        string
	TextModel     string
	SpeechModel   string
	Voice         string
	UserName      string
	AssistantName string
}

type dailyQuote struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// GeminiService generates briefings, advice and speech. Every method degrades
// to a fallback value; none of them return errors.
type GeminiService struct {
	client *genai.Client
	cfg    GeminiConfig
	store  *Store
	now    func() time.Time
	logger *zap.Logger
}

// NewGeminiService returns a service without a client when no API key is
// configured.
func NewGeminiService(ctx context.Context, cfg GeminiConfig, store *Store, logger *zap.Logger) (*GeminiService, error) {
	s := &GeminiService{cfg: cfg, store: store, now: time.Now, logger: logger.Named("gemini")}
	if cfg.APIKey == "" {
		s.logger.Warn("no Gemini API key configured, using fallbacks")
		return s, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *GeminiService) Available() bool {
	return s.client != nil
}

func (s *GeminiService) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.cfg.TextModel, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}

// DailyMotivation is generated at most once per calendar day.
func (s *GeminiService) DailyMotivation(ctx context.Context) string {
	today := s.now().Format("2006-01-02")
	if cached := LoadFromStore[*dailyQuote](ctx, s.store, KeyDailyQuote, nil); cached != nil && cached.Date == today {
		return cached.Text
	}

	if !s.Available() {
		return fmt.Sprintf("Good morning, %s! Tackle today with strength and grace. Simple steps lead to big journeys.", s.cfg.UserName)
	}

	prompt := fmt.Sprintf(`You are a personal assistant for a hardworking father named %s. Generate a short Daily Briefing (under 40 words). Include a very short encouraging Bible verse and a practical productivity or health tip for the day. Tone: Warm, professional.`, s.cfg.UserName)
	text, err := s.generateText(ctx, prompt)
	if err != nil {
		s.logger.Warn("daily motivation failed", zap.Error(err))
		return "Trust in the Lord with all your heart. Remember to take breaks today!"
	}
	if text == "" {
		text = "Have a blessed day! Stay hydrated and focused."
	}
	if err := s.store.Save(ctx, KeyDailyQuote, dailyQuote{Date: today, Text: text}); err != nil {
		s.logger.Warn("failed to cache daily motivation", zap.Error(err))
	}
	return text
}

// WelcomeBriefing returns "" when the service is unavailable.
func (s *GeminiService) WelcomeBriefing(ctx context.Context, briefingContext string) string {
	if !s.Available() {
		return ""
	}
	prompt := fmt.Sprintf(`You are '%s', the advanced OS for %s's device.

Context Data:
%s

Generate a spoken briefing (approx 3-4 sentences).
Structure:
1. A short, powerful motivational quote or Bible verse.
2. A quick financial pulse check (mention the balance).
3. A summary of the most critical status (weather or tasks).
4. End with "Systems online."

Tone: Sci-fi, capable, yet warm and encouraging.`, s.cfg.AssistantName, s.cfg.UserName, briefingContext)

	text, err := s.generateText(ctx, prompt)
	if err != nil {
		s.logger.Warn("welcome briefing failed", zap.Error(err))
		return "Welcome back. Systems online."
	}
	if text == "" {
		return fmt.Sprintf("Welcome back, %s. Financials checked. Systems online.", s.cfg.UserName)
	}
	return text
}

func (s *GeminiService) Advice(ctx context.Context, adviceContext, query string) string {
	if !s.Available() {
		return "I need an internet connection and API key to help you decide!"
	}
	prompt := fmt.Sprintf(`You are '%s', a helpful, wise, and calm personal assistant for %s.

Current Context:
%s

User's Question: %q

Provide a short, practical, and decisive answer (max 60 words). If suggesting a decision, explain why briefly. Be encouraging.`, s.cfg.AssistantName, s.cfg.UserName, adviceContext, query)

	text, err := s.generateText(ctx, prompt)
	if err != nil {
		s.logger.Warn("advice failed", zap.Error(err))
		return "I couldn't connect to the server. Try again later."
	}
	if text == "" {
		return "I'm having trouble thinking right now, but I trust your judgement!"
	}
	return text
}

// GenerateSpeech returns base64 raw PCM (24kHz mono s16le), or "" on failure.
func (s *GeminiService) GenerateSpeech(ctx context.Context, text string) string {
	if !s.Available() || text == "" {
		return ""
	}
	resp, err := s.client.Models.GenerateContent(ctx, s.cfg.SpeechModel, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.cfg.Voice},
			},
		},
	})
	if err != nil {
		s.logger.Warn("speech synthesis failed", zap.Error(err))
		return ""
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return base64.StdEncoding.EncodeToString(part.InlineData.Data)
		}
	}
	return ""
}
