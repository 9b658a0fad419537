package speech

import (
	"context"
	"fmt"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/config"
)

// AssemblyAITranscriber recognizes speech in one audio chunk per call using
// the AssemblyAI API. Chunks are capped at a fixed short duration, so each
// recognition call's latency is bounded by the backend's own operation
// lifetime; no extra client-side timeout is layered on top.
type AssemblyAITranscriber struct {
	client *aai.Client
	logger *zap.Logger
}

// NewAssemblyAITranscriber creates a transcriber backed by AssemblyAI
func NewAssemblyAITranscriber(cfg *config.SpeechConfig, logger *zap.Logger) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{
		client: aai.NewClient(cfg.APIKey),
		logger: logger,
	}
}

// Transcribe submits the audio URL for recognition in the given language
// and awaits completion. Language codes are passed through opaquely; a
// non-empty altLanguage switches the backend to its own language detection
// for mixed-language content. Zero recognized text is a valid outcome and
// returns an empty string with no error.
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audioURL, language, altLanguage string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(language),
	}
	if altLanguage != "" {
		params.LanguageCode = ""
		params.LanguageDetection = aai.Bool(true)
	}

	submitted, err := t.client.Transcripts.SubmitFromURL(ctx, audioURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit recognition request: %w", err)
	}
	if submitted.ID == nil {
		return "", fmt.Errorf("recognition backend returned no transcript ID")
	}

	if t.logger != nil {
		t.logger.Info("🎙️ Recognition submitted",
			zap.String("transcript_id", *submitted.ID),
			zap.String("language", language),
		)
	}

	transcript, err := t.client.Transcripts.Wait(ctx, *submitted.ID)
	if err != nil {
		return "", fmt.Errorf("failed awaiting recognition: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "recognition failed"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("recognition backend error: %s", msg)
	}

	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}
