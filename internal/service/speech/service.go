// Package speech wraps the speech-to-text and text-to-speech collaborators
// behind narrow interfaces so the voice handler can be tested with fakes.
package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// Synthesizer converts reply text into spoken audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Service is the OpenAI-backed implementation of both directions.
type Service struct {
	client openai.Client
	voice  string
}

// NewService builds the speech service. An empty voice falls back to a
// soothing default.
func NewService(apiKey, voice string) *Service {
	if strings.TrimSpace(voice) == "" {
		voice = "alloy"
	}
	return &Service{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		voice:  voice,
	}
}

// Transcribe runs Whisper over the audio file at audioPath.
func (s *Service) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	resp, err := s.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:    openai.AudioModelWhisper1,
		File:     f,
		Language: openai.String(language),
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Synthesize renders text as WAV audio bytes.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}
	return audio, nil
}
