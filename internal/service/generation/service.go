package generation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/hack2infi/mindmate/backend/internal/analysis/tone"
)

// FallbackReply is returned whenever the model cannot produce a usable
// response. Generation failures are never surfaced to callers.
const FallbackReply = "I'm here for you. Try taking 5 slow, deep breaths."

const companionSystemPrompt = "You are a mental health companion. Detect signs of stress or " +
	"anxiety in what the user says and respond with a short, empathetic message followed by a " +
	"coping strategy (e.g., breathing exercise, journal prompt, mindfulness activity). Keep it " +
	"conversational and supportive, and under 80 words. Respond entirely in {language}."

// Service turns user text (optionally with acoustic affect context) into
// empathetic prose via a prompt-template chat chain.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the generation chain. A nil chat model yields a
// disabled service that always answers with the fallback.
func NewService(ctx context.Context, chatModel model.BaseChatModel) (*Service, error) {
	svc := &Service{}
	if chatModel == nil {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(companionSystemPrompt),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}
	svc.chain = runnable
	return svc, nil
}

// Enabled reports whether a model is wired in.
func (s *Service) Enabled() bool {
	return s != nil && s.chain != nil
}

// ReplyTo produces an empathetic reply to a chat message. Never fails: any
// model or parsing problem degrades to the fixed fallback.
func (s *Service) ReplyTo(ctx context.Context, userText string) string {
	return s.invoke(ctx, English, "A user said: "+quoted(userText))
}

// TherapistReply produces a spoken-companion reply conditioned on both the
// transcript and the acoustic tone analysis, in the target language.
func (s *Service) TherapistReply(ctx context.Context, transcript string, features tone.Features, label tone.Label, lang Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The user said: %s\n", quoted(transcript))
	fmt.Fprintf(&b, "Voice tone analysis indicates: tone=%s, average pitch=%.2f Hz, "+
		"average energy=%.4f, spectral centroid=%.2f, zero crossing rate=%.4f, mean MFCC=%.2f.\n",
		label, features.AvgPitchHz, features.AvgEnergy, features.SpectralCentroid,
		features.ZeroCrossingRate, features.MFCCMean())
	b.WriteString("Reflect their emotions back to them in a caring way, using their own words " +
		"and tone insights where possible. Then identify one key emotional problem they might be " +
		"facing, suggest one likely cause tied to what they said and their tone, and offer one " +
		"simple prevention tip. Finally, provide exactly one coping strategy based on their " +
		"emotional state and tone.")
	return s.invoke(ctx, lang, b.String())
}

func (s *Service) invoke(ctx context.Context, lang Language, query string) string {
	if !s.Enabled() {
		return FallbackReply
	}

	input := map[string]any{
		"language": lang.Name(),
		"query":    query,
	}

	msg, err := s.chain.Invoke(ctx, input)
	if err != nil {
		log.Printf("[generation] chain invoke failed, using fallback: %v", err)
		return FallbackReply
	}
	reply := strings.TrimSpace(StripEmojis(msg.Content))
	if reply == "" {
		return FallbackReply
	}
	return reply
}

// quoted wraps user-supplied text before it is embedded in a prompt.
func quoted(text string) string {
	return "'" + strings.TrimSpace(text) + "'"
}
