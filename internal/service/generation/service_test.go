package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/hack2infi/mindmate/backend/internal/analysis/tone"
)

type fakeChatModel struct {
	reply    string
	err      error
	received []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.received = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported in fake")
}

func newTestService(t *testing.T, fake *fakeChatModel) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), fake)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	return svc
}

func TestReplyToUsesModelOutput(t *testing.T) {
	fake := &fakeChatModel{reply: "That sounds heavy. Try one slow breath with me."}
	svc := newTestService(t, fake)

	got := svc.ReplyTo(context.Background(), "I feel so hopeless and tired")
	if got != fake.reply {
		t.Fatalf("ReplyTo = %q, want model output", got)
	}

	var sawUserText bool
	for _, m := range fake.received {
		if strings.Contains(m.Content, "I feel so hopeless and tired") {
			sawUserText = true
		}
	}
	if !sawUserText {
		t.Error("user text never reached the model prompt")
	}
}

func TestReplyToStripsEmojis(t *testing.T) {
	fake := &fakeChatModel{reply: "You are not alone \U0001F60A, breathe \U0001F32C"}
	svc := newTestService(t, fake)

	got := svc.ReplyTo(context.Background(), "feeling lonely")
	if strings.ContainsRune(got, '\U0001F60A') || strings.ContainsRune(got, '\U0001F32C') {
		t.Fatalf("emoji survived stripping: %q", got)
	}
	if !strings.Contains(got, "You are not alone") {
		t.Fatalf("text content lost: %q", got)
	}
}

func TestReplyToFallsBackOnModelError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("upstream 500")}
	svc := newTestService(t, fake)

	if got := svc.ReplyTo(context.Background(), "so anxious"); got != FallbackReply {
		t.Fatalf("expected fallback on model error, got %q", got)
	}
}

func TestReplyToFallsBackOnEmptyOutput(t *testing.T) {
	fake := &fakeChatModel{reply: "   "}
	svc := newTestService(t, fake)

	if got := svc.ReplyTo(context.Background(), "so anxious"); got != FallbackReply {
		t.Fatalf("expected fallback on empty output, got %q", got)
	}
}

func TestDisabledServiceAlwaysFallsBack(t *testing.T) {
	svc, err := NewService(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	if svc.Enabled() {
		t.Fatal("service without a model should report disabled")
	}
	if got := svc.ReplyTo(context.Background(), "anything"); got != FallbackReply {
		t.Fatalf("disabled service should fall back, got %q", got)
	}
}

func TestTherapistReplyEmbedsToneContext(t *testing.T) {
	fake := &fakeChatModel{reply: "ठीक है, हम साथ में सांस लेते हैं।"}
	svc := newTestService(t, fake)

	features := tone.Features{AvgPitchHz: 210, AvgEnergy: 0.07, SpectralCentroid: 2400}
	got := svc.TherapistReply(context.Background(), "sab kuch bahut mushkil lag raha hai", features, tone.Stressed, Hindi)
	if got != fake.reply {
		t.Fatalf("TherapistReply = %q", got)
	}

	var prompt strings.Builder
	for _, m := range fake.received {
		prompt.WriteString(m.Content)
		prompt.WriteString("\n")
	}
	for _, want := range []string{"tone=stressed", "average pitch=210.00", "Hindi"} {
		if !strings.Contains(prompt.String(), want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt.String())
		}
	}
}

func TestParseLanguage(t *testing.T) {
	for _, code := range []string{"en", "hi", "mr"} {
		if _, ok := ParseLanguage(code); !ok {
			t.Errorf("ParseLanguage(%q) rejected a supported code", code)
		}
	}
	if _, ok := ParseLanguage("fr"); ok {
		t.Error("ParseLanguage accepted an unsupported code")
	}
}
