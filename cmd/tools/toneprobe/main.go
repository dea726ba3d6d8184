package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hack2infi/mindmate/backend/internal/analysis/tone"
	"github.com/hack2infi/mindmate/backend/internal/audio"
	"github.com/hack2infi/mindmate/backend/internal/config"
	"github.com/hack2infi/mindmate/backend/internal/service/speech"
)

// toneprobe is a manual test harness for the acoustic pipeline: run the
// tone classifier over a local recording, or poke the speech service
// directly without going through the HTTP surface.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] could not load .env, using system environment: %v", err)
	}

	mode := flag.String("mode", "tone", "probe mode: tone, asr or tts")
	audioPath := flag.String("audio", "", "input audio file path (tone/asr)")
	text := flag.String("text", "", "input text (tts)")
	outputPath := flag.String("out", "probe-output.wav", "output audio path (tts)")
	language := flag.String("lang", "en", "language code (asr)")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")

	flag.Parse()

	switch *mode {
	case "tone":
		runTone(*audioPath)
	case "asr":
		runASR(*audioPath, *language, *timeout)
	case "tts":
		runTTS(*text, *outputPath, *timeout)
	default:
		flag.Usage()
		log.Fatal("specify -mode=tone, -mode=asr or -mode=tts")
	}
}

func runTone(audioPath string) {
	if audioPath == "" {
		log.Fatal("tone mode needs -audio")
	}

	f, err := os.Open(audioPath)
	if err != nil {
		log.Fatalf("open audio: %v", err)
	}
	defer f.Close()

	samples, err := audio.DecodeWAV(f)
	if err != nil {
		log.Fatalf("decode wav: %v", err)
	}

	features, label := tone.Analyze(samples, audio.TargetRate)
	fmt.Printf("label:             %s\n", label)
	fmt.Printf("avg pitch:         %.2f Hz\n", features.AvgPitchHz)
	fmt.Printf("avg energy:        %.4f\n", features.AvgEnergy)
	fmt.Printf("spectral centroid: %.2f Hz\n", features.SpectralCentroid)
	fmt.Printf("zero crossings:    %.4f\n", features.ZeroCrossingRate)
	fmt.Printf("mean mfcc:         %.2f\n", features.MFCCMean())
}

func newSpeechService() *speech.Service {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.Speech.Enabled {
		log.Fatal("speech service disabled, set OPENAI_API_KEY first")
	}
	return speech.NewService(cfg.Speech.APIKey, cfg.Speech.Voice)
}

func runASR(audioPath, language string, timeout time.Duration) {
	if audioPath == "" {
		log.Fatal("asr mode needs -audio")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	transcript, err := newSpeechService().Transcribe(ctx, audioPath, language)
	if err != nil {
		log.Fatalf("transcription failed: %v", err)
	}
	fmt.Printf("transcript: %s\n", transcript)
}

func runTTS(text, outputPath string, timeout time.Duration) {
	if text == "" {
		log.Fatal("tts mode needs -text")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	spoken, err := newSpeechService().Synthesize(ctx, text)
	if err != nil {
		log.Fatalf("synthesis failed: %v", err)
	}
	if err := os.WriteFile(outputPath, spoken, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf("wrote %d bytes to %s\n", len(spoken), outputPath)
}
