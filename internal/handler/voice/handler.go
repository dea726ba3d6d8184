package voice

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hack2infi/mindmate/backend/internal/analysis/tone"
	"github.com/hack2infi/mindmate/backend/internal/audio"
	"github.com/hack2infi/mindmate/backend/internal/metrics"
	"github.com/hack2infi/mindmate/backend/internal/service/generation"
	speechsvc "github.com/hack2infi/mindmate/backend/internal/service/speech"
	"github.com/hack2infi/mindmate/backend/pkg/utils"
)

// ReplyGenerator abstracts the generation service so tests can fake it.
type ReplyGenerator interface {
	TherapistReply(ctx context.Context, transcript string, features tone.Features, label tone.Label, lang generation.Language) string
}

// Handler serves the voice companion path: audio in, empathetic audio out.
type Handler struct {
	stt speechsvc.Transcriber
	tts speechsvc.Synthesizer
	gen ReplyGenerator
}

// New creates the voice handler.
func New(stt speechsvc.Transcriber, tts speechsvc.Synthesizer, gen ReplyGenerator) *Handler {
	return &Handler{stt: stt, tts: tts, gen: gen}
}

// RegisterRoutes mounts the voice endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/voice", func(voiceRouter chi.Router) {
		voiceRouter.Post("/respond", h.handleRespond)
		voiceRouter.Get("/health", h.handleHealth)
	})
}

// handleRespond validates the request, derives acoustic tone features,
// transcribes the recording, generates an empathetic reply, and returns it
// as synthesized speech. The uploaded audio lands in a temp file that is
// removed on every exit path.
func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		metrics.VoiceRequests.WithLabelValues("bad_request").Inc()
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		metrics.VoiceRequests.WithLabelValues("bad_request").Inc()
		utils.RespondError(w, http.StatusBadRequest, "no audio file provided")
		return
	}
	defer file.Close()

	langCode := r.FormValue("language")
	if langCode == "" {
		langCode = string(generation.English)
	}
	lang, ok := generation.ParseLanguage(langCode)
	if !ok {
		metrics.VoiceRequests.WithLabelValues("bad_request").Inc()
		utils.RespondError(w, http.StatusBadRequest, "invalid language selected")
		return
	}

	audioPath, err := h.saveUpload(file, header.Filename)
	if err != nil {
		metrics.VoiceRequests.WithLabelValues("error").Inc()
		utils.RespondError(w, http.StatusInternalServerError, "failed to store audio: "+err.Error())
		return
	}
	defer func() {
		if err := os.Remove(audioPath); err != nil {
			log.Printf("[voice] temp cleanup failed for %s: %v", audioPath, err)
		}
	}()

	features, label := h.analyzeTone(audioPath)
	log.Printf("[voice] tone=%s pitch=%.1f energy=%.4f centroid=%.1f", label,
		features.AvgPitchHz, features.AvgEnergy, features.SpectralCentroid)

	transcript, err := h.stt.Transcribe(r.Context(), audioPath, string(lang))
	if err != nil {
		metrics.VoiceRequests.WithLabelValues("error").Inc()
		utils.RespondError(w, http.StatusInternalServerError, "transcription failed: "+err.Error())
		return
	}
	log.Printf("[voice] transcript: %s", transcript)

	reply := h.gen.TherapistReply(r.Context(), transcript, features, label, lang)

	spoken, err := h.tts.Synthesize(r.Context(), reply)
	if err != nil {
		metrics.VoiceRequests.WithLabelValues("error").Inc()
		utils.RespondError(w, http.StatusInternalServerError, "synthesis failed: "+err.Error())
		return
	}

	metrics.VoiceRequests.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(spoken)))
	w.Header().Set("X-Mindmate-Tone", string(label))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(spoken); err != nil {
		log.Printf("[voice] failed to write audio response: %v", err)
	}
}

// saveUpload stores the multipart part under a unique temp path.
func (h *Handler) saveUpload(file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".wav"
	}
	path := filepath.Join(os.TempDir(), "mindmate-"+uuid.NewString()+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// analyzeTone decodes the recording and classifies it. Undecodable audio
// degrades to zero features and a non-stressed label instead of failing
// the request.
func (h *Handler) analyzeTone(audioPath string) (tone.Features, tone.Label) {
	f, err := os.Open(audioPath)
	if err != nil {
		log.Printf("[voice] tone analysis skipped, open failed: %v", err)
		return tone.Analyze(nil, audio.TargetRate)
	}
	defer f.Close()

	samples, err := audio.DecodeWAV(f)
	if err != nil {
		log.Printf("[voice] tone analysis degraded, decode failed: %v", err)
		return tone.Analyze(nil, audio.TargetRate)
	}
	return tone.Analyze(samples, audio.TargetRate)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "voice",
	})
}
