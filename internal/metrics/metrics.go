package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSeen = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindmate_monitor_messages_seen_total",
			Help: "New messages observed by the monitor",
		},
	)

	ResponsesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindmate_monitor_responses_sent_total",
			Help: "Empathetic responses dispatched to the chat",
		},
	)

	CooldownDenied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindmate_monitor_cooldown_denied_total",
			Help: "Qualifying messages dropped because the cooldown gate was closed",
		},
	)

	DispatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindmate_monitor_dispatch_failures_total",
			Help: "Individual send attempts that failed",
		},
	)

	CycleErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindmate_monitor_cycle_errors_total",
			Help: "Polling cycles that ended in a recovered error",
		},
	)

	VoiceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmate_voice_requests_total",
			Help: "Voice companion requests by outcome",
		},
		[]string{"status"},
	)
)
