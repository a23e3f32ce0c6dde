package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas de negócio
	ActiveVoiceSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voxagenda_active_voice_sessions",
		Help: "Número de sessões de voz ativas",
	})

	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxagenda_turns_total",
		Help: "Total de turnos de conversa processados",
	}, []string{"outcome"})

	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxagenda_bookings_total",
		Help: "Total de agendamentos de calendário",
	}, []string{"status"})

	TurnLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxagenda_turn_latency_seconds",
		Help:    "Latência de processamento de um turno",
		Buckets: prometheus.DefBuckets,
	})

	// Métricas de infraestrutura
	AudioChunksForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voxagenda_audio_chunks_forwarded_total",
		Help: "Total de chunks de áudio encaminhados ao cliente",
	})
)
