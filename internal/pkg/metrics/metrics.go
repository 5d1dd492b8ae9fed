package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gobiblio"

var (
	// HTTPRequestsTotal conta requisições por método, rota e status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de requisições HTTP processadas.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration mede a latência por método e rota.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latência das requisições HTTP em segundos.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Reservas criadas com sucesso.",
	})

	// ReservationConflicts conta tentativas recusadas por sobreposição ou
	// por aborto de serialização no banco.
	ReservationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_conflicts_total",
		Help:      "Reservas recusadas por conflito de agenda.",
	})

	ReservationsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_cancelled_total",
		Help:      "Reservas canceladas.",
	})

	LoansCheckedOut = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_checked_out_total",
		Help:      "Empréstimos registrados.",
	})

	LoansReturned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_returned_total",
		Help:      "Devoluções registradas.",
	})

	// RegistrationDecisions conta decisões de cadastro por resultado (approved|rejected).
	RegistrationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_decisions_total",
			Help:      "Pedidos de cadastro de leitor processados.",
		},
		[]string{"decision"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Consultas ao cache de livros por resultado (hit|miss|stale|error).",
		},
		[]string{"result"},
	)
)
