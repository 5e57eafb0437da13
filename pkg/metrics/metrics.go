package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	SettingsCacheReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "settings_cache_reloads_total", Help: "Number of settings cache reloads by outcome."},
		[]string{"outcome"},
	)
	ContactMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "contact_messages_total", Help: "Number of contact form submissions by spam verdict."},
		[]string{"verdict"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SettingsCacheReloads)
	reg.MustRegister(ContactMessages)
}
