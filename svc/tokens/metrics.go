package tokens

import "github.com/prometheus/client_golang/prometheus"

var (
	tokensGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenkit",
		Name:      "tokens_generated_total",
		Help:      "Total number of tokens generated, by token type.",
	}, []string{"type"})

	tokenVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenkit",
		Name:      "token_verifications_total",
		Help:      "Total number of token verifications, by result (valid, invalid, error).",
	}, []string{"result"})

	tokenDecodes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenkit",
		Name:      "token_decodes_total",
		Help:      "Total number of token decodes, by result (ok, malformed).",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(tokensGenerated, tokenVerifications, tokenDecodes)
}

const (
	resultValid     = "valid"
	resultInvalid   = "invalid"
	resultError     = "error"
	resultOK        = "ok"
	resultMalformed = "malformed"
)

