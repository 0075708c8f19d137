package distance

import (
	"errors"
	"footpath-matrix-service/internal/config"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// OSRMTableProvider implements DurationMatrixProvider on top of the OSRM
// table service (/table/v1/{profile}/{coordinates}).
//
// Each call issues exactly one request with one source and the batch's
// destinations. Retries happen only when maxAttempts > 1.
//
// The provider holds no mutable state and is safe for concurrent use.
type OSRMTableProvider struct {
	session     *http.Client
	baseURL     string
	profile     string
	maxAttempts int
	log         *zap.Logger
}

func NewOSRMTableProvider(cfg config.OSRMConfig, log *zap.Logger) (*OSRMTableProvider, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if cfg.Profile == "" {
		return nil, errors.New("OSRM profile is empty")
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	provider := &OSRMTableProvider{
		session:     &http.Client{Timeout: cfg.Timeout},
		baseURL:     baseURL,
		profile:     cfg.Profile,
		maxAttempts: attempts,
		log:         log,
	}

	return provider, nil
}
