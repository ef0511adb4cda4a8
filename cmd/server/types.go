package main

import (
	"fmt"

	"github.com/warpalign/warpalign/pkg/warpalign"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBPath         string
	SampleRate     float64
	AllowedOrigins []string
}

// ErrorResponse is the JSON shape of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// AnalyzeRequest is the request body for POST /api/analyze. The reference
// signal is synthesized server-side; Transform names a catalog entry.
type AnalyzeRequest struct {
	Transform   string  `json:"transform"`
	Method      string  `json:"method"`
	DurationSec float64 `json:"duration_sec"`
}

// Validate checks if the request is valid. The sample rate bounds the
// shortest duration that still synthesizes at least one sample.
func (r *AnalyzeRequest) Validate(sampleRate float64) error {
	if _, ok := warpalign.CatalogByName(r.Transform); !ok {
		return fmt.Errorf("unknown transform %q", r.Transform)
	}
	switch warpalign.Method(r.Method) {
	case warpalign.MethodSkew, warpalign.MethodDTW:
	default:
		return fmt.Errorf("method must be %q or %q", warpalign.MethodSkew, warpalign.MethodDTW)
	}
	if r.DurationSec <= 0 || r.DurationSec > 60 {
		return fmt.Errorf("duration_sec must be in (0, 60], got %v", r.DurationSec)
	}
	if r.DurationSec*sampleRate < 1 {
		return fmt.Errorf("duration_sec %v yields no samples at %v Hz", r.DurationSec, sampleRate)
	}
	return nil
}
