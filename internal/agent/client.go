// Package agent defines the contract with the external insurance
// decisioning service. Calls are one-shot request/response: no retry,
// no partial result, and no cancellation once issued.
package agent

import (
	"context"

	"github.com/sunrisehealth/portal-api/internal/model"
)

// Client is the eligibility / pre-authorization decisioning capability.
// The bundled mock is one swappable implementation; a real backend can
// be substituted without touching the roster service. Response outcome
// distributions are opaque to callers and must not be assumed.
type Client interface {
	CheckEligibility(ctx context.Context, req *model.EligibilityRequest) (*model.EligibilityResponse, error)
	SubmitPreAuth(ctx context.Context, req *model.PreAuthRequest) (*model.PreAuthResponse, error)
}
