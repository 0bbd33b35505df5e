// Package mock simulates the insurance decisioning agent with
// randomized canned responses and configurable latency. It is demo
// scaffolding behind the agent.Client interface, not a contract.
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sunrisehealth/portal-api/internal/agent"
	"github.com/sunrisehealth/portal-api/internal/model"
)

// Config controls the simulated latency of each operation.
type Config struct {
	EligibilityDelay time.Duration
	PreAuthDelay     time.Duration
}

type Client struct {
	cfg    Config
	logger *zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

var _ agent.Client = (*Client)(nil)

func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	if cfg.EligibilityDelay == 0 {
		cfg.EligibilityDelay = 1500 * time.Millisecond
	}
	if cfg.PreAuthDelay == 0 {
		cfg.PreAuthDelay = 2 * time.Second
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CheckEligibility resolves after the configured delay with a
// randomized outcome: ~90% eligible, and ~70% of eligible cases
// require pre-authorization.
func (c *Client) CheckEligibility(_ context.Context, req *model.EligibilityRequest) (*model.EligibilityResponse, error) {
	c.logger.Debug().
		Str("member_id", req.Patient.MemberID).
		Str("procedure_code", req.Clinical.ProcedureCode).
		Msg("mock agent: checking eligibility")

	time.Sleep(c.cfg.EligibilityDelay)

	c.mu.Lock()
	eligible := c.rng.Float64() > 0.1
	preAuthRequired := eligible && c.rng.Float64() > 0.3
	requestID := fmt.Sprintf("ELIG-%d", 10000+c.rng.Intn(90000))
	c.mu.Unlock()

	resp := &model.EligibilityResponse{
		Eligible:        eligible,
		PreAuthRequired: preAuthRequired,
		Metadata: model.ResponseMetadata{
			RequestID: requestID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	if eligible {
		resp.PlanBenefits = &model.PlanBenefits{
			Copay:               40,
			Deductible:          1000,
			DeductibleRemaining: 350,
			Coinsurance:         "20%",
			CoveragePercent:     80,
		}
		resp.Evidence = []string{
			fmt.Sprintf("CPT %s is a covered benefit under %s.", req.Clinical.ProcedureCode, req.Patient.InsurancePlan),
			"Prior Authorization is required for surgical orthopedic procedures.",
			fmt.Sprintf("Diagnosis %s meets medical necessity criteria.", req.Clinical.DiagnosisCode),
		}
	} else {
		resp.Evidence = []string{
			fmt.Sprintf("Procedure %s is not covered under the patient's current plan.", req.Clinical.ProcedureCode),
			"Patient plan does not include elective surgical benefits.",
		}
	}

	return resp, nil
}

// SubmitPreAuth resolves after the configured delay with a Submitted
// confirmation.
func (c *Client) SubmitPreAuth(_ context.Context, req *model.PreAuthRequest) (*model.PreAuthResponse, error) {
	c.logger.Debug().
		Str("eligibility_request_id", req.EligibilityRequestID).
		Int("documents", len(req.Documents)).
		Msg("mock agent: submitting pre-auth")

	time.Sleep(c.cfg.PreAuthDelay)

	c.mu.Lock()
	preAuthID := fmt.Sprintf("PA-%d", 100000+c.rng.Intn(900000))
	c.mu.Unlock()

	return &model.PreAuthResponse{
		PreAuthID:  preAuthID,
		Status:     model.PreAuthStatusSubmitted,
		PARequired: true,
		AIAssessment: model.AIAssessment{
			MedicalNecessityMet: true,
			Evidence: []string{
				"Provided imaging confirms severe osteoarthritis.",
				"Surgical intervention aligns with plan guidelines.",
				"All supporting documents provided.",
			},
		},
		TurnaroundTime: "72 hours",
		Metadata: model.PreAuthMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
