package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sunrisehealth/portal-api/internal/model"
	apperrors "github.com/sunrisehealth/portal-api/pkg/errors"
)

// Loader fetches the two seed documents consumed when no persisted
// roster exists: a patient list and a per-patient-id treatment-history
// mapping. Sources may be HTTP(S) URLs or local file paths.
type Loader struct {
	client        *http.Client
	patientsSrc   string
	treatmentsSrc string
	logger        *zerolog.Logger
}

func NewLoader(patientsSrc, treatmentsSrc string, logger *zerolog.Logger) *Loader {
	return &Loader{
		client:        &http.Client{Timeout: 10 * time.Second},
		patientsSrc:   patientsSrc,
		treatmentsSrc: treatmentsSrc,
		logger:        logger,
	}
}

// Load fetches both documents concurrently and joins them by patient
// id. If either fetch fails, the whole load fails.
func (l *Loader) Load(ctx context.Context) ([]model.Patient, error) {
	type result struct {
		data []byte
		err  error
	}

	patientsCh := make(chan result, 1)
	treatmentsCh := make(chan result, 1)

	go func() {
		data, err := l.fetch(ctx, l.patientsSrc)
		patientsCh <- result{data, err}
	}()
	go func() {
		data, err := l.fetch(ctx, l.treatmentsSrc)
		treatmentsCh <- result{data, err}
	}()

	patientsRes := <-patientsCh
	treatmentsRes := <-treatmentsCh

	if patientsRes.err != nil {
		return nil, apperrors.NewSeedLoad(fmt.Errorf("patients document: %w", patientsRes.err))
	}
	if treatmentsRes.err != nil {
		return nil, apperrors.NewSeedLoad(fmt.Errorf("treatments document: %w", treatmentsRes.err))
	}

	var patients []model.Patient
	if err := json.Unmarshal(patientsRes.data, &patients); err != nil {
		return nil, apperrors.NewSeedLoad(fmt.Errorf("failed to decode patients document: %w", err))
	}

	var history map[string][]model.Treatment
	if err := json.Unmarshal(treatmentsRes.data, &history); err != nil {
		return nil, apperrors.NewSeedLoad(fmt.Errorf("failed to decode treatments document: %w", err))
	}

	merged := merge(patients, history)
	l.logger.Info().Int("patients", len(merged)).Msg("seeded roster from source documents")
	return merged, nil
}

// merge attaches each patient's treatment history by id. Patients with
// no history entry get an empty treatment log.
func merge(patients []model.Patient, history map[string][]model.Treatment) []model.Patient {
	merged := make([]model.Patient, len(patients))
	for i, p := range patients {
		if treatments, ok := history[strconv.Itoa(p.ID)]; ok {
			p.Treatments = treatments
		}
		if p.Treatments == nil {
			p.Treatments = []model.Treatment{}
		}
		merged[i] = p
	}
	return merged
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return l.fetchHTTP(ctx, src)
	}
	return os.ReadFile(src)
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
