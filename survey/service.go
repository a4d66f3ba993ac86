// Package survey implements the pipeline behind the API: validation,
// classification, anonymization, capacity eviction, summary recomputation
// and retention maintenance, all over a storage.Store handle.
package survey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthpulse/classify"
	"healthpulse/export"
	"healthpulse/models"
	"healthpulse/stats"
	"healthpulse/storage"
)

// ErrInvalid marks validation failures; the write is rejected and prior
// state stays untouched.
var ErrInvalid = errors.New("invalid request")

// maintenanceEvery is how long after the last recorded cleanup the retention
// pass runs again.
const maintenanceEvery = 7 * 24 * time.Hour

// Service serializes all record access behind one mutex: every operation
// runs to completion before the next one touches the store, matching the
// single-logical-thread semantics the records were designed for.
type Service struct {
	mu    sync.Mutex
	store storage.Store
	log   *zap.Logger
	now   func() time.Time
}

func New(store storage.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Submit runs the full write path for one survey response: validate,
// classify, anonymize when configured, append with oldest-first eviction,
// rebuild the statistics summary, then run retention maintenance when a week
// has passed since the last cleanup.
func (s *Service) Submit(ctx context.Context, p models.SubmitPayload) (models.Response, error) {
	if err := validate(p); err != nil {
		return models.Response{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return models.Response{}, err
	}

	now := s.now().UTC()
	ts := now
	if p.Timestamp != nil && !p.Timestamp.IsZero() {
		ts = p.Timestamp.UTC()
	}

	resp := models.Response{
		ID:         uuid.NewString(),
		Timestamp:  ts,
		ReceivedAt: now,
		Demographics: models.Demographics{
			AgeGroup: p.AgeGroup,
			Gender:   p.Gender,
			Location: strings.TrimSpace(p.Location),
		},
		Lifestyle: models.Lifestyle{
			Activity: p.Activity,
			Diet:     p.Diet,
			Sleep:    p.Sleep,
			Smoking:  p.Smoking,
			Alcohol:  p.Alcohol,
		},
		MedicalConditions: p.MedicalConditions,
		OverallHealth:     p.OverallHealth,
		Comment:           strings.TrimSpace(p.Comment),
	}

	res := classify.Classify(resp.Lifestyle, resp.OverallHealth, resp.MedicalConditions)
	resp.Classification = res.Classification
	resp.Score = res.Score
	resp.RiskFactors = res.RiskFactors
	if err := checkDerived(resp); err != nil {
		return models.Response{}, err
	}

	if settings.AnonymizeOnWrite {
		anonymize(&resp)
	}

	responses, err := s.store.LoadResponses(ctx)
	if err != nil {
		return models.Response{}, err
	}
	responses = append(responses, resp)
	if settings.MaxResponses > 0 && len(responses) > settings.MaxResponses {
		evicted := len(responses) - settings.MaxResponses
		responses = responses[evicted:]
		s.log.Info("capacity eviction",
			zap.Int("evicted", evicted),
			zap.Int("max", settings.MaxResponses))
	}
	if err := s.store.SaveResponses(ctx, responses); err != nil {
		return models.Response{}, err
	}
	if err := s.store.SaveSummary(ctx, stats.Aggregate(responses)); err != nil {
		return models.Response{}, err
	}

	if err := s.maintain(ctx, settings, responses); err != nil {
		// The response is already stored; a failed cleanup retries on a
		// later write.
		s.log.Warn("retention maintenance failed", zap.Error(err))
	}

	return resp, nil
}

// ListQuery selects and pages the stored collection.
type ListQuery struct {
	Limit          int
	Offset         int
	Classification string
	AgeGroup       string
}

// ListResult is a newest-first page over the insertion-ordered collection.
type ListResult struct {
	Items  []models.Response
	Total  int
	Limit  int
	Offset int
}

// List returns a newest-first page of stored responses, optionally filtered
// by classification and age group.
func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	responses, err := s.store.LoadResponses(ctx)
	if err != nil {
		return ListResult{}, err
	}

	matched := 0
	items := make([]models.Response, 0, q.Limit)
	for i := len(responses) - 1; i >= 0; i-- {
		r := responses[i]
		if q.Classification != "" && r.Classification != q.Classification {
			continue
		}
		if q.AgeGroup != "" && r.Demographics.AgeGroup != q.AgeGroup {
			continue
		}
		if matched >= q.Offset && len(items) < q.Limit {
			items = append(items, r)
		}
		matched++
	}

	return ListResult{Items: items, Total: matched, Limit: q.Limit, Offset: q.Offset}, nil
}

// Statistics returns the stored summary record. With recompute it rebuilds
// the summary from the collection and stores the result first.
func (s *Service) Statistics(ctx context.Context, recompute bool) (models.StatisticsSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !recompute {
		return s.store.LoadSummary(ctx)
	}
	responses, err := s.store.LoadResponses(ctx)
	if err != nil {
		return models.StatisticsSummary{}, err
	}
	summary := stats.Aggregate(responses)
	if err := s.store.SaveSummary(ctx, summary); err != nil {
		return models.StatisticsSummary{}, err
	}
	return summary, nil
}

// Export renders the stored data in the requested format. An empty format
// falls back to the stored export preference.
func (s *Service) Export(ctx context.Context, format string) (export.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return export.File{}, err
	}
	if format == "" {
		format = settings.ExportFormat
	}

	responses, err := s.store.LoadResponses(ctx)
	if err != nil {
		return export.File{}, err
	}

	switch format {
	case models.FormatJSON:
		summary, err := s.store.LoadSummary(ctx)
		if err != nil {
			return export.File{}, err
		}
		return export.JSON(responses, summary, s.now())
	case models.FormatCSV:
		return export.CSV(responses, s.now())
	case models.FormatXLSX:
		return export.XLSX(responses, s.now())
	default:
		return export.File{}, fmt.Errorf("%w: unknown export format %q", ErrInvalid, format)
	}
}

// Settings returns the stored settings record.
func (s *Service) Settings(ctx context.Context) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadSettings(ctx)
}

// UpdateSettings merges the non-nil payload fields into the stored record.
// Invalid values reject the whole update, leaving prior state untouched.
func (s *Service) UpdateSettings(ctx context.Context, p models.SettingsPayload) (models.Settings, error) {
	if p.RetentionDays != nil && *p.RetentionDays < 1 {
		return models.Settings{}, fmt.Errorf("%w: retention_days must be >= 1", ErrInvalid)
	}
	if p.MaxResponses != nil && *p.MaxResponses < 1 {
		return models.Settings{}, fmt.Errorf("%w: max_responses must be >= 1", ErrInvalid)
	}
	if p.ExportFormat != nil {
		switch *p.ExportFormat {
		case models.FormatJSON, models.FormatCSV, models.FormatXLSX:
		default:
			return models.Settings{}, fmt.Errorf("%w: unknown export format %q", ErrInvalid, *p.ExportFormat)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if p.RetentionDays != nil {
		settings.RetentionDays = *p.RetentionDays
	}
	if p.MaxResponses != nil {
		settings.MaxResponses = *p.MaxResponses
	}
	if p.AnonymizeOnWrite != nil {
		settings.AnonymizeOnWrite = *p.AnonymizeOnWrite
	}
	if p.ExportFormat != nil {
		settings.ExportFormat = *p.ExportFormat
	}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// maintain deletes responses older than the retention window once a week,
// rewrites the summary from the remainder and stamps the cleanup time.
func (s *Service) maintain(ctx context.Context, settings models.Settings, responses []models.Response) error {
	now := s.now().UTC()
	if now.Sub(settings.LastCleanup) < maintenanceEvery {
		return nil
	}

	cutoff := now.AddDate(0, 0, -settings.RetentionDays)
	kept := make([]models.Response, 0, len(responses))
	for _, r := range responses {
		if !r.Timestamp.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	if removed := len(responses) - len(kept); removed > 0 {
		if err := s.store.SaveResponses(ctx, kept); err != nil {
			return err
		}
		if err := s.store.SaveSummary(ctx, stats.Aggregate(kept)); err != nil {
			return err
		}
		s.log.Info("retention cleanup",
			zap.Int("removed", removed),
			zap.Int("kept", len(kept)),
			zap.Int("retention_days", settings.RetentionDays))
	}

	settings.LastCleanup = now
	return s.store.SaveSettings(ctx, settings)
}

func validate(p models.SubmitPayload) error {
	required := []struct {
		name, value string
	}{
		{"age_group", p.AgeGroup},
		{"gender", p.Gender},
		{"activity", p.Activity},
		{"diet", p.Diet},
		{"sleep", p.Sleep},
		{"smoking", p.Smoking},
		{"alcohol", p.Alcohol},
		{"overall_health", p.OverallHealth},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: missing %s", ErrInvalid, f.name)
		}
	}
	if len(p.MedicalConditions) == 0 {
		return fmt.Errorf(`%w: missing medical_conditions (use ["none"])`, ErrInvalid)
	}
	hasNone := false
	for _, c := range p.MedicalConditions {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: empty medical condition tag", ErrInvalid)
		}
		if c == models.CondNone {
			hasNone = true
		}
	}
	if hasNone && len(p.MedicalConditions) > 1 {
		return fmt.Errorf(`%w: "none" excludes other medical conditions`, ErrInvalid)
	}
	return nil
}

// checkDerived guards the stored invariants on the derived fields.
func checkDerived(r models.Response) error {
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("%w: score %d out of range", ErrInvalid, r.Score)
	}
	switch r.Classification {
	case models.ClassHealthy, models.ClassModerate, models.ClassAbnormal:
		return nil
	default:
		return fmt.Errorf("%w: classification %q not recognized", ErrInvalid, r.Classification)
	}
}
