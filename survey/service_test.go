package survey

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthpulse/export"
	"healthpulse/models"
	"healthpulse/storage"
)

func newTestService(t *testing.T) (*Service, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	svc := New(store, zap.NewNop())
	return svc, store
}

func payload() models.SubmitPayload {
	return models.SubmitPayload{
		AgeGroup:          "26-35",
		Gender:            "female",
		Location:          "Freetown, Western Area",
		Activity:          "sedentary",
		Diet:              "balanced",
		Sleep:             "7-8",
		Smoking:           "never",
		Alcohol:           "never",
		MedicalConditions: []string{"none"},
		OverallHealth:     "good",
		Comment:           "feeling fine",
	}
}

func TestSubmitStoresClassifiedResponse(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, payload())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, models.ClassHealthy, resp.Classification)
	assert.Equal(t, 90, resp.Score)
	assert.Equal(t, []string{"Sedentary lifestyle"}, resp.RiskFactors)

	stored, err := store.LoadResponses(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, resp, stored[0])

	// The summary record was rewritten from the collection.
	summary, err := store.LoadSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalResponses)
	assert.Equal(t, 1, summary.Classifications[models.ClassHealthy])
	assert.Equal(t, 1, summary.Demographics.Locations["Freetown"])
}

func TestSubmitValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	cases := map[string]func(*models.SubmitPayload){
		"missing age group":    func(p *models.SubmitPayload) { p.AgeGroup = "" },
		"missing gender":       func(p *models.SubmitPayload) { p.Gender = " " },
		"missing sleep":        func(p *models.SubmitPayload) { p.Sleep = "" },
		"missing overall":      func(p *models.SubmitPayload) { p.OverallHealth = "" },
		"missing conditions":   func(p *models.SubmitPayload) { p.MedicalConditions = nil },
		"none with other tags": func(p *models.SubmitPayload) { p.MedicalConditions = []string{"none", "diabetes"} },
		"blank condition tag":  func(p *models.SubmitPayload) { p.MedicalConditions = []string{" "} },
	}
	for name, mutate := range cases {
		p := payload()
		mutate(&p)
		_, err := svc.Submit(ctx, p)
		assert.ErrorIs(t, err, ErrInvalid, name)
	}

	// Rejected writes leave prior state untouched.
	stored, err := store.LoadResponses(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSubmitEvictsOldestBeyondCapacity(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	base := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base.Add(24 * time.Hour) }

	max := 3
	_, err := svc.UpdateSettings(ctx, models.SettingsPayload{MaxResponses: &max})
	require.NoError(t, err)
	var ids []string
	for i := 0; i < 5; i++ {
		p := payload()
		ts := base.Add(time.Duration(i) * time.Hour)
		p.Timestamp = &ts
		resp, err := svc.Submit(ctx, p)
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}

	stored, err := store.LoadResponses(ctx)
	require.NoError(t, err)
	require.Len(t, stored, max)
	// The three most recent survive, oldest first in storage order.
	assert.Equal(t, ids[2], stored[0].ID)
	assert.Equal(t, ids[3], stored[1].ID)
	assert.Equal(t, ids[4], stored[2].ID)

	summary, err := store.LoadSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, max, summary.TotalResponses)
}

func TestRetentionCleanupRemovesExactlyExpired(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	days := 30
	_, err := svc.UpdateSettings(ctx, models.SettingsPayload{RetentionDays: &days})
	require.NoError(t, err)

	// Two expired, one exactly at the cutoff (kept), one fresh.
	stale1 := now.AddDate(0, 0, -31)
	stale2 := now.AddDate(0, 0, -90)
	edge := now.AddDate(0, 0, -30)
	for _, ts := range []time.Time{stale1, stale2, edge} {
		p := payload()
		tsCopy := ts
		p.Timestamp = &tsCopy
		_, err := svc.Submit(ctx, p)
		require.NoError(t, err)
	}

	// Force the maintenance window open, then write once more.
	settings, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	settings.LastCleanup = now.Add(-8 * 24 * time.Hour)
	require.NoError(t, store.SaveSettings(ctx, settings))

	_, err = svc.Submit(ctx, payload())
	require.NoError(t, err)

	stored, err := store.LoadResponses(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, edge, stored[0].Timestamp)
	assert.Equal(t, now, stored[1].Timestamp)

	settings, err = store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, now, settings.LastCleanup)

	summary, err := store.LoadSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalResponses)
}

func TestMaintenanceSkippedInsideWindow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	settings := models.DefaultSettings()
	settings.LastCleanup = now.Add(-24 * time.Hour)
	require.NoError(t, store.SaveSettings(ctx, settings))

	old := now.AddDate(0, 0, -400)
	p := payload()
	p.Timestamp = &old
	_, err := svc.Submit(ctx, p)
	require.NoError(t, err)

	// The expired response stays until the weekly pass comes due.
	stored, err := store.LoadResponses(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAnonymizeOnWrite(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	on := true
	_, err := svc.UpdateSettings(ctx, models.SettingsPayload{AnonymizeOnWrite: &on})
	require.NoError(t, err)

	p := payload()
	p.Location = "Freetown, Western Area, Sierra Leone"
	p.Comment = "reach me at jane.doe@example.com or +232 76 123456 anytime"
	resp, err := svc.Submit(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, "Freetown", resp.Demographics.Location)
	assert.NotContains(t, resp.Comment, "example.com")
	assert.NotContains(t, resp.Comment, "123456")
	assert.Contains(t, resp.Comment, "[redacted]")
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base.Add(24 * time.Hour) }
	for i := 0; i < 5; i++ {
		p := payload()
		if i%2 == 1 {
			// Flip every other submission to a clearly abnormal profile.
			p.Sleep = "less-5"
			p.Smoking = "regular"
			p.Alcohol = "regular"
			p.OverallHealth = "poor"
			p.MedicalConditions = []string{"diabetes"}
		}
		ts := base.Add(time.Duration(i) * time.Hour)
		p.Timestamp = &ts
		_, err := svc.Submit(ctx, p)
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, ListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, base.Add(4*time.Hour), res.Items[0].Timestamp)
	assert.Equal(t, base.Add(3*time.Hour), res.Items[1].Timestamp)

	res, err = svc.List(ctx, ListQuery{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, base, res.Items[0].Timestamp)

	res, err = svc.List(ctx, ListQuery{Classification: models.ClassHealthy})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	for _, item := range res.Items {
		assert.Equal(t, models.ClassHealthy, item.Classification)
	}
}

func TestStatisticsRecompute(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, payload())
	require.NoError(t, err)

	// Corrupt the cached record; a plain read returns it as-is, recompute
	// rebuilds it from the collection.
	bad := models.EmptySummary()
	bad.TotalResponses = 42
	require.NoError(t, store.SaveSummary(ctx, bad))

	got, err := svc.Statistics(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 42, got.TotalResponses)

	got, err = svc.Statistics(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalResponses)

	stored, err := store.LoadSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalResponses)
}

func TestExportFormats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Empty collection: tabular formats fail, json succeeds.
	_, err := svc.Export(ctx, models.FormatCSV)
	assert.ErrorIs(t, err, export.ErrNoData)
	_, err = svc.Export(ctx, models.FormatXLSX)
	assert.ErrorIs(t, err, export.ErrNoData)
	f, err := svc.Export(ctx, models.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType)

	_, err = svc.Export(ctx, "pdf")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Submit(ctx, payload())
	require.NoError(t, err)

	// Empty format falls back to the stored preference.
	pref := models.FormatCSV
	_, err = svc.UpdateSettings(ctx, models.SettingsPayload{ExportFormat: &pref})
	require.NoError(t, err)
	f, err = svc.Export(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, f.Name, ".csv")
}

func TestUpdateSettingsValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	zero := 0
	_, err := svc.UpdateSettings(ctx, models.SettingsPayload{RetentionDays: &zero})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = svc.UpdateSettings(ctx, models.SettingsPayload{MaxResponses: &zero})
	assert.ErrorIs(t, err, ErrInvalid)
	bad := "pdf"
	_, err = svc.UpdateSettings(ctx, models.SettingsPayload{ExportFormat: &bad})
	assert.ErrorIs(t, err, ErrInvalid)

	// Prior state untouched after rejected updates.
	settings, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)

	days := 30
	settings, err = svc.UpdateSettings(ctx, models.SettingsPayload{RetentionDays: &days})
	require.NoError(t, err)
	assert.Equal(t, 30, settings.RetentionDays)
	// Untouched fields keep their values.
	assert.Equal(t, models.DefaultSettings().MaxResponses, settings.MaxResponses)
}
