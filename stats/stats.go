// Package stats folds the stored response collection into a
// StatisticsSummary. The summary is recomputed in full on every mutation;
// there is no incremental path.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"healthpulse/models"
)

// Aggregate produces a StatisticsSummary in a single pass over the
// collection. The output depends only on the collection's contents, so
// recomputing over an unchanged collection yields an identical summary.
func Aggregate(responses []models.Response) models.StatisticsSummary {
	sum := models.EmptySummary()
	sum.TotalResponses = len(responses)
	if len(responses) == 0 {
		return sum
	}

	total := 0
	min, max := 101, -1
	for _, r := range responses {
		bump(sum.Demographics.AgeGroups, r.Demographics.AgeGroup)
		bump(sum.Demographics.Genders, r.Demographics.Gender)
		bump(sum.Demographics.Locations, FirstSegment(r.Demographics.Location))

		bump(sum.Lifestyle.Activity, r.Lifestyle.Activity)
		bump(sum.Lifestyle.Diet, r.Lifestyle.Diet)
		bump(sum.Lifestyle.Sleep, r.Lifestyle.Sleep)
		bump(sum.Lifestyle.Smoking, r.Lifestyle.Smoking)
		bump(sum.Lifestyle.Alcohol, r.Lifestyle.Alcohol)

		bump(sum.Classifications, r.Classification)
		for _, c := range r.MedicalConditions {
			if c != models.CondNone {
				bump(sum.Conditions, c)
			}
		}
		for _, f := range r.RiskFactors {
			bump(sum.RiskFactors, f)
		}

		total += r.Score
		if r.Score < min {
			min = r.Score
		}
		if r.Score > max {
			max = r.Score
		}
		bump(sum.Scores.Distribution, ScoreBucket(r.Score))

		ts := r.Timestamp.UTC()
		bump(sum.Trends.Daily, ts.Format("2006-01-02"))
		bump(sum.Trends.Weekly, weekKey(ts))
		bump(sum.Trends.Monthly, ts.Format("2006-01"))
	}

	sum.Scores.Mean = int(math.Round(float64(total) / float64(len(responses))))
	sum.Scores.Min = min
	sum.Scores.Max = max
	return sum
}

func bump(m map[string]int, key string) {
	if key != "" {
		m[key]++
	}
}

// ScoreBucket maps a 0-100 score into one of five fixed-width buckets.
func ScoreBucket(score int) string {
	switch {
	case score <= 20:
		return "0-20"
	case score <= 40:
		return "21-40"
	case score <= 60:
		return "41-60"
	case score <= 80:
		return "61-80"
	default:
		return "81-100"
	}
}

// FirstSegment returns the first comma-separated segment of a free-text
// location, trimmed. Used both for location counters and anonymization.
func FirstSegment(location string) string {
	seg, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(seg)
}

// weekKey buckets a timestamp into a year+week key. Weeks are 7-day windows
// counted from Jan 1 and offset by Jan 1's weekday, so a short first week
// still counts as week 1.
func weekKey(t time.Time) string {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	week := (t.YearDay() + int(jan1.Weekday()) + 6) / 7
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}
