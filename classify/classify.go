// Package classify maps one survey response to a three-way health
// classification, a 0-100 score and a list of risk-factor labels, using
// fixed per-field lookup tables.
package classify

import (
	"strings"

	"healthpulse/models"
)

type bucket int

const (
	neither bucket = iota
	healthy
	abnormal
)

// Per-category vote tables. Values missing from a table contribute nothing.
var (
	activityVotes = map[string]bucket{
		"very-active": healthy,
		"active":      healthy,
		"sedentary":   abnormal,
	}
	sleepVotes = map[string]bucket{
		"7-8":    healthy,
		"less-5": abnormal,
		"more-9": abnormal,
	}
	smokingVotes = map[string]bucket{
		"never":   healthy,
		"regular": abnormal,
	}
	alcoholVotes = map[string]bucket{
		"never":   healthy,
		"regular": abnormal,
	}
	overallVotes = map[string]bucket{
		"excellent": healthy,
		"good":      healthy,
		"poor":      abnormal,
	}
)

// Per-value score deltas applied to the base score of 50. Values missing
// from a table contribute zero.
var (
	activityScores = map[string]int{
		"very-active": 20,
		"active":      15,
		"moderate":    5,
		"sedentary":   -10,
	}
	dietScores = map[string]int{
		"balanced":   10,
		"vegetarian": 5,
		"irregular":  -5,
		"fast-food":  -15,
	}
	sleepScores = map[string]int{
		"less-5": -15,
		"5-6":    -5,
		"6-7":    5,
		"7-8":    15,
		"more-9": -10,
	}
	smokingScores = map[string]int{
		"never":      10,
		"former":     -5,
		"occasional": -10,
		"regular":    -20,
	}
	alcoholScores = map[string]int{
		"never":      5,
		"occasional": -5,
		"regular":    -15,
	}
	overallScores = map[string]int{
		"excellent": 15,
		"good":      10,
		"poor":      -15,
	}
)

// riskConditions is the fixed set of medical-condition tags treated as
// health-risk indicators.
var riskConditions = map[string]bool{
	"diabetes":      true,
	"hypertension":  true,
	"heart-disease": true,
	"asthma":        true,
	"arthritis":     true,
	"depression":    true,
}

// Result holds the derived fields for one response.
type Result struct {
	Classification string
	Score          int
	RiskFactors    []string
}

// Classify scores one response. It never fails: unrecognized enum values
// simply contribute no votes and no score delta.
func Classify(ls models.Lifestyle, overallHealth string, conditions []string) Result {
	var healthyVotes, abnormalVotes int
	vote := func(table map[string]bucket, value string) {
		switch table[value] {
		case healthy:
			healthyVotes++
		case abnormal:
			abnormalVotes++
		}
	}
	vote(activityVotes, ls.Activity)
	vote(sleepVotes, ls.Sleep)
	vote(smokingVotes, ls.Smoking)
	vote(alcoholVotes, ls.Alcohol)
	vote(overallVotes, overallHealth)

	score := 50 +
		activityScores[ls.Activity] +
		dietScores[ls.Diet] +
		sleepScores[ls.Sleep] +
		smokingScores[ls.Smoking] +
		alcoholScores[ls.Alcohol] +
		overallScores[overallHealth]

	atRisk := false
	noneOnly := len(conditions) == 1 && conditions[0] == models.CondNone
	for _, c := range conditions {
		if riskConditions[c] {
			atRisk = true
			score -= 10
		}
	}
	if atRisk {
		// Medical risk weighs double in the vote count.
		abnormalVotes += 2
	}
	if noneOnly {
		healthyVotes++
		score += 10
	}

	classification := models.ClassModerate
	switch {
	case abnormalVotes > healthyVotes:
		classification = models.ClassAbnormal
	case healthyVotes > abnormalVotes:
		classification = models.ClassHealthy
	}

	return Result{
		Classification: classification,
		Score:          clamp(score),
		RiskFactors:    riskFactors(ls, conditions),
	}
}

// riskFactors lists lifestyle factors in fixed field order, then every
// present medical-condition tag (title-cased) in submission order.
func riskFactors(ls models.Lifestyle, conditions []string) []string {
	var out []string
	if ls.Activity == "sedentary" {
		out = append(out, "Sedentary lifestyle")
	}
	if ls.Sleep == "less-5" || ls.Sleep == "more-9" {
		out = append(out, "Extreme sleep duration")
	}
	if ls.Smoking != "" && ls.Smoking != "never" {
		out = append(out, "Smoking")
	}
	if ls.Alcohol == "regular" {
		out = append(out, "Regular alcohol use")
	}
	if ls.Diet == "fast-food" {
		out = append(out, "Poor diet")
	}
	for _, c := range conditions {
		if c == models.CondNone {
			continue
		}
		out = append(out, titleCase(c))
	}
	return out
}

// titleCase turns a hyphenated tag like "heart-disease" into "Heart Disease".
func titleCase(tag string) string {
	words := strings.Split(tag, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
