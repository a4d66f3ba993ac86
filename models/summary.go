package models

type DemographicCounts struct {
	AgeGroups map[string]int `bson:"age_groups" json:"age_groups"`
	Genders   map[string]int `bson:"genders" json:"genders"`
	// Locations is keyed by the first comma-separated segment of the
	// free-text location field.
	Locations map[string]int `bson:"locations" json:"locations"`
}

type LifestyleCounts struct {
	Activity map[string]int `bson:"activity" json:"activity"`
	Diet     map[string]int `bson:"diet" json:"diet"`
	Sleep    map[string]int `bson:"sleep" json:"sleep"`
	Smoking  map[string]int `bson:"smoking" json:"smoking"`
	Alcohol  map[string]int `bson:"alcohol" json:"alcohol"`
}

type ScoreStats struct {
	Mean int `bson:"mean" json:"mean"`
	Min  int `bson:"min" json:"min"`
	Max  int `bson:"max" json:"max"`
	// Distribution is keyed by the five fixed buckets
	// 0-20, 21-40, 41-60, 61-80 and 81-100.
	Distribution map[string]int `bson:"distribution" json:"distribution"`
}

type TrendCounts struct {
	Daily   map[string]int `bson:"daily" json:"daily"`     // YYYY-MM-DD
	Weekly  map[string]int `bson:"weekly" json:"weekly"`   // YYYY-Wnn
	Monthly map[string]int `bson:"monthly" json:"monthly"` // YYYY-MM
}

// StatisticsSummary is the fully-derived aggregate view over the stored
// response collection. It is a cache, not a source of truth: replaying the
// aggregator over the collection always reproduces it.
type StatisticsSummary struct {
	TotalResponses  int               `bson:"total_responses" json:"total_responses"`
	Demographics    DemographicCounts `bson:"demographics" json:"demographics"`
	Lifestyle       LifestyleCounts   `bson:"lifestyle" json:"lifestyle"`
	Classifications map[string]int    `bson:"classifications" json:"classifications"`
	Conditions      map[string]int    `bson:"conditions" json:"conditions"`
	RiskFactors     map[string]int    `bson:"risk_factors" json:"risk_factors"`
	Scores          ScoreStats        `bson:"scores" json:"scores"`
	Trends          TrendCounts       `bson:"trends" json:"trends"`
}

// EmptySummary is the documented default returned when no summary record is
// stored yet. All maps are allocated so callers and encoders never see nil.
func EmptySummary() StatisticsSummary {
	return StatisticsSummary{
		Demographics: DemographicCounts{
			AgeGroups: map[string]int{},
			Genders:   map[string]int{},
			Locations: map[string]int{},
		},
		Lifestyle: LifestyleCounts{
			Activity: map[string]int{},
			Diet:     map[string]int{},
			Sleep:    map[string]int{},
			Smoking:  map[string]int{},
			Alcohol:  map[string]int{},
		},
		Classifications: map[string]int{},
		Conditions:      map[string]int{},
		RiskFactors:     map[string]int{},
		Scores:          ScoreStats{Distribution: map[string]int{}},
		Trends: TrendCounts{
			Daily:   map[string]int{},
			Weekly:  map[string]int{},
			Monthly: map[string]int{},
		},
	}
}
