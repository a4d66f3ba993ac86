package models

import "time"

// Health classifications derived for every stored response.
const (
	ClassHealthy  = "healthy"
	ClassModerate = "moderate"
	ClassAbnormal = "abnormal"
)

// CondNone is the sentinel medical-condition tag meaning "no known
// conditions". It is mutually exclusive with every real tag.
const CondNone = "none"

type Demographics struct {
	AgeGroup string `bson:"age_group" json:"age_group"`
	Gender   string `bson:"gender" json:"gender"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
}

type Lifestyle struct {
	Activity string `bson:"activity" json:"activity"`
	Diet     string `bson:"diet" json:"diet"`
	Sleep    string `bson:"sleep" json:"sleep"`
	Smoking  string `bson:"smoking" json:"smoking"`
	Alcohol  string `bson:"alcohol" json:"alcohol"`
}

// Response is one submitted survey instance plus the fields derived from it
// at classification time. Once stored it is never edited; responses only
// leave the collection through capacity eviction or retention cleanup.
type Response struct {
	ID         string    `bson:"id" json:"id"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	ReceivedAt time.Time `bson:"received_at" json:"received_at"`

	Demographics      Demographics `bson:"demographics" json:"demographics"`
	Lifestyle         Lifestyle    `bson:"lifestyle" json:"lifestyle"`
	MedicalConditions []string     `bson:"medical_conditions" json:"medical_conditions"`
	OverallHealth     string       `bson:"overall_health" json:"overall_health"`
	Comment           string       `bson:"comment,omitempty" json:"comment,omitempty"`

	// Derived by the classifier. Score is always clamped to [0,100].
	Classification string   `bson:"classification" json:"classification"`
	Score          int      `bson:"score" json:"score"`
	RiskFactors    []string `bson:"risk_factors" json:"risk_factors"`
}
