package models

import "time"

// SubmitPayload is the JSON body for POST /api/responses.
type SubmitPayload struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`

	AgeGroup string `json:"age_group"`
	Gender   string `json:"gender"`
	Location string `json:"location"`

	Activity string `json:"activity"`
	Diet     string `json:"diet"`
	Sleep    string `json:"sleep"`
	Smoking  string `json:"smoking"`
	Alcohol  string `json:"alcohol"`

	MedicalConditions []string `json:"medical_conditions"`
	OverallHealth     string   `json:"overall_health"`
	Comment           string   `json:"comment"`
}

// SubmitResp is the response body for POST /api/responses.
type SubmitResp struct {
	OK             bool     `json:"ok"`
	ID             string   `json:"id,omitempty"`
	Classification string   `json:"classification,omitempty"`
	Score          int      `json:"score"`
	RiskFactors    []string `json:"risk_factors,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// ListResp is the response body for GET /api/responses.
type ListResp struct {
	OK     bool       `json:"ok"`
	Items  []Response `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// SettingsPayload is the JSON body for PUT /api/settings. Nil fields keep
// their stored value; LastCleanup is owned by the maintenance pass and is
// not settable from outside.
type SettingsPayload struct {
	RetentionDays    *int    `json:"retention_days"`
	MaxResponses     *int    `json:"max_responses"`
	AnonymizeOnWrite *bool   `json:"anonymize_on_write"`
	ExportFormat     *string `json:"export_format"`
}
