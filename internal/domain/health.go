package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Detail      string `json:"detail,omitempty"`
	LastChecked string `json:"lastChecked"`
}

// UsageMetrics is returned by GET /v1/metrics/usage.
type UsageMetrics struct {
	Evaluations      int64            `json:"evaluations"`
	BestCardCounts   map[CardID]int64 `json:"bestCardCounts"`
	NoBestCard       int64            `json:"noBestCard"`
	UsageLogQueued   int64            `json:"usageLogQueued"`
	UsageLogWritten  int64            `json:"usageLogWritten"`
	UsageLogFailed   int64            `json:"usageLogFailed"`
	UsageLogDropped  int64            `json:"usageLogDropped"`
	UsageLogSkipped  int64            `json:"usageLogSkipped"`
	SettingsCacheHit float64          `json:"settingsCacheHitRate"`
	Period           string           `json:"period"`
}

// ============================================================
// API request / response bodies
// ============================================================

// EvaluateRequest is the body of POST /v1/evaluate.
// Settings is optional; see SettingsService.Resolve.
type EvaluateRequest struct {
	Purchase Purchase      `json:"purchase"`
	Settings *CardSettings `json:"settings,omitempty"`
}

// SettingsResponse is returned by the settings endpoints.
type SettingsResponse struct {
	ProfileToken string       `json:"profileToken,omitempty"`
	ProfileID    string       `json:"profileId,omitempty"`
	Settings     CardSettings `json:"settings"`
}

// CategoriesResponse is returned by GET /v1/categories.
type CategoriesResponse struct {
	Options []CategoryOption         `json:"options"`
	Groups  map[CategoryGroup]string `json:"groups"`
}
