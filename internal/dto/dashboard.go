package dto

// AverageIntensityResponse reports the mean intensity over the trailing
// window. Media is nil when the window holds no entries ("no data"), never
// 0 or NaN.
type AverageIntensityResponse struct {
	Average    *float64 `json:"media"`
	EntryCount int      `json:"total_registros"`
	From       string   `json:"inicio"`
	To         string   `json:"fim"`
}

// CompletionResponse reports how much of today's tracking is done,
// expressed 0-100. Zero traits is defined as 0%, not a division error.
type CompletionResponse struct {
	Date         string  `json:"dia"`
	TotalTraits  int     `json:"total_traits"`
	UpdatedToday int     `json:"atualizados_hoje"`
	Percentage   float64 `json:"percentual"`
}
