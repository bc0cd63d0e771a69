package models

// ThreatDetails itemizes the inputs behind a threat score.
type ThreatDetails struct {
	TotalRecentAlerts  int `json:"total_recent_alerts"`
	HighSeverityAlerts int `json:"high_severity_alerts"`
	AlertsLastHour     int `json:"alerts_last_hour"`
}

// ThreatScore is the 0-100 market-wide aggregate over recent alerts.
type ThreatScore struct {
	Score   int           `json:"score"`
	Level   string        `json:"level"`
	Color   string        `json:"color"`
	Details ThreatDetails `json:"details"`
}
