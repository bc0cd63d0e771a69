package models

// RiskLevel buckets a trust score into a source-risk tier.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "VeryHigh"
)

// RegistryEntry is one known handle in the static trust registry, injected at
// startup from config.
type RegistryEntry struct {
	Handle string `yaml:"handle" json:"handle"`
	Name   string `yaml:"name" json:"name"`
	Type   string `yaml:"type" json:"type"`
	Score  int    `yaml:"score" json:"score"`
}

// TrustEntity describes the registry record a handle resolved to.
type TrustEntity struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	RegistryScore int    `json:"registry_score"`
}

// TrustProfile is the resolved credibility of a source handle.
type TrustProfile struct {
	Registered bool         `json:"registered"`
	Score      int          `json:"score"` // 0..100
	RiskLevel  RiskLevel    `json:"risk_level"`
	Entity     *TrustEntity `json:"entity,omitempty"`
	Flags      []string     `json:"flags,omitempty"`
}

// ContentAnalysis is the keyword-table sentiment/manipulation read of a
// message, not a trained model.
type ContentAnalysis struct {
	Sentiment              float64  `json:"sentiment_score"`
	ManipulationConfidence float64  `json:"manipulation_confidence"`
	Keywords               []string `json:"keywords,omitempty"`
}
