package models

// RiskCategory is the base outcome of the classifier's threshold ladder.
type RiskCategory string

const (
	CategoryNormal       RiskCategory = "Normal"
	CategorySevere       RiskCategory = "Severe Market Manipulation"
	CategoryPumpDump     RiskCategory = "Pump-Dump Anomaly"
	CategoryInsiderSpike RiskCategory = "Insider Trading Spike"
	CategoryVolumeSurge  RiskCategory = "Unusual Volume Surge"
	CategoryIrregularity RiskCategory = "Market Irregularity"
	CategoryMLReview     RiskCategory = "ML Anomaly (Requires Review)"
)

// Classification is the structured result of risk classification. Downstream
// consumers match on the rendered label, so Label() must compose the exact
// historical strings; everything else should switch on the struct fields.
type Classification struct {
	Category        RiskCategory `json:"category"`
	MLVerified      bool         `json:"ml_verified"`
	SocialConfirmed bool         `json:"social_confirmed"`
}

// Label renders the display string, e.g.
// "Pump-Dump Anomaly (Social Media Confirmed) (ML-Verified)".
func (c Classification) Label() string {
	s := string(c.Category)
	if c.SocialConfirmed {
		s += " (Social Media Confirmed)"
	}
	if c.MLVerified {
		s += " (ML-Verified)"
	}
	return s
}
