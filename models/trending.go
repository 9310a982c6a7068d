package models

type AlertType string

const (
	AlertCriticalMisinfoSpike AlertType = "CRITICAL_MISINFO_SPIKE"
	AlertVolumeSpike          AlertType = "VOLUME_SPIKE"
	AlertSensitiveRumor       AlertType = "SENSITIVE_RUMOR"
	AlertRumorPattern         AlertType = "RUMOR_PATTERN"
	AlertGeneral              AlertType = "GENERAL_ALERT"
)

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// TrendingItem is a feed entry plus the risk fields derived by the scorer.
type TrendingItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Link      string `json:"link"`
	Platform  string `json:"platform"`
	Timestamp int64  `json:"timestamp"`

	Claim          string    `json:"claim"`
	AlertTriggered bool      `json:"alertTriggered"`
	AlertType      AlertType `json:"alertType,omitempty"`
	RiskLevel      int       `json:"riskLevel"`
	SensitiveAlert bool      `json:"sensitiveAlert"`
	RumorAlert     bool      `json:"rumorAlert"`
	VolumeAlert    bool      `json:"volumeAlert"`
}

type VerificationSource struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

type Verification struct {
	SourceCount           int                  `json:"sourceCount"`
	ContradictoryEvidence bool                 `json:"contradictoryEvidence"`
	ContradictoryCount    int                  `json:"contradictoryCount"`
	Reliability           string               `json:"reliability"`
	Sources               []VerificationSource `json:"sources"`
}

type Alert struct {
	ID           string        `json:"id"`
	Claim        string        `json:"claim"`
	Title        string        `json:"title"`
	RiskLevel    int           `json:"riskLevel"`
	Type         AlertType     `json:"type"`
	Reason       string        `json:"reason"`
	Platforms    []string      `json:"platforms"`
	Source       string        `json:"source"`
	Verification *Verification `json:"verification,omitempty"`
	Severity     Severity      `json:"severity"`
	Timestamp    int64         `json:"timestamp"`
}

// NewsItem is a headline with a quick credibility estimate.
type NewsItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Score     int     `json:"score"`
	Verdict   Verdict `json:"verdict"`
	Sentiment string  `json:"sentiment"`
	Region    string  `json:"region"`
	Language  string  `json:"language"`
	Timestamp string  `json:"timestamp"`
	Link      string  `json:"link"`
}
