package models

import (
	"fmt"
	"math"
	"strings"
)

// ImagePayload is an inline image sent alongside the content.
type ImagePayload struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

type AnalysisInput struct {
	Content      string        `json:"content"`
	Language     string        `json:"language,omitempty"`
	LanguageName string        `json:"languageName,omitempty"`
	Image        *ImagePayload `json:"image,omitempty"`
}

// AnalysisRequest is the wire shape accepted by the analyze endpoints.
type AnalysisRequest struct {
	Content     string `json:"content"`
	Language    string `json:"language,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Validate checks the input invariants: trimmed content is non-empty and
// image fields travel together.
func (in AnalysisInput) Validate() error {
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("content is required")
	}
	if in.Image != nil {
		if (in.Image.Base64 == "") != (in.Image.MimeType == "") {
			return fmt.Errorf("image requires both base64 data and mimeType")
		}
	}
	return nil
}

// HasImage reports whether a complete image payload is attached.
func (in AnalysisInput) HasImage() bool {
	return in.Image != nil && in.Image.Base64 != "" && in.Image.MimeType != ""
}

type Verdict string

const (
	VerdictTrue         Verdict = "True"
	VerdictMisleading   Verdict = "Misleading"
	VerdictFalse        Verdict = "False"
	VerdictNotEnough    Verdict = "Not enough verified data available"
	VerdictSpeculative  Verdict = "Speculative"
	VerdictQuestionable Verdict = "Questionable"
)

// Verdicts lists every permitted factCheckVerdict value.
var Verdicts = []Verdict{
	VerdictTrue, VerdictMisleading, VerdictFalse,
	VerdictNotEnough, VerdictSpeculative, VerdictQuestionable,
}

func (v Verdict) Valid() bool {
	for _, known := range Verdicts {
		if v == known {
			return true
		}
	}
	return false
}

var (
	Emotions  = []string{"anger", "fear", "neutral", "joy"}
	BiasTypes = []string{"cherry-picking", "sensationalism", "exaggeration", "loaded-language", "none"}
)

type SentenceAnalysis struct {
	Sentence string `json:"sentence"`
	Emotion  string `json:"emotion"`
	BiasType string `json:"biasType"`
}

type EmotionDistribution struct {
	Anger   float64 `json:"anger"`
	Fear    float64 `json:"fear"`
	Neutral float64 `json:"neutral"`
	Joy     float64 `json:"joy"`
}

type BiasDistribution struct {
	CherryPicking  float64 `json:"cherryPicking"`
	Sensationalism float64 `json:"sensationalism"`
	Exaggeration   float64 `json:"exaggeration"`
	LoadedLanguage float64 `json:"loadedLanguage"`
	None           float64 `json:"none"`
}

type ArticleSummary struct {
	DominantEmotion     string              `json:"dominantEmotion"`
	EmotionDistribution EmotionDistribution `json:"emotionDistribution"`
	DominantBiasType    string              `json:"dominantBiasType"`
	BiasDistribution    BiasDistribution    `json:"biasDistribution"`
	OverallBiasScore    float64             `json:"overallBiasScore"`
	OverallEmotionScore float64             `json:"overallEmotionScore"`
}

type EmotionBiasProfile struct {
	SentenceLevelAnalysis []SentenceAnalysis `json:"sentenceLevelAnalysis"`
	ArticleLevelSummary   ArticleSummary     `json:"articleLevelSummary"`
}

// AnalysisOutput is the verdict returned to callers.
type AnalysisOutput struct {
	CredibilityScore       int                `json:"credibilityScore"`
	FactCheckVerdict       Verdict            `json:"factCheckVerdict"`
	VerifiedSummary        string             `json:"verifiedSummary"`
	EvidenceSources        []string           `json:"evidenceSources"`
	BiasEmotionAnalysis    string             `json:"biasEmotionAnalysis"`
	EmotionBiasProfile     EmotionBiasProfile `json:"emotionBiasProfile"`
	AIGenerated            bool               `json:"aiGenerated"`
	AIGenerationConfidence float64            `json:"aiGenerationConfidence"`
	AIGenerationIndicators []string           `json:"aiGenerationIndicators"`
}

// distributionTolerance is how far a percentage breakdown may drift from 100.
const distributionTolerance = 5.0

// Validate enforces the output schema. It never repairs a value.
func (o *AnalysisOutput) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if o.CredibilityScore < 0 || o.CredibilityScore > 100 {
		add("credibilityScore %d out of range 0-100", o.CredibilityScore)
	}
	if !o.FactCheckVerdict.Valid() {
		add("factCheckVerdict %q is not a permitted value", o.FactCheckVerdict)
	}
	if o.EvidenceSources == nil {
		add("evidenceSources is missing")
	}
	if !inRange(o.AIGenerationConfidence) {
		add("aiGenerationConfidence %.1f out of range 0-100", o.AIGenerationConfidence)
	}
	if o.AIGenerationIndicators == nil {
		add("aiGenerationIndicators is missing")
	}

	profile := o.EmotionBiasProfile
	if profile.SentenceLevelAnalysis == nil {
		add("emotionBiasProfile.sentenceLevelAnalysis is missing")
	}
	for i, s := range profile.SentenceLevelAnalysis {
		if !contains(Emotions, s.Emotion) {
			add("sentence %d: emotion %q is not permitted", i, s.Emotion)
		}
		if !contains(BiasTypes, s.BiasType) {
			add("sentence %d: biasType %q is not permitted", i, s.BiasType)
		}
	}

	summary := profile.ArticleLevelSummary
	if !contains(Emotions, summary.DominantEmotion) {
		add("dominantEmotion %q is not permitted", summary.DominantEmotion)
	}
	if !contains(BiasTypes, summary.DominantBiasType) {
		add("dominantBiasType %q is not permitted", summary.DominantBiasType)
	}
	ed := summary.EmotionDistribution
	if sum, ok := percentages(ed.Anger, ed.Fear, ed.Neutral, ed.Joy); !ok {
		add("emotionDistribution must hold percentages summing to 100±%.0f, got sum %.1f", distributionTolerance, sum)
	}
	bd := summary.BiasDistribution
	if sum, ok := percentages(bd.CherryPicking, bd.Sensationalism, bd.Exaggeration, bd.LoadedLanguage, bd.None); !ok {
		add("biasDistribution must hold percentages summing to 100±%.0f, got sum %.1f", distributionTolerance, sum)
	}
	if !inRange(summary.OverallBiasScore) {
		add("overallBiasScore %.1f out of range 0-100", summary.OverallBiasScore)
	}
	if !inRange(summary.OverallEmotionScore) {
		add("overallEmotionScore %.1f out of range 0-100", summary.OverallEmotionScore)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func inRange(v float64) bool {
	return v >= 0 && v <= 100
}

// percentages reports the sum and whether every value is in 0..100 with the
// sum within distributionTolerance of 100.
func percentages(values ...float64) (float64, bool) {
	var sum float64
	ok := true
	for _, v := range values {
		if !inRange(v) {
			ok = false
		}
		sum += v
	}
	return sum, ok && math.Abs(sum-100) <= distributionTolerance
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
