package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/grlcodee/credify.ai/cache"
	"github.com/grlcodee/credify.ai/models"
)

// ErrPaused is returned while an administrator has paused analysis.
var ErrPaused = errors.New("analysis is paused by administrator")

// VerdictCache stores finished verdicts keyed by content and language.
type VerdictCache interface {
	Get(ctx context.Context, key string) (*models.AnalysisOutput, bool)
	Set(ctx context.Context, key string, out *models.AnalysisOutput)
}

// AnalysisRecorder persists finished analyses for admin stats and domain
// reputation.
type AnalysisRecorder interface {
	LogAnalysis(ctx context.Context, content, sourceURL string, out *models.AnalysisOutput) error
	RecordDomainScore(ctx context.Context, rawURL string, score int) error
}

// AnalyzerService runs normalize, research, reason and merge for one input.
type AnalyzerService struct {
	normalizer *Normalizer
	research   *ResearchAgent
	reasoner   *Reasoner
	cache      VerdictCache
	recorder   AnalysisRecorder

	IsPaused atomic.Bool
}

func NewAnalyzerService(normalizer *Normalizer, research *ResearchAgent, reasoner *Reasoner) *AnalyzerService {
	return &AnalyzerService{normalizer: normalizer, research: research, reasoner: reasoner}
}

func (s *AnalyzerService) WithCache(c VerdictCache) *AnalyzerService {
	s.cache = c
	return s
}

func (s *AnalyzerService) WithRecorder(r AnalysisRecorder) *AnalyzerService {
	s.recorder = r
	return s
}

// Analyze returns a complete verdict or a single error. progress may be nil.
func (s *AnalyzerService) Analyze(ctx context.Context, input models.AnalysisInput, progress func(string)) (*models.AnalysisOutput, error) {
	report := func(msg string) {
		log.Printf("[ANALYZER] %s", msg)
		if progress != nil {
			progress(msg)
		}
	}
	start := time.Now()

	if s.IsPaused.Load() {
		return nil, ErrPaused
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, newError(KindEmptyContent, "analyze", fmt.Errorf("content is required"))
	}
	if err := input.Validate(); err != nil {
		return nil, newError(KindInvalidInput, "analyze", err)
	}

	langCode, langName := ResolveLanguage(input.Language)
	switch {
	case input.LanguageName != "":
		langName = input.LanguageName
	case strings.TrimSpace(input.Language) == "":
		// no language requested, leave the prompt without a language line
		langName = ""
	}

	report(fmt.Sprintf("📝 Step 1/4: normalizing input (%d chars, language %s)", len(input.Content), langCode))
	norm, err := s.normalizer.Normalize(ctx, input)
	if err != nil {
		log.Printf("[ANALYZER] ❌ %v", err)
		return nil, err
	}
	report(fmt.Sprintf("✓ %s input, claim: %s", norm.Kind, truncate(norm.Claim, 120)))

	var cacheKey string
	if s.cache != nil && !input.HasImage() {
		cacheKey = cache.VerdictKey(norm.Content, langCode)
		if out, ok := s.cache.Get(ctx, cacheKey); ok {
			report("⚡ Cached verdict found")
			return out, nil
		}
	}

	report("🌐 Step 2/4: researching evidence (4 queries)")
	research := s.research.Research(ctx, norm.Claim)
	report(fmt.Sprintf("✓ %d unique sources", len(research.Sources)))

	report("🤖 Step 3/4: reasoning over evidence")
	out, err := s.reasoner.Reason(ctx, norm.Content, research, langName, input.Image)
	if err != nil {
		log.Printf("[ANALYZER] ❌ %v", err)
		return nil, err
	}

	report("🔗 Step 4/4: merging evidence")
	out = MergeEvidence(out, research)

	if cacheKey != "" {
		s.cache.Set(ctx, cacheKey, out)
	}
	s.record(ctx, norm, out)

	report(fmt.Sprintf("✅ Verdict %q, credibility %d/100 in %s", out.FactCheckVerdict, out.CredibilityScore, time.Since(start).Round(time.Millisecond)))
	return out, nil
}

func (s *AnalyzerService) record(ctx context.Context, norm *Normalized, out *models.AnalysisOutput) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.LogAnalysis(ctx, norm.Content, norm.SourceURL, out); err != nil {
		log.Printf("[ANALYZER] ⚠ Could not log analysis: %v", err)
	}
	if norm.SourceURL != "" && norm.Fetched {
		if err := s.recorder.RecordDomainScore(ctx, norm.SourceURL, out.CredibilityScore); err != nil {
			log.Printf("[ANALYZER] ⚠ Could not update domain stats: %v", err)
		}
	}
}
