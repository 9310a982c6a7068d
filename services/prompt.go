package services

import (
	"fmt"
	"strings"

	"github.com/grlcodee/credify.ai/models"
)

const imageNote = `NOTE: An image has been provided for visual analysis. Consider both the visual content of the image AND the extracted text when forming your verdict. Analyze visual elements like:
- Visual misinformation (e.g., doctored images, misleading captions)
- Context of the image (does it match the claim?)
- Authenticity of visual elements
- Any manipulated or misleading visual content
`

const verdictGuidelines = `Guidelines:
- If the content discusses a future/hypothetical event, set factCheckVerdict to "Speculative"
- If multiple credible sources confirm the claim, mark as "True" (score 70-100)
- If multiple credible sources contradict the claim, mark as "False" (score 0-30)
- If sources show partial truth or context is missing, mark as "Misleading" (score 30-70)
- If insufficient evidence from sources, mark as "Not enough verified data available" (score 40-60)
`

const emotionBiasInstructions = `AI-Generated Content Detection:
- Determine if content appears to be AI-generated
- Provide aiGenerated (boolean), aiGenerationConfidence (0-100), and aiGenerationIndicators (array of reasons)

Emotion and Bias Detection (Sentence-Level Analysis):
For EACH sentence in the content:
1. Detect emotion: "anger", "fear", "neutral", or "joy"
   - anger: hostile, aggressive, antagonistic language
   - fear: threatening, alarming, anxiety-inducing language
   - neutral: objective, factual, balanced language
   - joy: positive, uplifting, optimistic language

2. Detect bias type: "cherry-picking", "sensationalism", "exaggeration", "loaded-language", or "none"
   - cherry-picking: selective evidence, ignoring contradictory data
   - sensationalism: shocking, dramatic, attention-grabbing language
   - exaggeration: overstatement, hyperbole, extreme claims
   - loaded-language: emotionally charged words, value-laden terms
   - none: neutral, objective language

Then provide article-level aggregation:
- dominantEmotion: most prevalent emotion
- emotionDistribution: percentage breakdown (anger, fear, neutral, joy), summing to 100
- dominantBiasType: most prevalent bias type
- biasDistribution: percentage breakdown (cherryPicking, sensationalism, exaggeration, loadedLanguage, none), summing to 100
- overallBiasScore: 0-100 (intensity of bias)
- overallEmotionScore: 0-100 (intensity of emotion)
`

// BuildVerdictPrompt renders the reasoning prompt. languageName is the
// English display name of the response language.
func BuildVerdictPrompt(content string, sources []models.ResearchSource, languageName string, withImage bool) string {
	var b strings.Builder

	b.WriteString("You are an expert fact-checker analyzing content using evidence from multiple verified web sources.\n\n")
	b.WriteString("Content to Analyze:\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	if withImage {
		b.WriteString(imageNote)
		b.WriteString("\n")
	}

	if len(sources) > 0 {
		b.WriteString("\nResearch Evidence from Web Sources:\n")
		for i, s := range sources {
			fmt.Fprintf(&b, "Source %d: %s\nURL: %s\nExcerpt: %s\n---\n", i+1, s.Title, s.URL, s.Snippet)
		}
	}

	b.WriteString("\nYour task:\n")
	if withImage {
		b.WriteString("1. Analyze the content claim carefully including visual analysis of the image\n")
	} else {
		b.WriteString("1. Analyze the content claim carefully\n")
	}
	b.WriteString("2. Review all provided research sources and their evidence\n")
	b.WriteString("3. Determine the factual accuracy based on the evidence\n")
	b.WriteString("4. Provide a credibility score (0-100) and verdict\n\n")

	b.WriteString(verdictGuidelines)
	if withImage {
		b.WriteString("- For image-based claims, consider if the image is manipulated, out of context, or authentic\n")
	}
	b.WriteString("\n")
	b.WriteString(emotionBiasInstructions)

	in := ""
	if languageName != "" {
		fmt.Fprintf(&b, "\nIMPORTANT: Respond ENTIRELY in %s language. All text fields must be written in %s.\n", languageName, languageName)
		in = " in " + languageName
	}

	b.WriteString("\nReturn a JSON object with the following fields:\n")
	b.WriteString("1. credibilityScore (integer 0-100)\n")
	b.WriteString(`2. factCheckVerdict (string: "True"/"Misleading"/"False"/"Not enough verified data available"/"Speculative"/"Questionable")` + "\n")
	fmt.Fprintf(&b, "3. verifiedSummary (string: objective summary%s)\n", in)
	b.WriteString("4. evidenceSources (array of strings: source URLs that support your conclusion)\n")
	fmt.Fprintf(&b, "5. biasEmotionAnalysis (string: analysis of bias/manipulation%s)\n", in)
	b.WriteString(`6. emotionBiasProfile (object):
   - sentenceLevelAnalysis (array of objects):
     - sentence (string)
     - emotion ("anger"/"fear"/"neutral"/"joy")
     - biasType ("cherry-picking"/"sensationalism"/"exaggeration"/"loaded-language"/"none")
   - articleLevelSummary (object):
     - dominantEmotion ("anger"/"fear"/"neutral"/"joy")
     - emotionDistribution (object): {anger: %, fear: %, neutral: %, joy: %}
     - dominantBiasType ("cherry-picking"/"sensationalism"/"exaggeration"/"loaded-language"/"none")
     - biasDistribution (object): {cherryPicking: %, sensationalism: %, exaggeration: %, loadedLanguage: %, none: %}
     - overallBiasScore (0-100)
     - overallEmotionScore (0-100)
7. aiGenerated (boolean)
8. aiGenerationConfidence (number 0-100)
9. aiGenerationIndicators (array of strings)

Respond with ONLY the JSON object, no additional text.`)

	return b.String()
}
