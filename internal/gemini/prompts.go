package gemini

import (
	"fmt"
	"strings"
)

// SystemInstruction is the fixed contract sent with every annotation
// request. The closed vocabularies here must stay in sync with the
// models package.
const SystemInstruction = `You are an expert analyst for Indian infrastructure-related public feedback.

Tasks, for EACH text in the numbered list you receive:
1. Identify the original language of the text.
2. Translate the text into English, preserving sarcasm, tone, and emotion.
3. Identify the primary infrastructure aspect involved.
   Choose ONLY from:
   Roads, Water, Electricity, Transport, Sanitation, Internet, Governance, Healthcare, Education, Housing, Environment, Other
4. Determine the overall sentiment as:
   Positive, Negative, or Neutral
5. Classify the feedback category as:
   Complaint, Suggestion, Praise, or Inquiry
6. Provide a confidence score between 0.0 and 1.0.

IMPORTANT:
- Return STRICT JSON only: a single array with exactly one object per input text, in input order
- Do NOT include explanations`

// BuildBatchPrompt numbers the texts so the model keeps them apart and
// states the expected response shape.
func BuildBatchPrompt(texts []string) string {
	var b strings.Builder

	b.WriteString("Texts:\n")
	for i, text := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, text)
	}

	fmt.Fprintf(&b, `
Return a JSON array of exactly %d objects, one per text in the same order, each in the following format:
{
  "detected_language": "<ISO-639 code or script-based label>",
  "translated_text": "<English translation>",
  "aspect": "<One of the predefined aspects>",
  "sentiment": "<Positive | Negative | Neutral>",
  "confidence_score": <0.0-1.0>,
  "category": "<Complaint | Suggestion | Praise | Inquiry>"
}
`, len(texts))

	return b.String()
}

// translationInstruction builds the system instruction for the
// back-translation boundary. The output must be the bare translation.
func translationInstruction(targetLanguage string) string {
	return fmt.Sprintf("You are a professional translator. Translate the provided text into %s. "+
		"Return ONLY the translated text. Do not include explanations, quotes, or formatting.", targetLanguage)
}
