package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/subtitle"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/pkg/log"
)

// textCompleter is the slice of the LLM client the translator needs.
type textCompleter interface {
	SimpleChat(ctx context.Context, prompt string, systemPrompt string) (string, error)
}

// LLMTranslator translates subtitle segments one at a time through a chat
// completion model, preserving segment timing and count.
type LLMTranslator struct {
	client textCompleter
}

// NewLLMTranslator creates a new LLM-backed segment translator
func NewLLMTranslator(client textCompleter) *LLMTranslator {
	return &LLMTranslator{client: client}
}

// Translate returns a copy of segments with TranslatedText filled in.
// sourceLang "auto" triggers detection from the transcript text.
func (t *LLMTranslator) Translate(
	ctx context.Context,
	segments []subtitle.Segment,
	sourceLang string,
	targetLang string,
) ([]subtitle.Segment, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	if sourceLang == "" || sourceLang == "auto" {
		detected := detectLanguage(segments)
		if detected != "" {
			log.Info("Detected source language: %s", detected)
			sourceLang = detected
		}
	}

	sourceName := languageName(sourceLang)
	targetName := languageName(targetLang)
	systemPrompt := buildSystemPrompt(sourceName, targetName)

	translated := make([]subtitle.Segment, len(segments))
	for i, seg := range segments {
		text, err := t.client.SimpleChat(ctx, seg.Text, systemPrompt)
		if err != nil {
			return nil, fmt.Errorf("failed to translate segment %d: %w", seg.Index, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			// Keep the original line rather than emitting a blank subtitle.
			text = seg.Text
		}

		translated[i] = subtitle.Segment{
			Index:          seg.Index,
			StartTime:      seg.StartTime,
			EndTime:        seg.EndTime,
			Text:           seg.Text,
			TranslatedText: text,
		}
	}

	return translated, nil
}

func buildSystemPrompt(sourceName, targetName string) string {
	var prompt strings.Builder
	if sourceName != "" && sourceName != "auto" {
		prompt.WriteString(fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s.\n", sourceName, targetName))
	} else {
		prompt.WriteString(fmt.Sprintf("You are a professional translator. Translate the following text to %s.\n", targetName))
	}
	prompt.WriteString("Return ONLY the translated text. Do not include explanations, notes, or quotation marks.")
	return prompt.String()
}

// detectLanguage guesses the dominant language of the transcript and
// returns its ISO 639-1 code, or "" when detection is unreliable.
func detectLanguage(segments []subtitle.Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(seg.Text)
		sb.WriteString(" ")
		// A short sample is enough for detection.
		if sb.Len() > 2000 {
			break
		}
	}

	info := whatlanggo.Detect(sb.String())
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}

// languageName resolves a BCP 47 code to its English display name so the
// model sees "Spanish" instead of "es". Unparseable codes pass through.
func languageName(code string) string {
	if code == "" || code == "auto" {
		return code
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
