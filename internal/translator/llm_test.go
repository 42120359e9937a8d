package translator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/subtitle"
)

type fakeCompleter struct {
	prompts       []string
	systemPrompts []string
	reply         func(prompt string) (string, error)
}

func (f *fakeCompleter) SimpleChat(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.systemPrompts = append(f.systemPrompts, systemPrompt)
	if f.reply != nil {
		return f.reply(prompt)
	}
	return "[t] " + prompt, nil
}

func sampleSegments() []subtitle.Segment {
	return []subtitle.Segment{
		{Index: 1, StartTime: 0, EndTime: 2 * time.Second, Text: "hello there"},
		{Index: 2, StartTime: 2 * time.Second, EndTime: 4 * time.Second, Text: "good morning"},
	}
}

func TestTranslate_PreservesTimingAndCount(t *testing.T) {
	completer := &fakeCompleter{}
	translated, err := NewLLMTranslator(completer).Translate(context.Background(), sampleSegments(), "en", "es")
	require.NoError(t, err)

	require.Len(t, translated, 2)
	assert.Equal(t, 1, translated[0].Index)
	assert.Equal(t, time.Duration(0), translated[0].StartTime)
	assert.Equal(t, 2*time.Second, translated[0].EndTime)
	assert.Equal(t, "hello there", translated[0].Text)
	assert.Equal(t, "[t] hello there", translated[0].TranslatedText)
	assert.Equal(t, "[t] good morning", translated[1].TranslatedText)

	require.Len(t, completer.prompts, 2)
	assert.Contains(t, completer.systemPrompts[0], "from English to Spanish")
	assert.Contains(t, completer.systemPrompts[0], "Return ONLY the translated text")
}

func TestTranslate_AutoDetectsSourceLanguage(t *testing.T) {
	segments := []subtitle.Segment{
		{Index: 1, EndTime: 3 * time.Second, Text: "the quick brown fox jumps over the lazy dog and keeps on running through the green fields"},
	}

	completer := &fakeCompleter{}
	_, err := NewLLMTranslator(completer).Translate(context.Background(), segments, "auto", "fr")
	require.NoError(t, err)

	require.Len(t, completer.systemPrompts, 1)
	assert.Contains(t, completer.systemPrompts[0], "to French")
	assert.Contains(t, completer.systemPrompts[0], "from English")
}

func TestTranslate_EmptyInput(t *testing.T) {
	completer := &fakeCompleter{}
	translated, err := NewLLMTranslator(completer).Translate(context.Background(), nil, "en", "es")
	require.NoError(t, err)
	assert.Empty(t, translated)
	assert.Empty(t, completer.prompts)
}

func TestTranslate_ClientError(t *testing.T) {
	completer := &fakeCompleter{reply: func(string) (string, error) {
		return "", errors.New("rate limited")
	}}

	_, err := NewLLMTranslator(completer).Translate(context.Background(), sampleSegments(), "en", "es")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to translate segment 1")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestTranslate_BlankReplyKeepsOriginal(t *testing.T) {
	completer := &fakeCompleter{reply: func(string) (string, error) {
		return "   \n", nil
	}}

	translated, err := NewLLMTranslator(completer).Translate(context.Background(), sampleSegments(), "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "hello there", translated[0].TranslatedText)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", languageName("en"))
	assert.Equal(t, "Spanish", languageName("es"))
	assert.Equal(t, "auto", languageName("auto"))
	assert.Equal(t, "zz-not-real-!!", languageName("zz-not-real-!!"))
}
