package services

import (
	"context"
	"fmt"
	"testing"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderGenerator_ParsesProviderOutput(t *testing.T) {
	generator := &stubGenerator{fn: func(_ int, _ outbound.GenerateTextRequest) (string, error) {
		return `{"title": "Waves and Optics", "learning_objectives": ["Describe interference", "Use Snell's law"]}`, nil
	}}
	headerGen := NewHeaderGenerator(nopLogger{}, generator)

	header := headerGen.Generate(context.Background(), domain.Document{Text: "Light behaves like a wave."})

	assert.Equal(t, "Waves and Optics", header.Title)
	assert.Equal(t, []string{"Describe interference", "Use Snell's law"}, header.LearningObjectives)
}

func TestHeaderGenerator_ReformatRetryThenFallback(t *testing.T) {
	generator := &stubGenerator{fn: func(_ int, _ outbound.GenerateTextRequest) (string, error) {
		return "definitely not json", nil
	}}
	headerGen := NewHeaderGenerator(nopLogger{}, generator)

	header := headerGen.Generate(context.Background(), domain.Document{
		Text: "Kinetics of enzyme reactions. More detail follows in the body.",
	})

	assert.Equal(t, 2, generator.callCount())
	assert.Equal(t, "Kinetics of enzyme reactions", header.Title)
	assert.NotEmpty(t, header.LearningObjectives)
}

func TestHeaderGenerator_FallbackOnProviderError(t *testing.T) {
	generator := &stubGenerator{fn: func(_ int, _ outbound.GenerateTextRequest) (string, error) {
		return "", fmt.Errorf("provider down")
	}}
	headerGen := NewHeaderGenerator(nopLogger{}, generator)

	header := headerGen.Generate(context.Background(), domain.Document{Text: "Intro to queues.\nSecond line."})

	require.Equal(t, 1, generator.callCount())
	assert.Equal(t, "Intro to queues", header.Title)
}
