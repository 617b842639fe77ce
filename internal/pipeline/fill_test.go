package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/flora-cli/pkg/anthropic"
)

// sectionMatcher matches a fill request for one section by its prompt.
func sectionMatcher(key string) interface{} {
	return mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.Messages) == 1 &&
			strings.Contains(req.Messages[0].Content, "Section: "+key+"\n")
	})
}

func TestFillSectionsAllSucceed(t *testing.T) {
	env := newTestEnv(t)
	env.fill.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"description": "a plant"}`), nil)

	result, err := env.pipeline.fillSections(context.Background(), "Tomato", nil)
	require.NoError(t, err)
	assert.Len(t, result.Payloads, 9)
	assert.Empty(t, result.Failed)
	assert.Equal(t, int64(90), result.Usage.InputTokens)
	assert.Equal(t, int64(180), result.Usage.OutputTokens)
}

func TestFillSectionsToleratesFailuresBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	// 4 of 9 failures stays under ceil(9*0.5)=5.
	for _, key := range []string{"taxonomy", "care", "growth", "ecology"} {
		env.fill.On("CreateMessage", mock.Anything, sectionMatcher(key)).
			Return(nil, eris.New("api error")).Once()
	}
	env.fill.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{}`), nil)

	result, err := env.pipeline.fillSections(context.Background(), "Tomato", nil)
	require.NoError(t, err)
	assert.Len(t, result.Failed, 4)
	assert.Len(t, result.Payloads, 5)
}

func TestFillSectionsAbortsAtThreshold(t *testing.T) {
	env := newTestEnv(t)
	for _, key := range []string{"taxonomy", "care", "growth", "ecology", "consumption"} {
		env.fill.On("CreateMessage", mock.Anything, sectionMatcher(key)).
			Return(nil, eris.New("api error")).Once()
	}
	env.fill.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{}`), nil)

	_, err := env.pipeline.fillSections(context.Background(), "Tomato", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many fields failed (5/9)")
}

func TestFillSectionsMalformedPayloadCountsAsFailure(t *testing.T) {
	env := newTestEnv(t)
	env.fill.On("CreateMessage", mock.Anything, sectionMatcher("taxonomy")).
		Return(textResponse("no json here"), nil).Once()
	env.fill.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{}`), nil)

	result, err := env.pipeline.fillSections(context.Background(), "Tomato", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"taxonomy"}, result.Failed)
}

func TestFillSectionsCancellationPropagates(t *testing.T) {
	env := newTestEnv(t)
	env.fill.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, context.Canceled)

	_, err := env.pipeline.fillSections(context.Background(), "Tomato", nil)
	require.Error(t, err)
	assert.True(t, isCancellation(err))
}

func TestFillSectionsReportsSectionHooks(t *testing.T) {
	env := newTestEnv(t)
	env.fill.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{}`), nil)

	var started []string
	hooks := &Hooks{
		SectionStart: func(section string) { started = append(started, section) },
	}
	_, err := env.pipeline.fillSections(context.Background(), "Tomato", hooks)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"taxonomy", "care", "growth", "ecology", "consumption",
		"advisory", "colors", "watering", "culinary",
	}, started)
}

func TestParseSectionPayload(t *testing.T) {
	payload, err := parseSectionPayload("```json\n{\"family\": \"Solanaceae\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Solanaceae", payload["family"])

	_, err = parseSectionPayload("sorry, I cannot help")
	assert.Error(t, err)

	_, err = parseSectionPayload("{broken")
	assert.Error(t, err)
}
