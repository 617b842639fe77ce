package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/flora-cli/pkg/deepl"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tomato", "Tomato"},
		{"  TOMATO  ", "Tomato"},
		{"cherry   tomato", "Cherry Tomato"},
		{"basilic (sweet)", "Basilic Sweet"},
		{"rose-hip!", "Rose Hip"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestDeepLResolverTranslates(t *testing.T) {
	client := &mockDeepLClient{}
	client.On("Translate", mock.Anything, []string{"tomate"}, "", "EN").
		Return(&deepl.TranslateResponse{
			Translations: []deepl.Translation{
				{DetectedSourceLanguage: "FR", Text: "tomato"},
			},
		}, nil).Once()

	r := NewDeepLResolver(client, time.Minute)
	got, err := r.Resolve(context.Background(), "tomate")
	require.NoError(t, err)
	assert.Equal(t, "Tomato", got.Name)
	assert.True(t, got.WasTranslated)
	client.AssertExpectations(t)
}

func TestDeepLResolverEnglishPassThrough(t *testing.T) {
	client := &mockDeepLClient{}
	client.On("Translate", mock.Anything, mock.Anything, "", "EN").
		Return(&deepl.TranslateResponse{
			Translations: []deepl.Translation{
				{DetectedSourceLanguage: "EN", Text: "basil"},
			},
		}, nil)

	r := NewDeepLResolver(client, time.Minute)
	got, err := r.Resolve(context.Background(), "basil")
	require.NoError(t, err)
	assert.Equal(t, "Basil", got.Name)
	assert.False(t, got.WasTranslated)
}

func TestDeepLResolverCaches(t *testing.T) {
	client := &mockDeepLClient{}
	client.On("Translate", mock.Anything, mock.Anything, "", "EN").
		Return(&deepl.TranslateResponse{
			Translations: []deepl.Translation{
				{DetectedSourceLanguage: "EN", Text: "mint"},
			},
		}, nil).Once()

	r := NewDeepLResolver(client, time.Minute)
	for i := 0; i < 3; i++ {
		got, err := r.Resolve(context.Background(), "  Mint ")
		require.NoError(t, err)
		assert.Equal(t, "Mint", got.Name)
	}
	client.AssertExpectations(t)
}

func TestResolveNameFallsBackOnError(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.On("Resolve", mock.Anything, "la  menthe").
		Return(ResolvedName{}, eris.New("service down"))

	got := env.pipeline.resolveName(context.Background(), "la  menthe")
	assert.Equal(t, "La Menthe", got.Name)
	assert.False(t, got.WasTranslated)
}
