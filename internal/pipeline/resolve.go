package pipeline

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/verdant-labs/flora-cli/pkg/deepl"
)

// ResolvedName is the outcome of resolving a raw request string to the
// canonical English name used for AI lookups and record identity.
type ResolvedName struct {
	Name          string
	WasTranslated bool
}

// Resolver turns a possibly non-English request string into a canonical
// English name.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (ResolvedName, error)
}

// DeepLResolver resolves names by translating them to English with
// DeepL; the detected source language tells us whether translation
// actually occurred. Results are cached so a batch full of identical
// requests resolves once.
type DeepLResolver struct {
	client deepl.Client
	cache  *gocache.Cache
}

// NewDeepLResolver creates a resolver with the given cache TTL.
func NewDeepLResolver(client deepl.Client, ttl time.Duration) *DeepLResolver {
	return &DeepLResolver{
		client: client,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

func (r *DeepLResolver) Resolve(ctx context.Context, raw string) (ResolvedName, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if v, ok := r.cache.Get(key); ok {
		return v.(ResolvedName), nil
	}

	resp, err := r.client.Translate(ctx, []string{raw}, "", "EN")
	if err != nil {
		return ResolvedName{}, eris.Wrap(err, "resolve: translate name")
	}
	if len(resp.Translations) == 0 {
		return ResolvedName{}, eris.New("resolve: empty translation response")
	}

	t := resp.Translations[0]
	resolved := ResolvedName{
		Name:          NormalizeName(t.Text),
		WasTranslated: !strings.EqualFold(t.DetectedSourceLanguage, "EN"),
	}
	if resolved.Name == "" {
		return ResolvedName{}, eris.Errorf("resolve: nothing left of %q after normalization", raw)
	}

	r.cache.Set(key, resolved, gocache.DefaultExpiration)
	return resolved, nil
}

var titleCaser = cases.Title(language.English)

// NormalizeName trims, strips everything but letters, digits and
// spaces, collapses runs of whitespace and title-cases the result.
func NormalizeName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	if len(fields) == 0 {
		return ""
	}
	return titleCaser.String(strings.ToLower(strings.Join(fields, " ")))
}

// resolveName runs the name-resolution stage. It never fails the
// pipeline: on resolver error the raw input is normalized directly.
func (p *Pipeline) resolveName(ctx context.Context, raw string) ResolvedName {
	resolved, err := p.resolver.Resolve(ctx, raw)
	if err != nil {
		zap.L().Warn("pipeline: name resolution failed, falling back to raw input",
			zap.String("name", raw), zap.Error(err))
		return ResolvedName{Name: NormalizeName(raw)}
	}
	return resolved
}
