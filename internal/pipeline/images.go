package pipeline

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verdant-labs/flora-cli/internal/model"
)

// candidate is a downloadable image found by one of the sources, before
// upload to the media host.
type candidate struct {
	url    string
	source string
}

// acquireImages searches every configured source, uploads the results
// to the media host and attaches the stored images to the draft. The
// whole stage is best effort: source and upload failures are logged and
// swallowed. The only error it ever returns is cancellation.
func (p *Pipeline) acquireImages(ctx context.Context, draft *model.Plant, hooks *Hooks) error {
	candidates, err := p.searchImages(ctx, draft, hooks)
	if err != nil {
		return err
	}

	maxImages := p.cfg.Pipeline.MaxImages
	if maxImages > 0 && len(candidates) > maxImages {
		candidates = candidates[:maxImages]
	}

	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		dest := fmt.Sprintf("%s-%d%s", draft.ID, i+1, imageExt(c.url))
		publicURL, err := p.media.Upload(ctx, c.url, dest)
		if err != nil {
			if isCancellation(err) {
				return err
			}
			zap.L().Warn("pipeline: image upload failed",
				zap.String("plant_id", draft.ID),
				zap.String("source", c.source),
				zap.Error(err),
			)
			continue
		}
		draft.Images = append(draft.Images, model.Image{
			URL:    publicURL,
			Source: c.source,
		})
		hooks.uploadProgress(len(draft.Images), len(candidates))
	}

	assignImageRoles(draft.Images)
	return nil
}

// searchImages fans out across the photo sources concurrently. A failed
// source contributes nothing but never fails the stage.
func (p *Pipeline) searchImages(ctx context.Context, draft *model.Plant, hooks *Hooks) ([]candidate, error) {
	var (
		mu        sync.Mutex
		unsplash  []candidate
		wikimedia []candidate
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hooks.imageSourceStart("unsplash")
		photos, err := p.unsplash.Search(gctx, draft.Name+" plant", p.cfg.Unsplash.PerPage)
		hooks.imageSourceDone("unsplash", len(photos), err)
		if err != nil {
			if isCancellation(err) {
				return err
			}
			zap.L().Warn("pipeline: unsplash search failed",
				zap.String("name", draft.Name), zap.Error(err))
			return nil
		}
		mu.Lock()
		for _, ph := range photos {
			unsplash = append(unsplash, candidate{url: ph.URL, source: "unsplash"})
		}
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		hooks.imageSourceStart("wikimedia")
		title := draft.Name
		if draft.ScientificName != "" {
			title = draft.ScientificName
		}
		res, err := p.wikimedia.PageImage(gctx, title)
		found := 0
		if res != nil {
			found = 1
		}
		hooks.imageSourceDone("wikimedia", found, err)
		if err != nil {
			if isCancellation(err) {
				return err
			}
			zap.L().Warn("pipeline: wikimedia lookup failed",
				zap.String("title", title), zap.Error(err))
			return nil
		}
		if res != nil {
			mu.Lock()
			wikimedia = append(wikimedia, candidate{url: res.URL, source: "wikimedia"})
			mu.Unlock()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Wikimedia first so the curated lead image tends to become the
	// primary.
	return append(wikimedia, unsplash...), nil
}

// assignImageRoles enforces the role invariants over the stored set:
// the first image becomes primary unless one already exists, the first
// wikimedia-sourced non-primary image becomes the discovery image, and
// everything else is tagged other.
func assignImageRoles(images []model.Image) {
	hasPrimary := false
	for i := range images {
		if images[i].Role == model.RolePrimary {
			hasPrimary = true
			break
		}
	}

	hasDiscovery := false
	for i := range images {
		switch {
		case images[i].Role != "":
			if images[i].Role == model.RoleDiscovery {
				hasDiscovery = true
			}
		case !hasPrimary:
			images[i].Role = model.RolePrimary
			hasPrimary = true
		case !hasDiscovery && images[i].Source == "wikimedia":
			images[i].Role = model.RoleDiscovery
			hasDiscovery = true
		default:
			images[i].Role = model.RoleOther
		}
	}
}

// imageExt derives a file extension from the source URL, defaulting to
// .jpg when the URL carries none.
func imageExt(rawURL string) string {
	clean := rawURL
	if idx := strings.IndexAny(clean, "?#"); idx >= 0 {
		clean = clean[:idx]
	}
	ext := strings.ToLower(path.Ext(clean))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
