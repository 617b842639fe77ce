package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/flora-cli/internal/model"
	"github.com/verdant-labs/flora-cli/pkg/unsplash"
	"github.com/verdant-labs/flora-cli/pkg/wikimedia"
)

func TestAssignImageRoles(t *testing.T) {
	images := []model.Image{
		{URL: "a", Source: "unsplash"},
		{URL: "b", Source: "wikimedia"},
		{URL: "c", Source: "unsplash"},
	}
	assignImageRoles(images)
	assert.Equal(t, model.RolePrimary, images[0].Role)
	assert.Equal(t, model.RoleDiscovery, images[1].Role)
	assert.Equal(t, model.RoleOther, images[2].Role)
}

func TestAssignImageRolesKeepsExistingPrimary(t *testing.T) {
	images := []model.Image{
		{URL: "a", Source: "unsplash", Role: model.RolePrimary},
		{URL: "b", Source: "unsplash"},
	}
	assignImageRoles(images)
	assert.Equal(t, model.RolePrimary, images[0].Role)
	assert.Equal(t, model.RoleOther, images[1].Role)
}

func TestAcquireImagesUploadsAndTagsRoles(t *testing.T) {
	env := newTestEnv(t)
	draft := &model.Plant{ID: "id-1", Name: "Tomato", ScientificName: "Solanum lycopersicum"}

	env.unsplash.On("Search", mock.Anything, "Tomato plant", 3).
		Return([]unsplash.Photo{
			{ID: "u1", URL: "https://img.example/u1.jpg"},
		}, nil)
	env.wikimedia.On("PageImage", mock.Anything, "Solanum lycopersicum").
		Return(&wikimedia.PageImageResult{URL: "https://img.example/w1.png"}, nil)

	env.media.On("Upload", mock.Anything, "https://img.example/w1.png", "id-1-1.png").
		Return("https://media.example/plants/id-1-1.png", nil)
	env.media.On("Upload", mock.Anything, "https://img.example/u1.jpg", "id-1-2.jpg").
		Return("https://media.example/plants/id-1-2.jpg", nil)

	require.NoError(t, env.pipeline.acquireImages(context.Background(), draft, nil))

	require.Len(t, draft.Images, 2)
	assert.Equal(t, model.RolePrimary, draft.Images[0].Role)
	assert.Equal(t, "wikimedia", draft.Images[0].Source)
	assert.Equal(t, model.RoleOther, draft.Images[1].Role)
}

func TestAcquireImagesSwallowsSourceAndUploadErrors(t *testing.T) {
	env := newTestEnv(t)
	draft := &model.Plant{ID: "id-1", Name: "Tomato"}

	env.unsplash.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, eris.New("rate limited"))
	env.wikimedia.On("PageImage", mock.Anything, "Tomato").
		Return(&wikimedia.PageImageResult{URL: "https://img.example/w1.jpg"}, nil)
	env.media.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("", eris.New("ftp down"))

	require.NoError(t, env.pipeline.acquireImages(context.Background(), draft, nil))
	assert.Empty(t, draft.Images)
}

func TestAcquireImagesNoResults(t *testing.T) {
	env := newTestEnv(t)
	draft := &model.Plant{ID: "id-1", Name: "Obscurium"}

	env.unsplash.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return([]unsplash.Photo{}, nil)
	env.wikimedia.On("PageImage", mock.Anything, mock.Anything).
		Return(nil, nil)

	require.NoError(t, env.pipeline.acquireImages(context.Background(), draft, nil))
	assert.Empty(t, draft.Images)
	env.media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcquireImagesCancellation(t *testing.T) {
	env := newTestEnv(t)
	draft := &model.Plant{ID: "id-1", Name: "Tomato"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env.unsplash.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, context.Canceled)
	env.wikimedia.On("PageImage", mock.Anything, mock.Anything).
		Return(nil, context.Canceled)

	err := env.pipeline.acquireImages(ctx, draft, nil)
	require.Error(t, err)
	assert.True(t, isCancellation(err))
}

func TestImageExt(t *testing.T) {
	assert.Equal(t, ".png", imageExt("https://x/y/photo.png"))
	assert.Equal(t, ".jpg", imageExt("https://x/y/photo.jpg?w=800&h=600"))
	assert.Equal(t, ".jpg", imageExt("https://x/y/photo"))
	assert.Equal(t, ".jpg", imageExt("https://x/y/archive.tar.gz"))
}
