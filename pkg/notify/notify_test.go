package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutURLsIsNoOp(t *testing.T) {
	n, err := New(nil, time.Second)
	require.NoError(t, err)
	assert.NoError(t, n.RecordCreated(context.Background(), "id-1", "Tomato", "alice"))
}

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := New([]string{"not-a-service://"}, time.Second)
	assert.Error(t, err)
}
