package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Get(ctx, "b", "missing")
	require.ErrorIs(t, err, ErrNotFound)

	body := []byte("a b c")
	require.NoError(t, st.Put(ctx, "b", "uploads/1-a.txt", Object{Body: body, ContentType: "text/plain"}))
	require.NoError(t, st.Put(ctx, "other", "uploads/2-b.txt", Object{Body: []byte("x")}))

	// Stored copies are isolated from the caller's slice.
	body[0] = 'z'
	obj, err := st.Get(ctx, "b", "uploads/1-a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a b c", string(obj.Body))
	assert.Equal(t, "text/plain", obj.ContentType)

	assert.Equal(t, []string{"uploads/1-a.txt"}, st.Keys("b"))
}
