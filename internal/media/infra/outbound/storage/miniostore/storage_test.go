package miniostore

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/media/vehicles/v1/a.jpg", publicURL("http://localhost:9000/media", "vehicles/v1/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/avatars/u/b.png", publicURL("https://cdn.example.com", "/avatars/u/b.png"))
}

// TestObjectStorage_RoundTrip necesita un MinIO real (MINIO_ENDPOINT).
func TestObjectStorage_RoundTrip(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT no está configurada, saltando test de integración con MinIO")
	}
	ctx := context.Background()
	store, err := NewObjectStorage(ctx, Config{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		Bucket:    "autostock-test",
	}, zap.NewNop())
	require.NoError(t, err)

	data := []byte("fake-jpeg")
	key := "vehicles/test/roundtrip.jpg"
	require.NoError(t, store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "image/jpeg"))
	t.Cleanup(func() { store.Delete(ctx, key) })

	obj, err := store.client.GetObject(ctx, store.bucket, key, minio.GetObjectOptions{})
	require.NoError(t, err)
	got, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, key))
	assert.NoError(t, store.Delete(ctx, key), "borrar dos veces no falla")
}
