package application

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	inventoryApp "github.com/davicafu/autostock/internal/inventory/application"
	inventoryDomain "github.com/davicafu/autostock/internal/inventory/domain"
	inventoryDB "github.com/davicafu/autostock/internal/inventory/infra/outbound/db"
	"github.com/davicafu/autostock/internal/media/domain"
	mediaDB "github.com/davicafu/autostock/internal/media/infra/outbound/db"
	"github.com/davicafu/autostock/internal/media/infra/outbound/storage/filesystem"
	permissionApp "github.com/davicafu/autostock/internal/permission/application"
	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	"github.com/davicafu/autostock/tests/mocks"
)

type fixture struct {
	service   *MediaService
	inventory *inventoryApp.InventoryService
	profiles  *mocks.InMemoryProfileRepo
	dir       string
}

func newFixture(t *testing.T, storage domain.ObjectStorage) *fixture {
	t.Helper()
	ctx := context.Background()
	conn, err := infraDB.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	dir := t.TempDir()
	if storage == nil {
		storage, err = filesystem.NewObjectStorage(dir, "http://localhost:8080/media")
		require.NoError(t, err)
	}

	inventory := inventoryApp.NewInventoryService(
		inventoryDB.NewVehicleRepoSQL(conn), inventoryDB.NewHistoryRepoSQL(conn), nil, zap.NewNop())
	profiles := mocks.NewInMemoryProfileRepo()
	profileService := permissionApp.NewProfileService(profiles, nil, nil, zap.NewNop())

	return &fixture{
		service:   NewMediaService(storage, mediaDB.NewImageRepoSQL(conn), inventory, profileService, zap.NewNop()),
		inventory: inventory,
		profiles:  profiles,
		dir:       dir,
	}
}

func (f *fixture) vehicle(t *testing.T) *inventoryDomain.Vehicle {
	t.Helper()
	v, err := f.inventory.CreateVehicle(context.Background(), inventoryApp.CreateVehicleInput{
		Plate: "IMG0001", Model: "Kwid", Year: 2023, Price: 58000, Store: sharedDomain.StoreMatriz,
	})
	require.NoError(t, err)
	return v
}

func jpeg(content string) domain.Upload {
	return domain.Upload{Filename: "foto.jpg", ContentType: "image/jpeg", Size: int64(len(content)), Body: strings.NewReader(content)}
}

func TestUploadVehicleImage_MarksPhotosComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	v := f.vehicle(t)

	img, err := f.service.UploadVehicleImage(ctx, v.ID, "u-1", jpeg("front"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.URL, "http://localhost:8080/media/vehicles/"+v.ID+"/"))

	data, err := os.ReadFile(filepath.Join(f.dir, filepath.FromSlash(img.ObjectKey)))
	require.NoError(t, err)
	assert.Equal(t, "front", string(data))

	got, err := f.inventory.GetVehicle(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, got.PhotosComplete)

	images, err := f.service.ListVehicleImages(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestUploadVehicleImage_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.service.UploadVehicleImage(ctx, "ghost", "u-1", jpeg("x"))
	assert.ErrorIs(t, err, inventoryDomain.ErrVehicleNotFound)

	v := f.vehicle(t)
	_, err = f.service.UploadVehicleImage(ctx, v.ID, "u-1", domain.Upload{ContentType: "text/plain", Size: 1, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidUpload)
}

func TestDeleteImage_LastImageClearsPhotosComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	v := f.vehicle(t)

	first, err := f.service.UploadVehicleImage(ctx, v.ID, "u-1", jpeg("one"))
	require.NoError(t, err)
	second, err := f.service.UploadVehicleImage(ctx, v.ID, "u-1", jpeg("two"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.DeleteImage(ctx, "other-vehicle", first.ID, "u-1"), domain.ErrImageNotFound)

	require.NoError(t, f.service.DeleteImage(ctx, v.ID, first.ID, "u-1"))
	got, err := f.inventory.GetVehicle(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, got.PhotosComplete)

	require.NoError(t, f.service.DeleteImage(ctx, v.ID, second.ID, "u-1"))
	history, err := f.inventory.History(ctx, v.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, "photos_complete", history[0].Field)
	assert.Equal(t, "false", history[0].NewValue)

	_, err = os.Stat(filepath.Join(f.dir, filepath.FromSlash(second.ObjectKey)))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, f.service.DeleteImage(ctx, v.ID, second.ID, "u-1"), domain.ErrImageNotFound)
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.profiles.Profiles["u-1"] = permissionDomain.UserProfile{ID: "u-1", Name: "Ana", Role: permissionDomain.RoleSalesperson}

	url, err := f.service.UploadAvatar(ctx, "u-1", domain.Upload{Filename: "me.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")})
	require.NoError(t, err)
	require.NotNil(t, f.profiles.Profiles["u-1"].AvatarURL)
	assert.Equal(t, url, *f.profiles.Profiles["u-1"].AvatarURL)
	assert.True(t, strings.HasSuffix(url, ".png"))
}

// recordingStorage registra los borrados y puede fallar la subida.
type recordingStorage struct {
	uploaded []string
	deleted  []string
	failPut  error
}

func (s *recordingStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if s.failPut != nil {
		return s.failPut
	}
	s.uploaded = append(s.uploaded, key)
	return nil
}

func (s *recordingStorage) PublicURL(key string) string { return "mem://" + key }

func (s *recordingStorage) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func TestUploadAvatar_UnknownProfileRemovesObject(t *testing.T) {
	storage := &recordingStorage{}
	f := newFixture(t, storage)

	_, err := f.service.UploadAvatar(context.Background(), "ghost", jpeg("x"))
	assert.ErrorIs(t, err, permissionDomain.ErrProfileNotFound)
	require.Len(t, storage.uploaded, 1)
	assert.Equal(t, storage.uploaded, storage.deleted)
}

func TestUploadVehicleImage_StorageFailureLeavesVehicleUntouched(t *testing.T) {
	ctx := context.Background()
	storage := &recordingStorage{failPut: errors.New("bucket unavailable")}
	f := newFixture(t, storage)
	v := f.vehicle(t)

	_, err := f.service.UploadVehicleImage(ctx, v.ID, "u-1", jpeg("x"))
	assert.EqualError(t, err, "bucket unavailable")

	got, err := f.inventory.GetVehicle(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, got.PhotosComplete)
}
