package domain

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrImageNotFound = errors.New("image not found")
	ErrInvalidUpload = errors.New("invalid upload")
)

// MaxUploadSize limita cada fichero subido.
const MaxUploadSize = 10 << 20

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Upload es un fichero recibido por HTTP.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (u Upload) Validate() error {
	switch {
	case u.Body == nil || u.Size <= 0:
		return fmt.Errorf("%w: empty file", ErrInvalidUpload)
	case u.Size > MaxUploadSize:
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, MaxUploadSize)
	}
	if _, ok := allowedContentTypes[u.ContentType]; !ok {
		return fmt.Errorf("%w: content type %q not allowed", ErrInvalidUpload, u.ContentType)
	}
	return nil
}

// extension prioriza la del nombre original si coincide con el tipo.
func (u Upload) extension() string {
	ext := strings.ToLower(path.Ext(u.Filename))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	if want := allowedContentTypes[u.ContentType]; ext != want {
		return want
	}
	return ext
}

// VehicleObjectKey devuelve la clave del objeto para una foto de vehículo.
func VehicleObjectKey(vehicleID string, u Upload) string {
	return fmt.Sprintf("vehicles/%s/%s%s", vehicleID, uuid.NewString(), u.extension())
}

func AvatarObjectKey(userID string, u Upload) string {
	return fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), u.extension())
}

// VehicleImage es una fila de vehicle_images.
type VehicleImage struct {
	ID        string    `json:"id"`
	VehicleID string    `json:"vehicle_id"`
	ObjectKey string    `json:"object_key"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func NewVehicleImage(vehicleID, objectKey, url string) VehicleImage {
	return VehicleImage{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		ObjectKey: objectKey,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}
}
