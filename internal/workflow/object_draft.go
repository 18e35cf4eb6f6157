package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/smenuberu/dashboard/internal/utils"
)

type ObjectBackend interface {
	CreateObject(ctx context.Context, in domain.ObjectInput) (string, error)
	PatchObject(ctx context.Context, id string, patch domain.ObjectPatch) error
	PresignUpload(ctx context.Context, kind domain.UploadKind, req domain.PresignRequest) (*domain.Presign, error)
	PutBlob(ctx context.Context, uploadURL, contentType string, body io.Reader) error
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Geocode, error)
}

// ObjectDraft is the state of one object form. It starts without ObjectID and
// gets one on the first create call, explicit or implicit.
type ObjectDraft struct {
	DraftID         string            `json:"draftId"`
	ObjectID        string            `json:"objectId,omitempty"`
	Name            string            `json:"name" label:"Название объекта" validate:"required"`
	City            string            `json:"city" label:"Город" validate:"required"`
	Address         string            `json:"address" label:"Адрес" validate:"required"`
	Type            domain.ObjectType `json:"type,omitempty" label:"Тип объекта" validate:"omitempty,oneof=production warehouse hub sort other"`
	LogoURL         string            `json:"logoUrl,omitempty"`
	Photos          []string          `json:"photos"`
	Lat             *float64          `json:"lat,omitempty"`
	Lng             *float64          `json:"lng,omitempty"`
	GeocodedAddress string            `json:"geocodedAddress,omitempty"`
}

func NewObjectDraft() *ObjectDraft {
	return &ObjectDraft{
		DraftID: uuid.NewString(),
		Photos:  []string{},
	}
}

func (d *ObjectDraft) Exists() bool {
	return d.ObjectID != ""
}

// SetFields applies the base fields as currently typed in the form.
// Coordinates are dropped once the address no longer matches the geocoded one.
func (d *ObjectDraft) SetFields(name, city, address string, typ domain.ObjectType) {
	d.Name = name
	d.City = city
	d.Address = address
	d.Type = typ
	d.normalize()

	if d.Address != d.GeocodedAddress {
		d.Lat, d.Lng = nil, nil
		d.GeocodedAddress = ""
	}
}

func (d *ObjectDraft) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.City = strings.TrimSpace(d.City)
	d.Address = strings.TrimSpace(d.Address)
}

// Asset is one file picked in the form.
type Asset struct {
	ContentType string `label:"Файл" validate:"image_type"`
	Size        int64
	Body        io.Reader
}

type ObjectFlow struct {
	backend   ObjectBackend
	geocoder  Geocoder
	validator *utils.Validator
	maxPhotos int
}

// NewObjectFlow builds the flow; geocoder may be nil.
func NewObjectFlow(backend ObjectBackend, geocoder Geocoder, v *utils.Validator, maxPhotos int) *ObjectFlow {
	return &ObjectFlow{
		backend:   backend,
		geocoder:  geocoder,
		validator: v,
		maxPhotos: maxPhotos,
	}
}

func (f *ObjectFlow) MaxPhotos() int {
	return f.maxPhotos
}

// EnsureCreated creates the object from the filled base fields unless it
// already exists. It refuses when a required field is empty.
func (f *ObjectFlow) EnsureCreated(ctx context.Context, d *ObjectDraft) error {
	if d.Exists() {
		return nil
	}

	d.normalize()
	if err := f.validator.Struct(d); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	id, err := f.backend.CreateObject(ctx, domain.ObjectInput{
		Name:    d.Name,
		City:    d.City,
		Address: d.Address,
		Type:    d.Type,
		Lat:     d.Lat,
		Lng:     d.Lng,
	})
	if err != nil {
		return err
	}

	d.ObjectID = id
	return nil
}

// Save is the explicit save of the base fields.
func (f *ObjectFlow) Save(ctx context.Context, d *ObjectDraft) error {
	d.normalize()
	if err := f.validator.Struct(d); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	f.geocode(ctx, d)

	if !d.Exists() {
		return f.EnsureCreated(ctx, d)
	}

	patch := domain.ObjectPatch{
		Name:    &d.Name,
		City:    &d.City,
		Address: &d.Address,
		Lat:     d.Lat,
		Lng:     d.Lng,
	}
	if d.Type != "" {
		patch.Type = &d.Type
	}

	return f.backend.PatchObject(ctx, d.ObjectID, patch)
}

func (f *ObjectFlow) geocode(ctx context.Context, d *ObjectDraft) {
	if f.geocoder == nil || d.Address == d.GeocodedAddress {
		return
	}

	geo, err := f.geocoder.Geocode(ctx, d.Address)
	if err != nil {
		slog.Warn("geocoding failed", "address", d.Address, "error", err)
		return
	}

	d.Lat, d.Lng = &geo.Lat, &geo.Lng
	if geo.Address != "" {
		d.Address = geo.Address
	}
	d.GeocodedAddress = d.Address
}

func (f *ObjectFlow) UploadPhoto(ctx context.Context, d *ObjectDraft, a Asset) error {
	if len(d.Photos) >= f.maxPhotos {
		return &PhotoLimitError{Max: f.maxPhotos}
	}
	if err := f.checkAsset(a); err != nil {
		return err
	}
	if err := f.EnsureCreated(ctx, d); err != nil {
		return err
	}

	publicURL, err := f.upload(ctx, domain.UploadObjectPhoto, d.ObjectID, a)
	if err != nil {
		return err
	}

	photos := append(slices.Clone(d.Photos), publicURL)
	if err := f.backend.PatchObject(ctx, d.ObjectID, domain.ObjectPatch{Photos: &photos}); err != nil {
		return fmt.Errorf("Фото загружено, но не привязано к объекту: %w", err)
	}

	d.Photos = photos
	return nil
}

func (f *ObjectFlow) UploadLogo(ctx context.Context, d *ObjectDraft, a Asset) error {
	if err := f.checkAsset(a); err != nil {
		return err
	}
	if err := f.EnsureCreated(ctx, d); err != nil {
		return err
	}

	publicURL, err := f.upload(ctx, domain.UploadObjectLogo, d.ObjectID, a)
	if err != nil {
		return err
	}

	if err := f.backend.PatchObject(ctx, d.ObjectID, domain.ObjectPatch{LogoURL: &publicURL}); err != nil {
		return fmt.Errorf("Логотип загружен, но не привязан к объекту: %w", err)
	}

	d.LogoURL = publicURL
	return nil
}

// RemovePhoto unlinks the photo from the object. The stored file stays.
func (f *ObjectFlow) RemovePhoto(ctx context.Context, d *ObjectDraft, photoURL string) error {
	if !slices.Contains(d.Photos, photoURL) {
		return nil
	}

	photos := slices.DeleteFunc(slices.Clone(d.Photos), func(u string) bool { return u == photoURL })
	if d.Exists() {
		if err := f.backend.PatchObject(ctx, d.ObjectID, domain.ObjectPatch{Photos: &photos}); err != nil {
			return err
		}
	}

	d.Photos = photos
	return nil
}

func (f *ObjectFlow) RemoveLogo(ctx context.Context, d *ObjectDraft) error {
	if d.LogoURL == "" {
		return nil
	}

	if d.Exists() {
		empty := ""
		if err := f.backend.PatchObject(ctx, d.ObjectID, domain.ObjectPatch{LogoURL: &empty}); err != nil {
			return err
		}
	}

	d.LogoURL = ""
	return nil
}

func (f *ObjectFlow) checkAsset(a Asset) error {
	if a.Body == nil || a.Size == 0 {
		return &ValidationError{Message: "Файл пустой"}
	}
	if err := f.validator.Struct(a); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// upload presigns a slot and puts the bytes there. Nothing in the draft
// changes until both steps succeed.
func (f *ObjectFlow) upload(ctx context.Context, kind domain.UploadKind, objectID string, a Asset) (string, error) {
	presign, err := f.backend.PresignUpload(ctx, kind, domain.PresignRequest{
		ObjectID:    objectID,
		ContentType: a.ContentType,
	})
	if err != nil {
		return "", err
	}

	if err := f.backend.PutBlob(ctx, presign.UploadURL, a.ContentType, a.Body); err != nil {
		return "", err
	}

	if presign.PublicURL == "" {
		return "", errors.New("backend returned no public url")
	}
	return presign.PublicURL, nil
}
