package workflow

import (
	"context"
	"io"
	"testing"

	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/smenuberu/dashboard/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBackend is a mock implementation of every backend interface the flows use
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) CreateObject(ctx context.Context, in domain.ObjectInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) PatchObject(ctx context.Context, id string, patch domain.ObjectPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockBackend) PresignUpload(ctx context.Context, kind domain.UploadKind, req domain.PresignRequest) (*domain.Presign, error) {
	args := m.Called(ctx, kind, req)
	presign, _ := args.Get(0).(*domain.Presign)
	return presign, args.Error(1)
}

func (m *MockBackend) PutBlob(ctx context.Context, uploadURL, contentType string, body io.Reader) error {
	args := m.Called(ctx, uploadURL, contentType, body)
	return args.Error(0)
}

func (m *MockBackend) Geocode(ctx context.Context, address string) (*domain.Geocode, error) {
	args := m.Called(ctx, address)
	geo, _ := args.Get(0).(*domain.Geocode)
	return geo, args.Error(1)
}

func (m *MockBackend) CreateSlot(ctx context.Context, in domain.SlotInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) GetSlot(ctx context.Context, id string) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	slot, _ := args.Get(0).(*domain.Slot)
	return slot, args.Error(1)
}

func (m *MockBackend) UpdateSlot(ctx context.Context, id string, patch domain.SlotPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockBackend) DeleteSlot(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBackend) SuggestAddress(ctx context.Context, q string) ([]domain.Suggestion, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]domain.Suggestion)
	return items, args.Error(1)
}

// methods lists the mocked calls in the order they were made
func (m *MockBackend) methods() []string {
	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}

func newTestValidator(t *testing.T) *utils.Validator {
	t.Helper()
	v, err := utils.NewValidator()
	require.NoError(t, err)
	return v
}
