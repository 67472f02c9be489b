package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/savora-app/savora_backend/models"
)

type mockSettingsRemote struct {
	mock.Mock
}

func (m *mockSettingsRemote) FindRestaurantSettings(ctx context.Context) (*models.RestaurantSettings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*models.RestaurantSettings)
	return s, args.Error(1)
}

func (m *mockSettingsRemote) SaveRestaurantSettings(ctx context.Context, s models.RestaurantSettings) (*models.RestaurantSettings, error) {
	args := m.Called(ctx, s)
	if echo, ok := args.Get(0).(func(models.RestaurantSettings) *models.RestaurantSettings); ok {
		return echo(s), args.Error(1)
	}
	saved, _ := args.Get(0).(*models.RestaurantSettings)
	return saved, args.Error(1)
}

func TestRestaurantSettings_MissingRowUsesDefaults(t *testing.T) {
	ctx := context.Background()
	remote := new(mockSettingsRemote)
	remote.On("FindRestaurantSettings", ctx).Return(nil, nil)

	store := NewRestaurantSettings(remote, nil, "")
	got, err := store.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRestaurantSettings(), got)
}

func TestRestaurantSettings_FetchError(t *testing.T) {
	ctx := context.Background()
	remote := new(mockSettingsRemote)
	remote.On("FindRestaurantSettings", ctx).Return(nil, errors.New("offline"))

	store := NewRestaurantSettings(remote, nil, "")
	got, err := store.Fetch(ctx)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, models.DefaultRestaurantSettings(), got)
}

func TestRestaurantSettings_EnsureFetchesOnce(t *testing.T) {
	ctx := context.Background()
	remote := new(mockSettingsRemote)
	row := &models.RestaurantSettings{Name: "Savora Downtown", DeliveryFee: 250, FreeDeliveryThreshold: 2000}
	remote.On("FindRestaurantSettings", ctx).Return(row, nil).Once()

	store := NewRestaurantSettings(remote, nil, "")
	for i := 0; i < 3; i++ {
		got, err := store.Ensure(ctx)
		require.NoError(t, err)
		assert.Equal(t, *row, got)
	}
	remote.AssertExpectations(t)
}

func TestRestaurantSettings_UpdateWritesRemoteThenLocal(t *testing.T) {
	ctx := context.Background()
	snap := newMemSnapshot()
	remote := new(mockSettingsRemote)
	fee := int64(500)
	remote.On("SaveRestaurantSettings", ctx, mock.MatchedBy(func(s models.RestaurantSettings) bool {
		return s.DeliveryFee == 500 && s.Name == "Savora"
	})).Return(func(s models.RestaurantSettings) *models.RestaurantSettings {
		return &s
	}, nil).Once()

	store := NewRestaurantSettings(remote, snap, KeyRestaurantSettings)
	got, err := store.Update(ctx, models.RestaurantSettingsUpdate{DeliveryFee: &fee})
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.DeliveryFee)
	assert.Equal(t, int64(500), store.Current().DeliveryFee)
	assert.False(t, got.UpdatedAt.IsZero())

	restored := NewRestaurantSettings(remote, snap, KeyRestaurantSettings)
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, int64(500), restored.Current().DeliveryFee)
}

func TestRestaurantSettings_UpdateFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	remote := new(mockSettingsRemote)
	remote.On("SaveRestaurantSettings", ctx, mock.Anything).Return(nil, errors.New("denied"))

	fee := int64(999)
	store := NewRestaurantSettings(remote, nil, "")
	_, err := store.Update(ctx, models.RestaurantSettingsUpdate{DeliveryFee: &fee})
	require.Error(t, err)
	assert.Equal(t, models.DefaultRestaurantSettings().DeliveryFee, store.Current().DeliveryFee)
}
