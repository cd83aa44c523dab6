package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	addressModel "address-console/internal/domains/address/model"
	addressService "address-console/internal/domains/address/service"
	settingsModel "address-console/internal/domains/settings/model"
	tagModel "address-console/internal/domains/tag/model"
	"address-console/internal/infrastructure/catalogapi"
)

type mockAddresses struct {
	mock.Mock
	addressService.ServiceInterface
}

func (m *mockAddresses) Load(ctx context.Context, userID string, req addressModel.ListRequest) (*addressModel.AddressView, error) {
	args := m.Called(ctx, userID, req)
	out, _ := args.Get(0).(*addressModel.AddressView)
	return out, args.Error(1)
}

type mockTags struct {
	mock.Mock
}

func (m *mockTags) Categories(ctx context.Context, userID, language string, force bool) (*tagModel.TagCategories, error) {
	args := m.Called(ctx, userID, language, force)
	out, _ := args.Get(0).(*tagModel.TagCategories)
	return out, args.Error(1)
}

func (m *mockTags) Warm(context.Context)           {}
func (m *mockTags) StartRefresher(context.Context) {}
func (m *mockTags) StopRefresher()                 {}

type mockSettings struct {
	mock.Mock
}

func (m *mockSettings) Get(ctx context.Context, userID string) (*settingsModel.Settings, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(*settingsModel.Settings)
	return out, args.Error(1)
}

func (m *mockSettings) Identify(ctx context.Context, profile settingsModel.UserProfile) (*settingsModel.Settings, error) {
	args := m.Called(ctx, profile)
	out, _ := args.Get(0).(*settingsModel.Settings)
	return out, args.Error(1)
}

func (m *mockSettings) Update(ctx context.Context, userID string, req settingsModel.UpdateRequest) (*settingsModel.Settings, error) {
	args := m.Called(ctx, userID, req)
	out, _ := args.Get(0).(*settingsModel.Settings)
	return out, args.Error(1)
}

func (m *mockSettings) Flush()       {}
func (m *mockSettings) Evict(string) {}

var profile = settingsModel.UserProfile{ID: "op-1", Email: "op@example.com"}

func japaneseSettings() *settingsModel.Settings {
	return &settingsModel.Settings{
		Config: settingsModel.ConsoleConfig{Language: "ja", Theme: settingsModel.ThemeDark},
		User:   profile,
	}
}

func TestBootstrap_UsesSettingsLanguage(t *testing.T) {
	settings := &mockSettings{}
	settings.On("Identify", mock.Anything, profile).Return(japaneseSettings(), nil)
	addresses := &mockAddresses{}
	addresses.On("Load", mock.Anything, "op-1", addressModel.ListRequest{Language: "ja"}).
		Return(&addressModel.AddressView{CurrentPage: 1, TotalPages: 1, Language: "ja"}, nil)
	tags := &mockTags{}
	tags.On("Categories", mock.Anything, "op-1", "ja", false).
		Return(&tagModel.TagCategories{Language: "ja"}, nil)

	got, err := NewConsoleService(addresses, tags, settings).Bootstrap(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, "ja", got.Addresses.Language)
	assert.Equal(t, "ja", got.Tags.Language)
	assert.Equal(t, settingsModel.ThemeDark, got.Settings.Config.Theme)
}

func TestBootstrap_RunsConcurrently(t *testing.T) {
	settings := &mockSettings{}
	settings.On("Identify", mock.Anything, profile).Return(japaneseSettings(), nil)

	tagsStarted := make(chan struct{})
	addresses := &mockAddresses{}
	addresses.On("Load", mock.Anything, "op-1", mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case <-tagsStarted:
			case <-time.After(time.Second):
			}
		}).
		Return(&addressModel.AddressView{}, nil)
	tags := &mockTags{}
	tags.On("Categories", mock.Anything, "op-1", "ja", false).
		Run(func(mock.Arguments) { close(tagsStarted) }).
		Return(&tagModel.TagCategories{}, nil)

	start := time.Now()
	_, err := NewConsoleService(addresses, tags, settings).Bootstrap(context.Background(), profile)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestBootstrap_TagFailureTolerated(t *testing.T) {
	settings := &mockSettings{}
	settings.On("Identify", mock.Anything, profile).Return(japaneseSettings(), nil)
	addresses := &mockAddresses{}
	addresses.On("Load", mock.Anything, "op-1", mock.Anything).Return(&addressModel.AddressView{}, nil)
	tags := &mockTags{}
	tags.On("Categories", mock.Anything, "op-1", "ja", false).
		Return(nil, &catalogapi.APIError{Status: 500, Message: "down"})

	got, err := NewConsoleService(addresses, tags, settings).Bootstrap(context.Background(), profile)
	require.NoError(t, err)
	assert.NotNil(t, got.Addresses)
	assert.Nil(t, got.Tags)
}

func TestBootstrap_AddressFailure(t *testing.T) {
	settings := &mockSettings{}
	settings.On("Identify", mock.Anything, profile).Return(japaneseSettings(), nil)
	addresses := &mockAddresses{}
	addresses.On("Load", mock.Anything, "op-1", mock.Anything).
		Return(nil, &catalogapi.APIError{Status: 503, Message: "unavailable"})
	tags := &mockTags{}
	tags.On("Categories", mock.Anything, "op-1", "ja", false).Return(&tagModel.TagCategories{}, nil)

	_, err := NewConsoleService(addresses, tags, settings).Bootstrap(context.Background(), profile)
	var apiErr *catalogapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unavailable", apiErr.Message)
}

func TestBootstrap_SettingsFailure(t *testing.T) {
	settings := &mockSettings{}
	settings.On("Identify", mock.Anything, profile).Return(nil, errors.New("redis down"))

	_, err := NewConsoleService(&mockAddresses{}, &mockTags{}, settings).Bootstrap(context.Background(), profile)
	assert.EqualError(t, err, "redis down")
}
