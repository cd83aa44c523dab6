package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"address-console/internal/config"
	settingsModel "address-console/internal/domains/settings/model"
	infraCache "address-console/internal/infrastructure/cache"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// genai kéo theo opencensus, worker của nó chạy suốt process
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("TAGS_REFRESH_INTERVAL", "0s")
	t.Setenv("SETTINGS_FLUSH_DELAY", "1h")
	t.Setenv("SESSION_SWEEP_INTERVAL", "10ms")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestBuild_APIBackend(t *testing.T) {
	c, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer c.Cleanup()

	assert.Nil(t, c.DB)
	assert.IsType(t, &infraCache.MemoryCache{}, c.Cache)
	assert.NotNil(t, c.AddressHandler)
	assert.NotNil(t, c.TagHandler)
	assert.NotNil(t, c.GenerationHandler)
	assert.NotNil(t, c.SettingsHandler)
	assert.NotNil(t, c.ConsoleHandler)
}

func TestCleanup_FlushesSettings(t *testing.T) {
	c, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)

	theme := settingsModel.ThemeDark
	_, err = c.SettingsService.Update(context.Background(), "op-1", settingsModel.UpdateRequest{Theme: &theme})
	require.NoError(t, err)

	c.Cleanup()

	var stored settingsModel.Settings
	found, err := c.Cache.Get(context.Background(), "console:settings:op-1", &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, settingsModel.ThemeDark, stored.Config.Theme)
}

func TestEvictOperator_PersistsSettings(t *testing.T) {
	c, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer c.Cleanup()

	lang := "ja"
	_, err = c.SettingsService.Update(context.Background(), "op-1", settingsModel.UpdateRequest{Language: &lang})
	require.NoError(t, err)

	// address session end hook, SETTINGS_FLUSH_DELAY is 1h so only eviction persists
	c.evictOperator("op-1")

	var stored settingsModel.Settings
	found, err := c.Cache.Get(context.Background(), "console:settings:op-1", &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ja", stored.Config.Language)
}

func TestStart_SweeperPublishesSessionGauge(t *testing.T) {
	c, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)

	c.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	c.Cleanup()

	rec := httptest.NewRecorder()
	c.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "address_console_active_sessions 0")
}
