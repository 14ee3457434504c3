package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("正常系: ファイルと環境変数から読み込む", func(t *testing.T) {
		dir := t.TempDir()
		yaml := `
server:
  port: ":9090"
app:
  timezone: "Asia/Tokyo"
  feed_limit: 5
reconcile:
  interval: "15m"
auth:
  enabled: false
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
		t.Setenv("APP_DATABASE_URL", "postgres://env/db")
		t.Setenv("APP_MAIL_DRIVER", "ses")

		require.NoError(t, LoadConfig(dir))

		assert.Equal(t, ":9090", Cfg.Server.Port)
		assert.Equal(t, "postgres://env/db", Cfg.Database.URL)
		assert.Equal(t, "ses", Cfg.Mail.Driver)
		assert.Equal(t, 5, Cfg.App.FeedLimit)
		assert.Equal(t, DefaultHistoryLimit, Cfg.App.HistoryLimit)
		assert.Equal(t, 15*time.Minute, Cfg.Reconcile.Interval)
		assert.False(t, Cfg.Auth.Enabled)
		assert.Equal(t, "Asia/Tokyo", Cfg.Location().String())
	})

	t.Run("正常系: ファイルがなければデフォルト値", func(t *testing.T) {
		require.NoError(t, LoadConfig(t.TempDir()))

		assert.Equal(t, DefaultServerPort, Cfg.Server.Port)
		assert.True(t, Cfg.Auth.Enabled)
		assert.Equal(t, DefaultTimezone, Cfg.App.Timezone)
		assert.Equal(t, DefaultMailDriver, Cfg.Mail.Driver)
		assert.Equal(t, DefaultReconcileInterval, Cfg.Reconcile.Interval)
		assert.True(t, Cfg.Realtime.Enabled)
	})

	t.Run("異常系: 不正なタイムゾーンはUTC", func(t *testing.T) {
		c := Config{}
		c.App.Timezone = "Mars/Olympus"
		assert.Equal(t, time.UTC, c.Location())
	})
}
