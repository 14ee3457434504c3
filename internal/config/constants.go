// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "ReadQuest"
	AppVersion = "0.4.0"
)

// デフォルト設定値
const (
	DefaultServerPort        = ":8080"
	DefaultLogLevel          = "info"
	DefaultAuthEnabled       = true
	DefaultTimezone          = "UTC"
	DefaultHistoryLimit      = 50
	DefaultFeedLimit         = 30
	DefaultReconcileInterval = time.Hour
	DefaultMailDriver        = "log"
	DefaultMailFrom          = "noreply@readquest.app"
)

// MaxListLimit は一覧APIの limit クエリの上限
const MaxListLimit = 200
