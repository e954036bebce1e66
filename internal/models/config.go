package models

import "time"

type Config struct {
	Database DatabaseConfig
	Report   ReportConfig
	Telegram TelegramConfig
}

type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

type ReportConfig struct {
	UsersCSV       string
	PaymentsCSV    string
	OutputPath     string
	WindowDays     int
	CurrenciesFile string
}

// TelegramConfig is passed explicitly into the notifier constructor; there
// is no ambient global toggle.
type TelegramConfig struct {
	BotToken        string
	ChatId          string
	Enabled         bool
	APIBaseURL      string
	MessageTimeout  time.Duration
	DocumentTimeout time.Duration
}
