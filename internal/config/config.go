package config

import "os"

type Config struct {
	Port        string
	DatabaseURL string
	ClientURL   string
	UploadDir   string
	LogFile     string

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// AllowBlankUpdates switches the ticket partial-update semantics from
	// "present-and-non-zero fields overwrite" (the legacy behavior, under
	// which a client can never blank a title or clear an assignee) to
	// "present fields overwrite". Off by default.
	AllowBlankUpdates bool
}

// C is the active configuration, populated by Load.
var C Config

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	C = Config{
		Port:              env("PORT", "3000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ClientURL:         env("CLIENT_URL", "http://localhost:5173"),
		UploadDir:         env("UPLOAD_DIR", "uploads"),
		LogFile:           os.Getenv("LOG_FILE"),
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          env("SMTP_PORT", "587"),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		EmailFrom:         env("EMAIL_FROM", os.Getenv("SMTP_USER")),
		AllowBlankUpdates: os.Getenv("TICKET_ALLOW_BLANK_UPDATES") == "true",
	}
	return C
}
