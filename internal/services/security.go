package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sweetshop/internal/config"
	"sweetshop/internal/logger"
)

// SecurityLogger records security events on the structured logger.
type SecurityLogger struct {
	logg *logger.Logger
}

func NewSecurityLogger(logg *logger.Logger) *SecurityLogger {
	if logg == nil {
		logg = logger.Nop()
	}
	return &SecurityLogger{logg: logg}
}

// LogSecurityEvent logs an event such as a failed admin login.
func (sl *SecurityLogger) LogSecurityEvent(ctx context.Context, eventType, details, ipAddress string) {
	if sl == nil {
		return
	}
	ctx = sl.logg.WithFields(ctx, map[string]any{
		"security_event": eventType,
		"details":        details,
		"ip":             ipAddress,
	})
	sl.logg.Warn(ctx, "security.event")
}

// SpamDetector flags contact messages with known scam vocabulary.
type SpamDetector struct {
	spamWords []string
}

func NewSpamDetector() *SpamDetector {
	return &SpamDetector{
		spamWords: []string{
			"bitcoin", "btc", "crypto", "wallet", "deposit", "withdraw",
			"investment", "profit", "earn money", "make money", "get rich",
			"quick money", "exclusive offer", "free money", "lottery",
			"prize", "winner", "account suspended", "security alert",
			"bank transfer", "western union", "moneygram", "inheritance",
			"bank account", "credit card", "ssn", "social security",
			"passport", "redeem", "graph.org", "seo services", "backlinks",
		},
	}
}

// IsSpam reports whether any spam word appears in message, ignoring case.
func (sd *SpamDetector) IsSpam(message string) bool {
	messageLower := strings.ToLower(message)
	for _, word := range sd.spamWords {
		if strings.Contains(messageLower, word) {
			return true
		}
	}
	return false
}

// AdminAuthenticator checks the single admin credential. A bcrypt hash takes
// precedence over a plain password when both are configured.
type AdminAuthenticator struct {
	username     string
	password     string
	passwordHash string
}

func NewAdminAuthenticator(cfg config.AdminConfig) *AdminAuthenticator {
	return &AdminAuthenticator{
		username:     cfg.Username,
		password:     cfg.Password,
		passwordHash: cfg.PasswordHash,
	}
}

func (a *AdminAuthenticator) Check(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) != 1 {
		return false
	}
	if a.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)) == nil
	}
	if a.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
}

// HashPassword returns a bcrypt hash suitable for SWEETSHOP_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
