package security

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSecurityLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "scout-backend", "test")

	sl.LogLoginSuccess(context.Background(), "u1", "10.0.0.1", "ua", "req-1")
	sl.LogLoginFailed(context.Background(), "a@example.com", "10.0.0.1", "ua", "req-2", "invalid_credentials")
	sl.LogLoginBlocked(context.Background(), "a@example.com", "10.0.0.1", "req-3", 15)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[1].ContextMap()
	assert.Equal(t, "login_failed", fields["event"])
	assert.Equal(t, HashValue("a@example.com"), fields["subject_value"])
	assert.NotContains(t, fields["subject_value"], "@")
}

func TestSecurityLoggerPersist(t *testing.T) {
	sl := NopLogger()
	got := make(chan SecurityEvent, 1)
	sl.SetPersistFunc(func(ctx context.Context, e SecurityEvent) error {
		got <- e
		return nil
	})

	sl.LogBudgetExhausted(context.Background(), "job_posting", "job-1", "tickets_exhausted")

	select {
	case e := <-got:
		assert.Equal(t, EventBudgetExhausted, e.Event)
		assert.Equal(t, "warn", e.Level)
		assert.Equal(t, "test", e.Service)
	case <-time.After(time.Second):
		t.Fatal("event was not persisted")
	}
}

func TestCredentials(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)

	secret, url, err := GenerateTOTPSecret("scout-backend", "admin@example.com")
	require.NoError(t, err)
	assert.Contains(t, url, "otpauth://")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	assert.True(t, ValidateTOTP(code, secret))
	assert.False(t, ValidateTOTP("", secret))
}

func TestLoginTrackerWithoutRedis(t *testing.T) {
	lt := NewLoginTracker(nil, DefaultLoginTrackerConfig(), NopLogger())

	blocked, err := lt.IsBlocked(context.Background(), "a@example.com", "1.2.3.4")
	assert.NoError(t, err)
	assert.False(t, blocked)

	_, _, err = lt.RecordFailedAttempt(context.Background(), "a@example.com", "1.2.3.4", "", "")
	assert.Error(t, err)
	assert.NoError(t, lt.ClearAttempts(context.Background(), "a@example.com", "1.2.3.4"))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"external_ref":"cs_1"}`)
	sig := SignPayload("whsec", body)

	assert.True(t, VerifySignature("whsec", body, sig))
	assert.False(t, VerifySignature("other", body, sig))
	assert.False(t, VerifySignature("whsec", []byte(`{"external_ref":"cs_2"}`), sig))
	assert.False(t, VerifySignature("", body, SignPayload("", body)))
	assert.False(t, VerifySignature("whsec", body, "zz-not-hex"))
}
