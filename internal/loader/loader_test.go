package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}
	return path
}

func TestLoadUsers(t *testing.T) {
	path := writeTempCSV(t, "users.csv",
		"user_id,registered_at,source\n"+
			"u1,2025-03-10 09:15:00,organic\n"+
			"u2,2025-03-11,ads\n")

	source := NewCSVSource(path, "")
	users, err := source.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "u1", users[0].UserId)
	assert.Equal(t, time.Date(2025, time.March, 10, 9, 15, 0, 0, time.UTC), users[0].RegisteredAt)
	assert.Equal(t, "organic", users[0].Source)

	assert.Equal(t, time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), users[1].RegisteredAt,
		"date-only timestamps are accepted")
}

func TestLoadUsers_ReorderedColumns(t *testing.T) {
	path := writeTempCSV(t, "users.csv",
		"source,user_id,registered_at\n"+
			"ads,u1,2025-03-10 09:15:00\n")

	source := NewCSVSource(path, "")
	users, err := source.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].UserId)
	assert.Equal(t, "ads", users[0].Source)
}

func TestLoadUsers_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "users.csv", "user_id,registered_at,source\n")

	source := NewCSVSource(path, "")
	users, err := source.LoadUsers(context.Background())
	require.NoError(t, err, "a header-only file is an empty row set, not an error")
	assert.Empty(t, users)
}

func TestLoadUsers_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "users.csv", "user_id,source\nu1,ads\n")

	source := NewCSVSource(path, "")
	_, err := source.LoadUsers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered_at")
}

func TestLoadUsers_BadTimestamp(t *testing.T) {
	path := writeTempCSV(t, "users.csv",
		"user_id,registered_at,source\nu1,not-a-date,ads\n")

	source := NewCSVSource(path, "")
	_, err := source.LoadUsers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoadUsers_MissingFile(t *testing.T) {
	source := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"), "")
	_, err := source.LoadUsers(context.Background())
	assert.Error(t, err)
}

func TestLoadPayments(t *testing.T) {
	path := writeTempCSV(t, "payments.csv",
		"payment_id,user_id,amount,currency,paid_at\n"+
			"p1,u1,49.90,USD,2025-03-10 12:30:00\n"+
			"p2,u2,100,EUR,2025-03-11T09:12:00\n")

	source := NewCSVSource("", path)
	payments, err := source.LoadPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, payments, 2)

	assert.Equal(t, "p1", payments[0].PaymentId)
	assert.Equal(t, "u1", payments[0].UserId)
	assert.Equal(t, "49.9", payments[0].Amount.String())
	assert.Equal(t, "USD", payments[0].Currency)
	assert.Equal(t, time.Date(2025, time.March, 10, 12, 30, 0, 0, time.UTC), payments[0].PaidAt)

	assert.Equal(t, "100", payments[1].Amount.String())
	assert.Equal(t, "EUR", payments[1].Currency)
}

func TestLoadPayments_BadAmount(t *testing.T) {
	path := writeTempCSV(t, "payments.csv",
		"payment_id,user_id,amount,currency,paid_at\n"+
			"p1,u1,lots,USD,2025-03-10 12:30:00\n")

	source := NewCSVSource("", path)
	_, err := source.LoadPayments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestLoadSampleData(t *testing.T) {
	source := NewCSVSource(
		filepath.Join("..", "..", "data_sample", "users_sample.csv"),
		filepath.Join("..", "..", "data_sample", "payments_sample.csv"))

	users, err := source.LoadUsers(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, users)

	payments, err := source.LoadPayments(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, payments)
}
