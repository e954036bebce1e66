package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"weekly-kpi-report-go/internal/models"
	"weekly-kpi-report-go/internal/store"

	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	// A single connection keeps the in-memory database alive across queries.
	service, err := NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		service.Close()
	}

	return service, cleanup
}

func testUser(id string, registeredAt time.Time) models.UserRecord {
	return models.UserRecord{UserId: id, RegisteredAt: registeredAt, Source: "organic"}
}

func testPayment(id, userId, amount string, paidAt time.Time) models.PaymentRecord {
	amt, _ := decimal.NewFromString(amount)
	return models.PaymentRecord{PaymentId: id, UserId: userId, Amount: amt, Currency: "USD", PaidAt: paidAt}
}

func TestImportUser_Duplicate(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := testUser("u1", time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))

	if err := service.ImportUser(ctx, user); err != nil {
		t.Fatalf("ImportUser failed: %v", err)
	}

	err := service.ImportUser(ctx, user)
	if !errors.Is(err, store.ErrDuplicateRecord) {
		t.Errorf("Expected ErrDuplicateRecord for a repeated user id, got %v", err)
	}
}

func TestImportUsers_Stats(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	users := []models.UserRecord{
		testUser("u1", time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)),
		testUser("u2", time.Date(2025, time.March, 11, 9, 0, 0, 0, time.UTC)),
		testUser("u1", time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)),
	}

	stats, err := service.ImportUsers(ctx, users)
	if err != nil {
		t.Fatalf("ImportUsers failed: %v", err)
	}
	if stats.Inserted != 2 {
		t.Errorf("Expected 2 inserted, got %d", stats.Inserted)
	}
	if stats.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", stats.Skipped)
	}
}

func TestImportPayments_RoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	paidAt := time.Date(2025, time.March, 10, 12, 30, 0, 0, time.UTC)
	payments := []models.PaymentRecord{
		testPayment("p2", "u2", "100", time.Date(2025, time.March, 11, 9, 12, 0, 0, time.UTC)),
		testPayment("p1", "u1", "49.90", paidAt),
	}

	if _, err := service.ImportPayments(ctx, payments); err != nil {
		t.Fatalf("ImportPayments failed: %v", err)
	}

	loaded, err := service.LoadPayments(ctx)
	if err != nil {
		t.Fatalf("LoadPayments failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 payments, got %d", len(loaded))
	}

	// Oldest first
	if loaded[0].PaymentId != "p1" {
		t.Errorf("Expected p1 first, got %s", loaded[0].PaymentId)
	}
	expected, _ := decimal.NewFromString("49.90")
	if !loaded[0].Amount.Equal(expected) {
		t.Errorf("Expected amount %s, got %s", expected.String(), loaded[0].Amount.String())
	}
	if loaded[0].Currency != "USD" {
		t.Errorf("Expected currency USD, got %s", loaded[0].Currency)
	}
	if !loaded[0].PaidAt.Equal(paidAt) {
		t.Errorf("Expected paid_at %v, got %v", paidAt, loaded[0].PaidAt)
	}
}

func TestLoadUsers_RoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	registeredAt := time.Date(2025, time.March, 10, 9, 15, 0, 0, time.UTC)

	if _, err := service.ImportUsers(ctx, []models.UserRecord{testUser("u1", registeredAt)}); err != nil {
		t.Fatalf("ImportUsers failed: %v", err)
	}

	loaded, err := service.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(loaded))
	}
	if loaded[0].UserId != "u1" {
		t.Errorf("Expected u1, got %s", loaded[0].UserId)
	}
	if !loaded[0].RegisteredAt.Equal(registeredAt) {
		t.Errorf("Expected registered_at %v, got %v", registeredAt, loaded[0].RegisteredAt)
	}
	if loaded[0].Source != "organic" {
		t.Errorf("Expected source organic, got %s", loaded[0].Source)
	}
}

func TestLoadUsers_EmptyStore(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	loaded, err := service.LoadUsers(context.Background())
	if err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Expected no users, got %d", len(loaded))
	}
}
