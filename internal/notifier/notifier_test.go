package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"weekly-kpi-report-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) models.TelegramConfig {
	return models.TelegramConfig{
		BotToken:   "test-token",
		ChatId:     "42",
		Enabled:    true,
		APIBaseURL: baseURL,
	}
}

func TestSendMessage(t *testing.T) {
	var gotPath, gotChatId, gotText, gotParseMode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotChatId = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		gotParseMode = r.FormValue("parse_mode")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := New(testConfig(server.URL))
	err := n.SendMessage(context.Background(), "<b>hello</b>")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "42", gotChatId)
	assert.Equal(t, "<b>hello</b>", gotText)
	assert.Equal(t, "HTML", gotParseMode)
}

func TestSendMessage_MissingCredentials(t *testing.T) {
	n := New(models.TelegramConfig{})
	err := n.SendMessage(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer server.Close()

	n := New(testConfig(server.URL))
	err := n.SendMessage(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestSendDocument(t *testing.T) {
	var gotPath, gotChatId, gotFilename, gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotChatId = r.FormValue("chat_id")
		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		buf := make([]byte, header.Size)
		n, _ := file.Read(buf)
		gotContent = string(buf[:n])
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	docPath := filepath.Join(t.TempDir(), "weekly_kpi_report.xlsx")
	require.NoError(t, os.WriteFile(docPath, []byte("workbook-bytes"), 0644))

	n := New(testConfig(server.URL))
	err := n.SendDocument(context.Background(), docPath)
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendDocument", gotPath)
	assert.Equal(t, "42", gotChatId)
	assert.Equal(t, "weekly_kpi_report.xlsx", gotFilename)
	assert.Equal(t, "workbook-bytes", gotContent)
}

func TestSendDocument_MissingFile(t *testing.T) {
	n := New(testConfig("http://localhost:1"))
	err := n.SendDocument(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestSendReport_MessageThenDocument(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, filepath.Base(r.URL.Path))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	docPath := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, os.WriteFile(docPath, []byte("x"), 0644))

	n := New(testConfig(server.URL))
	require.NoError(t, n.SendReport(context.Background(), "digest", docPath))

	assert.Equal(t, []string{"sendMessage", "sendDocument"}, calls)
}

func TestSendReport_NoDocument(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, filepath.Base(r.URL.Path))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := New(testConfig(server.URL))
	require.NoError(t, n.SendReport(context.Background(), "digest", ""))

	assert.Equal(t, []string{"sendMessage"}, calls)
}

func TestNew_Defaults(t *testing.T) {
	n := New(models.TelegramConfig{BotToken: "t", ChatId: "c"})
	assert.Equal(t, defaultAPIBaseURL, n.cfg.APIBaseURL)
	assert.Equal(t, defaultMessageTimeout, n.cfg.MessageTimeout)
	assert.Equal(t, defaultDocumentTimeout, n.cfg.DocumentTimeout)
}

func TestFormatDigest(t *testing.T) {
	summary := models.SummaryMetrics{
		Start:            time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		End:              time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC),
		TotalNewUsers:    10,
		TotalPayingUsers: 4,
		TotalRevenue:     decimal.NewFromFloat(1234.5),
		Conversion:       0.4,
		AvgCheck:         decimal.NullDecimal{Decimal: decimal.NewFromFloat(308.63), Valid: true},
	}

	digest := FormatDigest(summary, "$")

	assert.Contains(t, digest, "<b>Weekly KPI Report</b>")
	assert.Contains(t, digest, "2025-03-10 — 2025-03-16")
	assert.Contains(t, digest, "New users: <b>10</b>")
	assert.Contains(t, digest, "Paying users: <b>4</b>")
	assert.Contains(t, digest, "Conversion: <b>40.0%</b>")
	assert.Contains(t, digest, "Revenue: <b>$1,234.50</b>")
	assert.Contains(t, digest, "Average check: <b>$308.63</b>")
}

func TestFormatDigest_OmitsConditionalLines(t *testing.T) {
	summary := models.SummaryMetrics{
		Start:        time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC),
		TotalRevenue: decimal.Zero,
	}

	digest := FormatDigest(summary, "")

	assert.NotContains(t, digest, "Conversion", "no conversion line without registrations")
	assert.NotContains(t, digest, "Average check", "no average check line without payments")
	assert.Contains(t, digest, "Revenue: <b>0.00</b>")
}
