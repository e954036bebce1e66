/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"weekly-kpi-report-go/internal/models"

	"go.uber.org/zap"
)

const (
	defaultAPIBaseURL      = "https://api.telegram.org"
	defaultMessageTimeout  = 15 * time.Second
	defaultDocumentTimeout = 30 * time.Second
)

// Notifier pushes a digest message and the report workbook to a Telegram
// chat via the Bot API. Credentials arrive through the config value; there
// is no ambient global state.
type Notifier struct {
	cfg    models.TelegramConfig
	client *http.Client
}

func New(cfg models.TelegramConfig) *Notifier {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.MessageTimeout <= 0 {
		cfg.MessageTimeout = defaultMessageTimeout
	}
	if cfg.DocumentTimeout <= 0 {
		cfg.DocumentTimeout = defaultDocumentTimeout
	}
	return &Notifier{cfg: cfg, client: &http.Client{}}
}

// SendReport sends the digest text first, then attaches the workbook when a
// path is given. A failure here never touches the already-written workbook.
func (n *Notifier) SendReport(ctx context.Context, text, documentPath string) error {
	if err := n.SendMessage(ctx, text); err != nil {
		return err
	}
	if documentPath == "" {
		return nil
	}
	return n.SendDocument(ctx, documentPath)
}

// SendMessage sends an HTML-formatted text message to the configured chat.
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	if err := n.checkCredentials(); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("chat_id", n.cfg.ChatId)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	reqCtx, cancel := context.WithTimeout(ctx, n.cfg.MessageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, n.methodURL("sendMessage"), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("unable to build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := n.do(req, "sendMessage"); err != nil {
		return err
	}

	zap.L().Info("Telegram message sent", zap.String("chat_id", n.cfg.ChatId))
	return nil
}

// SendDocument uploads a file to the configured chat as a document.
func (n *Notifier) SendDocument(ctx context.Context, path string) error {
	if err := n.checkCredentials(); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open document %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			zap.L().Warn("Failed to close document file", zap.Error(err))
		}
	}()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", n.cfg.ChatId); err != nil {
		return fmt.Errorf("unable to write chat_id field: %w", err)
	}
	part, err := writer.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("unable to create document part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("unable to read document %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("unable to finalize multipart body: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, n.cfg.DocumentTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, n.methodURL("sendDocument"), &body)
	if err != nil {
		return fmt.Errorf("unable to build sendDocument request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if err := n.do(req, "sendDocument"); err != nil {
		return err
	}

	zap.L().Info("Telegram document sent",
		zap.String("chat_id", n.cfg.ChatId),
		zap.String("file", filepath.Base(path)))
	return nil
}

func (n *Notifier) checkCredentials() error {
	if n.cfg.BotToken == "" || n.cfg.ChatId == "" {
		return fmt.Errorf("telegram bot token or chat id is not configured")
	}
	return nil
}

func (n *Notifier) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", n.cfg.APIBaseURL, n.cfg.BotToken, method)
}

func (n *Notifier) do(req *http.Request, method string) error {
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		// Telegram puts the failure description in the body.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
