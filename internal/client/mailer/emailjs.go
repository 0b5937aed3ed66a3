package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gigrithm/gigrithm/internal/logging"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJS renders a hosted template with the message as parameters.
type EmailJS struct {
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
	http       *http.Client
	logger     logging.Logger
}

func NewEmailJS(endpoint, serviceID, templateID, publicKey string, httpClient *http.Client, logger logging.Logger) *EmailJS {
	if endpoint == "" {
		endpoint = DefaultEmailJSEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &EmailJS{
		endpoint:   endpoint,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		http:       httpClient,
		logger:     logger.With("component", "emailjs"),
	}
}

type emailJSRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams map[string]any `json:"template_params"`
}

// Send merges msg.Params with to_email, subject, message and message_html.
func (e *EmailJS) Send(ctx context.Context, msg Message) error {
	if err := msg.check(); err != nil {
		return err
	}

	params := make(map[string]any, len(msg.Params)+4)
	for k, v := range msg.Params {
		params[k] = v
	}
	params["to_email"] = strings.Join(msg.To, ",")
	params["subject"] = msg.Subject
	params["message"] = msg.Text
	params["message_html"] = msg.HTML

	body, err := json.Marshal(emailJSRequest{
		ServiceID:      e.serviceID,
		TemplateID:     e.templateID,
		UserID:         e.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		e.logger.Warn(ctx, "send rejected", "status", resp.StatusCode, "error", string(text))
		return fmt.Errorf("%w: status %d: %s", ErrSend, resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return nil
}
