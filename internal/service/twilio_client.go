package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/config"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/pubsub"

	"github.com/rs/zerolog"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

const emergencyTwiml = `<Response><Say voice="alice">` +
	`This is an automated safety alert from SafeSpace. A user may be in crisis and requires immediate attention.` +
	`</Say></Response>`

// EmergencyCallService places the outbound emergency call through Twilio and
// reports every attempt to the escalation alert topic when one is configured.
type EmergencyCallService interface {
	Call(ctx context.Context) error
}

type emergencyCallService struct {
	client     *http.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string
	to         string
	alerts     pubsub.Publisher
	alertTopic string
	logger     zerolog.Logger
}

// NewEmergencyCallService creates the Twilio-backed escalation service.
// alerts may be nil when no GCP project is configured.
func NewEmergencyCallService(cfg *config.Config, alerts pubsub.Publisher, logger zerolog.Logger) EmergencyCallService {
	return &emergencyCallService{
		client:     &http.Client{Timeout: 15 * time.Second},
		baseURL:    twilioBaseURL,
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.TwilioFromNumber,
		to:         cfg.EmergencyContact,
		alerts:     alerts,
		alertTopic: cfg.AlertTopic,
		logger:     logger.With().Str("service", "EmergencyCallService").Logger(),
	}
}

// Call places the emergency call. The error is returned to the caller; the
// tool layer decides whether to propagate it.
func (s *emergencyCallService) Call(ctx context.Context) error {
	err := s.placeCall(ctx)
	s.publishAlert(ctx, err)
	if err != nil {
		s.logger.Error().Err(err).Msg("Emergency call failed")
		return err
	}
	s.logger.Info().Str("to", s.to).Msg("Emergency call placed")
	return nil
}

func (s *emergencyCallService) placeCall(ctx context.Context) error {
	form := url.Values{}
	form.Set("To", s.to)
	form.Set("From", s.from)
	form.Set("Twiml", emergencyTwiml)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating call request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending call request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	var errorResp struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Message != "" {
		return fmt.Errorf("call request rejected: %s (code %d)", errorResp.Message, errorResp.Code)
	}
	return fmt.Errorf("call request rejected: HTTP %d", resp.StatusCode)
}

// publishAlert reports the escalation attempt to the ops topic, best effort.
func (s *emergencyCallService) publishAlert(ctx context.Context, callErr error) {
	if s.alerts == nil {
		return
	}

	event := map[string]interface{}{
		"event": "emergency_call_placed",
		"to":    s.to,
		"at":    time.Now().UTC().Format(time.RFC3339),
	}
	if callErr != nil {
		event["event"] = "emergency_call_failed"
		event["error"] = callErr.Error()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal escalation alert")
		return
	}
	if _, err := s.alerts.Publish(ctx, s.alertTopic, payload); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish escalation alert")
	}
}
