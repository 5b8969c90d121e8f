package service

import (
	"context"
	"fmt"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// SecretManagerService reads application secrets from Google Secret Manager.
type SecretManagerService interface {
	GetSecret(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

// NewSecretManagerService creates a Secret Manager client for the configured
// GCP project.
func NewSecretManagerService(ctx context.Context, projectID string) (SecretManagerService, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP project ID is not set")
	}

	var opts []option.ClientOption
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{client: client, projectID: projectID}, nil
}

// GetSecret returns the latest version of the named secret.
func (s *secretManagerService) GetSecret(ctx context.Context, name string) (string, error) {
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, name)
	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", name, err)
	}
	return string(result.Payload.Data), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

// LoadCollaboratorSecrets fills collaborator credentials that are absent from
// the environment with values from Secret Manager. Environment variables win
// so local overrides keep working.
func LoadCollaboratorSecrets(ctx context.Context, cfg *config.Config, secrets SecretManagerService, logger zerolog.Logger) {
	fields := map[string]*string{
		"safespace-groq-api-key":       &cfg.GroqAPIKey,
		"safespace-twilio-account-sid": &cfg.TwilioAccountSID,
		"safespace-twilio-auth-token":  &cfg.TwilioAuthToken,
		"safespace-twilio-from-number": &cfg.TwilioFromNumber,
		"safespace-emergency-contact":  &cfg.EmergencyContact,
	}
	for name, field := range fields {
		if *field != "" {
			continue
		}
		value, err := secrets.GetSecret(ctx, name)
		if err != nil {
			logger.Warn().Err(err).Str("secret", name).Msg("Secret not available")
			continue
		}
		*field = value
	}
}
