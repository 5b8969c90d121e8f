package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8000"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`

	// Groq (OpenAI-compatible) inference settings
	GroqAPIKey      string  `envconfig:"GROQ_API_KEY"`
	GroqBaseURL     string  `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	GroqModel       string  `envconfig:"GROQ_MODEL" default:"openai/gpt-oss-120b"`
	GroqTemperature float64 `envconfig:"GROQ_TEMPERATURE" default:"0.2"`

	// Twilio emergency calling settings
	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `envconfig:"TWILIO_FROM_NUMBER"`
	EmergencyContact string `envconfig:"EMERGENCY_CONTACT"`

	// Agent settings
	AgentMaxSteps       int `envconfig:"AGENT_MAX_STEPS" default:"6"`
	AgentRequestTimeout int `envconfig:"AGENT_REQUEST_TIMEOUT_SEC" default:"60"`

	// GCP settings. When GCP_PROJECT_ID is set, missing Groq/Twilio credentials
	// are loaded from Secret Manager and escalation alerts are published to
	// ALERT_TOPIC.
	GCPProjectID string `envconfig:"GCP_PROJECT_ID"`
	AlertTopic   string `envconfig:"ALERT_TOPIC" default:"safespace-escalation-alerts"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that collaborator credentials are present. Called after the
// optional Secret Manager pass so secrets may come from either source.
func (c *Config) Validate() error {
	required := map[string]string{
		"GROQ_API_KEY":       c.GroqAPIKey,
		"TWILIO_ACCOUNT_SID": c.TwilioAccountSID,
		"TWILIO_AUTH_TOKEN":  c.TwilioAuthToken,
		"TWILIO_FROM_NUMBER": c.TwilioFromNumber,
		"EMERGENCY_CONTACT":  c.EmergencyContact,
	}
	for name, v := range required {
		if v == "" {
			return fmt.Errorf("missing required environment variable: %s", name)
		}
	}
	return nil
}
