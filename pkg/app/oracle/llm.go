package oracle

import (
	"context"
	"strings"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/infra/httpx"
	"github.com/NeuralTrust/toolhub/pkg/infra/prometheus"
	"github.com/NeuralTrust/toolhub/pkg/infra/providers"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

const (
	callSelect    = "select"
	callSummarize = "summarize"
	callChat      = "chat"
	callModels    = "models"
)

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float64
	BaseURL     string
	// BreakerTimeout is how long the breaker stays open after tripping.
	BreakerTimeout time.Duration
	// BreakerFailures is the consecutive failure count that trips it.
	BreakerFailures uint32
}

type ChatReply struct {
	Response string `json:"response"`
	Model    string `json:"model"`
	Status   string `json:"status"`
}

type Status struct {
	Available bool   `json:"available"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	APIKey    string `json:"api_key,omitempty"`
	Breaker   string `json:"breaker"`
}

// LLM is a SelectionOracle backed by a language model provider.
type LLM struct {
	client  providers.Client
	config  Config
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
}

func NewLLM(client providers.Client, config Config, logger *logrus.Logger) (*LLM, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, domain.NewConfigurationError("oracle API key is not configured")
	}
	if config.BreakerTimeout <= 0 {
		config.BreakerTimeout = 30 * time.Second
	}
	if config.BreakerFailures == 0 {
		config.BreakerFailures = 5
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &LLM{
		client:  client,
		config:  config,
		breaker: httpx.NewCircuitBreaker("oracle-"+config.Provider, config.BreakerTimeout, config.BreakerFailures),
		logger:  logger,
	}, nil
}

func (o *LLM) Select(ctx context.Context, question string, catalog []toolserver.Descriptor) (*Selection, error) {
	prompt, err := selectionPrompt(question, catalog)
	if err != nil {
		return nil, err
	}
	raw, err := o.ask(ctx, callSelect, prompt)
	if err != nil {
		return nil, err
	}
	o.logger.WithField("response", raw).Info("oracle tool selection response")
	sel, err := ParseSelection(raw)
	if err != nil {
		prometheus.OracleCallsTotal.WithLabelValues(o.config.Provider, callSelect, "malformed").Inc()
		return nil, err
	}
	return sel, nil
}

func (o *LLM) Summarize(ctx context.Context, question string, sel Selection, result interface{}) (string, error) {
	prompt, err := summaryPrompt(question, sel, result)
	if err != nil {
		return "", err
	}
	raw, err := o.ask(ctx, callSummarize, prompt)
	if err != nil {
		return "", err
	}
	return EnsureAttribution(raw, sel), nil
}

// Chat forwards message to the model without any tool context.
func (o *LLM) Chat(ctx context.Context, message string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.NewBadRequestError("message is required")
	}
	raw, err := o.ask(ctx, callChat, message)
	if err != nil {
		return nil, err
	}
	return &ChatReply{Response: raw, Model: o.config.Model, Status: "success"}, nil
}

func (o *LLM) Models(ctx context.Context) ([]string, error) {
	var models []string
	err := o.breaker.Execute(func() error {
		var err error
		models, err = o.client.ListModels(ctx, o.providerConfig())
		return err
	})
	if err != nil {
		prometheus.OracleCallsTotal.WithLabelValues(o.config.Provider, callModels, "error").Inc()
		return nil, o.unavailable(err)
	}
	prometheus.OracleCallsTotal.WithLabelValues(o.config.Provider, callModels, "success").Inc()
	return models, nil
}

// Status never calls the provider; it reports configuration and breaker state.
func (o *LLM) Status() Status {
	return Status{
		Available: o.config.APIKey != "",
		Provider:  o.config.Provider,
		Model:     o.config.Model,
		APIKey:    maskKey(o.config.APIKey),
		Breaker:   o.breaker.State(),
	}
}

func (o *LLM) ask(ctx context.Context, call, prompt string) (string, error) {
	var resp *providers.Completion
	err := o.breaker.Execute(func() error {
		var err error
		resp, err = o.client.Ask(ctx, o.providerConfig(), prompt)
		return err
	})
	if err != nil {
		prometheus.OracleCallsTotal.WithLabelValues(o.config.Provider, call, "error").Inc()
		o.logger.WithError(err).WithField("call", call).Error("oracle call failed")
		return "", o.unavailable(err)
	}
	prometheus.OracleCallsTotal.WithLabelValues(o.config.Provider, call, "success").Inc()
	prometheus.OracleTokensTotal.WithLabelValues(o.config.Provider, "prompt").Add(float64(resp.Usage.PromptTokens))
	prometheus.OracleTokensTotal.WithLabelValues(o.config.Provider, "completion").Add(float64(resp.Usage.CompletionTokens))
	return resp.Text, nil
}

func (o *LLM) unavailable(err error) error {
	if httpx.IsOpen(err) {
		return domain.NewServiceUnavailableError("oracle is temporarily unavailable", err)
	}
	if errors.Is(err, providers.ErrMissingAPIKey) {
		return domain.NewConfigurationError("oracle API key is not configured")
	}
	return domain.NewServiceUnavailableError("oracle request failed", err)
}

func (o *LLM) providerConfig() *providers.Config {
	return &providers.Config{
		Credentials: providers.Credentials{APIKey: o.config.APIKey},
		Model:       o.config.Model,
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
		BaseURL:     o.config.BaseURL,
	}
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) > 10 {
		return key[:10] + "..."
	}
	return "configured"
}
