// internal/llm/chat.go
package llm

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultModel = "GigaChat-Max"

// ChatConfig configures a ChatClient.
// When TokenURL is set the client authenticates with OAuth2 client credentials,
// otherwise APIKey is sent as a static bearer token.
type ChatConfig struct {
	BaseURL            string
	Model              string
	TokenURL           string
	ClientID           string
	ClientSecret       string
	Scope              string
	APIKey             string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Configured reports whether enough settings are present to build a client.
func (c ChatConfig) Configured() bool {
	if c.BaseURL == "" {
		return false
	}
	if c.TokenURL != "" {
		return c.ClientID != "" && c.ClientSecret != ""
	}
	return c.APIKey != ""
}

// ChatClient is a Completer backed by a chat-completions HTTP endpoint.
type ChatClient struct {
	http     *http.Client
	endpoint string
	model    string
}

var _ Completer = (*ChatClient)(nil)

// NewChatClient creates an authenticated ChatClient.
func NewChatClient(ctx context.Context, cfg ChatConfig) (*ChatClient, error) {
	if !cfg.Configured() {
		return nil, errors.New("language model client is not configured")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // model gateways commonly use a private CA
	}
	base := &http.Client{Transport: transport}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	var httpClient *http.Client
	if cfg.TokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		if cfg.Scope != "" {
			cc.Scopes = []string{cfg.Scope}
		}
		httpClient = cc.Client(ctx)
	} else {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.APIKey},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	}
	httpClient.Timeout = cfg.Timeout

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &ChatClient{
		http:     httpClient,
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + "/chat/completions",
		model:    model,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns the first choice.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat completion: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode chat completion: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}
