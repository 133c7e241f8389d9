package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIClient ходит в OpenAI-совместимый chat completions API
// (api.openai.com, Groq и другие совместимые провайдеры).
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type openAIChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewOpenAIClient создает клиент OpenAI-совместимого API.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration, maxTokens int) *OpenAIClient {
	trimmedURL := strings.TrimRight(baseURL, "/")
	return &OpenAIClient{
		apiKey:    apiKey,
		baseURL:   trimmedURL,
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat отправляет сообщения и возвращает текст ответа и сырой ответ API.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", nil, ErrInvalidAPIKey
	}

	reqBody := openAIChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   resolveMaxTokens(c.maxTokens),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", nil, err
	}

	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", body, classifyAPIError(response.StatusCode, body)
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", body, err
	}

	if len(parsed.Choices) == 0 {
		return "", body, errors.New("chat response missing choices")
	}

	return parsed.Choices[0].Message.Content, body, nil
}

func classifyAPIError(statusCode int, body []byte) error {
	message := strings.TrimSpace(string(body))
	code := ""

	var apiErr openAIChatResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
		message = apiErr.Error.Message
		code = apiErr.Error.Code
	}

	switch {
	case statusCode == http.StatusPaymentRequired,
		statusCode == http.StatusTooManyRequests,
		code == "insufficient_quota":
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, message)
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden,
		code == "invalid_api_key":
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, message)
	default:
		return fmt.Errorf("ai api error: %s", message)
	}
}
