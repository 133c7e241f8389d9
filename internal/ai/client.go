package ai

import (
	"context"
	"errors"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Client interface {
	Chat(ctx context.Context, messages []Message) (string, []byte, error)
}

// Ошибки провайдера различаются, чтобы обработчики могли вернуть
// точный статус вместо общего сбоя.
var (
	ErrQuotaExceeded = errors.New("ai provider quota exceeded")
	ErrInvalidAPIKey = errors.New("ai provider api key is invalid")
)

const defaultMaxTokens = 1000

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}
