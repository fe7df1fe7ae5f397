// Package chat はLLMプロバイダー（Groq）を使ったサイト案内チャットを提供する。
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// systemContext はアシスタントに与えるサイト固有のシステムプロンプト。
// リクエストにsystemロールのメッセージが含まれない場合のみ先頭に挿入する。
const systemContext = `You are the AI assistant for Nexus Studio, a premier digital media services company.

About Nexus Studio:
- Specializes in live streaming, media production, digital marketing, event management, and esports services
- Offers professional multi-camera live streaming for virtual events, conferences, and broadcasts
- Provides high-quality video and photo production for commercials and promotional content
- Delivers strategic digital marketing including social media management, SEO, and targeted advertising
- Offers end-to-end event planning and execution for corporate events and conferences
- Provides esports services including tournament organization, player management, and competitive gaming events

Website Features:
- Portfolio section showcasing past client work
- Blog with industry insights and company updates
- Esports leaderboard displaying competitive rankings
- Contact form for potential clients to reach out
- About page with company history and team information

Your role is to be helpful, professional, and knowledgeable about Nexus Studio's services. Guide users to the appropriate sections of the website based on their interests, answer questions about services, and help potential clients understand how Nexus Studio can meet their needs.`

// 生成パラメータはUIの期待する応答の長さ・品質に合わせた固定値。
const (
	chatModel       = "mixtral-8x7b-32768"
	chatTemperature = 0.7
	chatMaxTokens   = 1024
	chatTopP        = 1
)

// Client はGroqのChat Completions APIを呼び出すクライアント。
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient はClientを生成する。
// apiKeyが空の場合、Completeは設定不足エラーを返す。
func NewClient(apiKey, apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey: apiKey,
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// completionRequest はGroq APIへのリクエストボディ。
type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []model.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
	TopP        float64             `json:"top_p"`
}

// completionResponse はGroq APIのレスポンスボディ。
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete は会話履歴をLLMに渡し、アシスタントの応答テキストを返す。
// systemメッセージが含まれない場合はサイト固有のシステムプロンプトを先頭に挿入する。
// プロバイダーの障害詳細はログにのみ残し、呼び出し側には不透明なエラーを返す。
func (c *Client) Complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	if c.apiKey == "" {
		return "", model.NewConfigMissingError("GROQ_API_KEY")
	}
	if len(messages) == 0 {
		return "", model.NewValidationError("Messages are required")
	}

	body, err := json.Marshal(completionRequest{
		Model:       chatModel,
		Messages:    withSystemContext(messages),
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		TopP:        chatTopP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("chat completion request failed", slog.String("error", err.Error()))
		return "", model.NewUpstreamError()
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("failed to read chat completion response", slog.String("error", err.Error()))
		return "", model.NewUpstreamError()
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("chat completion returned non-200",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return "", model.NewUpstreamError()
	}

	var completion completionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		slog.Error("failed to parse chat completion response", slog.String("error", err.Error()))
		return "", model.NewUpstreamError()
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "No response", nil
	}
	return completion.Choices[0].Message.Content, nil
}

// withSystemContext はsystemメッセージが無い場合のみシステムプロンプトを先頭に挿入する。
func withSystemContext(messages []model.ChatMessage) []model.ChatMessage {
	for _, msg := range messages {
		if strings.EqualFold(msg.Role, model.ChatRoleSystem) {
			return messages
		}
	}

	out := make([]model.ChatMessage, 0, len(messages)+1)
	out = append(out, model.ChatMessage{Role: model.ChatRoleSystem, Content: systemContext})
	return append(out, messages...)
}
