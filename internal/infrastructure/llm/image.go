package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"plotforge-api/internal/config"
	apperrors "plotforge-api/pkg/errors"
)

// ImageClient 图像生成客户端，对接 OpenAI 兼容的 images/generations 接口
type ImageClient struct {
	config     *config.ImageConfig
	httpClient *http.Client
}

// NewImageClient 创建图像生成客户端
func NewImageClient(cfg *config.Config) *ImageClient {
	timeout := cfg.LLM.Image.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ImageClient{
		config:     &cfg.LLM.Image,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate 生成单张图片，返回图片 URL
func (c *ImageClient) Generate(ctx context.Context, prompt, size string) (string, error) {
	if c.config.BaseURL == "" || c.config.Model == "" {
		return "", apperrors.New(apperrors.CodeProviderError, "image generation is not configured")
	}

	body, err := json.Marshal(imageRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		N:      1,
		Size:   size,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeProviderError, "image provider request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image response: %w", err)
	}

	var parsed imageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeProviderError, "invalid image provider response")
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("image provider returned status %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", apperrors.New(apperrors.CodeProviderError, msg)
	}

	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", apperrors.New(apperrors.CodeProviderError, "image provider returned no image")
	}

	return parsed.Data[0].URL, nil
}
