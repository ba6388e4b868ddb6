package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotforge-api/internal/config"
	apperrors "plotforge-api/pkg/errors"
)

func newImageTestClient(baseURL string) *ImageClient {
	cfg := &config.Config{}
	cfg.LLM.Image = config.ImageConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-image-model",
		Timeout: 5 * time.Second,
	}
	return NewImageClient(cfg)
}

func TestImageClient_Generate(t *testing.T) {
	t.Run("成功返回图片 URL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/images/generations", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-image-model", req["model"])
			assert.Equal(t, float64(1), req["n"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{{"url": "https://img.example.com/a.png"}},
			})
		}))
		defer server.Close()

		client := newImageTestClient(server.URL)
		url, err := client.Generate(context.Background(), "a lone castle at dusk", "1024x1024")
		require.NoError(t, err)
		assert.Equal(t, "https://img.example.com/a.png", url)
	})

	t.Run("提供商错误映射为 ProviderError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "model overloaded", "type": "server_error"},
			})
		}))
		defer server.Close()

		client := newImageTestClient(server.URL)
		_, err := client.Generate(context.Background(), "prompt", "")
		require.Error(t, err)

		appErr := apperrors.AsAppError(err)
		assert.Equal(t, apperrors.CodeProviderError, appErr.Code)
		assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
		assert.Contains(t, appErr.Message, "model overloaded")
	})

	t.Run("空 data 返回错误", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
		}))
		defer server.Close()

		client := newImageTestClient(server.URL)
		_, err := client.Generate(context.Background(), "prompt", "")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeProviderError, apperrors.AsAppError(err).Code)
	})

	t.Run("未配置时直接报错", func(t *testing.T) {
		client := NewImageClient(&config.Config{})
		_, err := client.Generate(context.Background(), "prompt", "")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeProviderError, apperrors.AsAppError(err).Code)
	})
}
