package tagger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ingredient-parser/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RemoteTagger 透過 HTTP 呼叫外部詞性標註服務
type RemoteTagger struct {
	client *resty.Client
}

// tagRequest 標註請求
type tagRequest struct {
	Tokens []string `json:"tokens"`
}

// tagResponse 標註回應
type tagResponse struct {
	Tags []string `json:"tags"`
}

// NewRemoteTagger 創建遠端標註器
// apiKey 為空時不帶 Authorization 標頭
func NewRemoteTagger(baseURL, apiKey string, timeout time.Duration) *RemoteTagger {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}

	return &RemoteTagger{client: client}
}

// Tag 將詞元送至遠端服務並回傳標記
func (t *RemoteTagger) Tag(ctx context.Context, tokens []string) ([]string, error) {
	start := time.Now()

	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(tagRequest{Tokens: tokens}).
		Post("/tag")
	if err != nil {
		return nil, common.ErrTaggerFailed.WithErr(fmt.Errorf("failed to send request to tagger: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrTaggerFailed.WithErr(fmt.Errorf("tagger returned status %d: %s", resp.StatusCode(), resp.String()))
	}

	var result tagResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, common.ErrTaggerFailed.WithErr(fmt.Errorf("failed to parse tagger response: %w", err))
	}

	if len(result.Tags) != len(tokens) {
		return nil, common.ErrTaggerFailed.WithErr(fmt.Errorf("tagger returned %d tags for %d tokens", len(result.Tags), len(tokens)))
	}

	common.LogDebug("遠端詞性標註完成",
		zap.Int("tokens", len(tokens)),
		zap.Duration("耗時", time.Since(start)),
	)
	return result.Tags, nil
}
