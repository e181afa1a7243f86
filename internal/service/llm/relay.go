package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/breezie/breezie/internal/service/types"
)

// 流式转发协议常量
const (
	dataPrefix    = "data:"
	doneSentinel  = "[DONE]"
	completionAPI = "/chat/completions"
)

// TokenWriter 接收转发出的增量文本
// 标准的 websocket/http writer 和测试用的采集器都可以实现它
type TokenWriter interface {
	WriteToken(token string) error
}

// chatRequest 上游补全请求体
type chatRequest struct {
	Model    string              `json:"model"`
	Messages []types.ChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

// chatStreamChunk 上游流式事件帧的 JSON 负载
type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamChat 调用上游的流式补全接口，把 SSE 事件流重组为纯文本增量流。
// 每个相关帧形如 `data: {...}`，其中首个 choice 的 delta.content 即增量文本；
// `data: [DONE]` 是模型侧的终止哨兵，本身不关闭流，转发在传输层 EOF 时结束。
// JSON 非法的行静默丢弃：转发以可用性优先，不做严格校验。
// 下游断开时 ctx 取消，上游读取随之解除。
func (c *Client) StreamChat(ctx context.Context, messages []types.ChatMessage, w TokenWriter) error {
	if c.cfg.APIKey == "" {
		return fmt.Errorf("%w: missing ai.apiKey", types.ErrNotConfigured)
	}

	reqBytes, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + completionAPI
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %s: %s", types.ErrUpstream, resp.Status, strings.TrimSpace(string(body)))
	}

	// 按行读取：跨 TCP 分块的多字节字符由行缓冲自然重组，
	// 转发顺序与上游帧顺序一致，除解码所需外不做额外缓冲
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if werr := relayLine(line, w); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%w: %v", types.ErrUpstream, err)
		}
	}
}

// relayLine 处理一行上游事件帧，提取并转发增量文本
// 返回非 nil 仅代表下游写入失败；上游帧格式问题一律忽略
func relayLine(line string, w TokenWriter) error {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, dataPrefix) {
		return nil
	}

	payload := strings.TrimSpace(strings.TrimPrefix(trimmed, dataPrefix))
	if payload == doneSentinel {
		return nil
	}

	var chunk chatStreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil
	}
	if len(chunk.Choices) == 0 {
		return nil
	}

	token := chunk.Choices[0].Delta.Content
	if token == "" {
		return nil
	}
	return w.WriteToken(token)
}
