// Package llm 提供流式转发单元测试
package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/breezie/breezie/internal/config"
	"github.com/breezie/breezie/internal/service/types"
)

// collectWriter 收集转发出的增量文本
type collectWriter struct {
	sb     strings.Builder
	tokens []string
}

func (w *collectWriter) WriteToken(token string) error {
	w.tokens = append(w.tokens, token)
	w.sb.WriteString(token)
	return nil
}

// newSSEServer 构造一个按片段写出响应体的上游服务
// 每个片段之间显式 Flush，模拟网络分块到达
func newSSEServer(t *testing.T, status int, chunks ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(status)
		flusher := w.(http.Flusher)
		for _, chunk := range chunks {
			_, _ = w.Write([]byte(chunk))
			flusher.Flush()
		}
	}))
}

func newTestClient(baseURL string) *Client {
	return New(config.AIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "deepseek-chat",
	})
}

func TestStreamChat_RelayInOrder(t *testing.T) {
	srv := newSSEServer(t, http.StatusOK,
		"data: {\"choices\":[{\"delta\":{\"content\":\"A\"}}]}\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"B\"}}]}\n\n",
		"data: [DONE]\n\n",
	)
	defer srv.Close()

	w := &collectWriter{}
	err := newTestClient(srv.URL).StreamChat(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, w)
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if got := w.sb.String(); got != "AB" {
		t.Errorf("relayed text = %q, want %q", got, "AB")
	}
	if len(w.tokens) != 2 {
		t.Errorf("token count = %d, want 2", len(w.tokens))
	}
}

func TestStreamChat_MalformedLineIgnored(t *testing.T) {
	srv := newSSEServer(t, http.StatusOK,
		"data: {\"choices\":[{\"delta\":{\"content\":\"A\"}}]}\n",
		"data: {not json at all\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"B\"}}]}\n",
		"data: [DONE]\n",
	)
	defer srv.Close()

	w := &collectWriter{}
	err := newTestClient(srv.URL).StreamChat(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, w)
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if got := w.sb.String(); got != "AB" {
		t.Errorf("relayed text = %q, want %q", got, "AB")
	}
}

func TestStreamChat_DoneSentinelDoesNotClose(t *testing.T) {
	// [DONE] 之后传输层仍有数据：哨兵只被忽略，流在 EOF 时才结束
	srv := newSSEServer(t, http.StatusOK,
		"data: {\"choices\":[{\"delta\":{\"content\":\"A\"}}]}\n",
		"data: [DONE]\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"B\"}}]}\n",
	)
	defer srv.Close()

	w := &collectWriter{}
	err := newTestClient(srv.URL).StreamChat(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, w)
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if got := w.sb.String(); got != "AB" {
		t.Errorf("relayed text = %q, want %q", got, "AB")
	}
}

func TestStreamChat_MultiByteRuneAcrossChunks(t *testing.T) {
	// 多字节字符被拆到两个网络分块中，行缓冲应完整重组
	frame := "data: {\"choices\":[{\"delta\":{\"content\":\"你好\"}}]}\n"
	mid := len(frame) / 2
	srv := newSSEServer(t, http.StatusOK, frame[:mid], frame[mid:], "data: [DONE]\n")
	defer srv.Close()

	w := &collectWriter{}
	err := newTestClient(srv.URL).StreamChat(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, w)
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if got := w.sb.String(); got != "你好" {
		t.Errorf("relayed text = %q, want %q", got, "你好")
	}
}

func TestStreamChat_EmptyDeltaSkipped(t *testing.T) {
	srv := newSSEServer(t, http.StatusOK,
		"data: {\"choices\":[{\"delta\":{\"content\":\"\"}}]}\n",
		"data: {\"choices\":[]}\n",
		": keep-alive comment\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"A\"}}]}\n",
		"data: [DONE]\n",
	)
	defer srv.Close()

	w := &collectWriter{}
	err := newTestClient(srv.URL).StreamChat(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, w)
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if len(w.tokens) != 1 || w.tokens[0] != "A" {
		t.Errorf("tokens = %v, want [A]", w.tokens)
	}
}

func TestStreamChat_UpstreamError(t *testing.T) {
	srv := newSSEServer(t, http.StatusInternalServerError, "model overloaded")
	defer srv.Close()

	w := &collectWriter{}
	err := newTestClient(srv.URL).StreamChat(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, w)
	if !errors.Is(err, types.ErrUpstream) {
		t.Fatalf("StreamChat() error = %v, want ErrUpstream", err)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("error should carry upstream body, got %q", err.Error())
	}
	if w.sb.Len() != 0 {
		t.Errorf("no tokens should be relayed on upstream error")
	}
}

func TestStreamChat_NotConfigured(t *testing.T) {
	c := New(config.AIConfig{BaseURL: "https://api.deepseek.com", Model: "deepseek-chat"})

	w := &collectWriter{}
	err := c.StreamChat(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, w)
	if !errors.Is(err, types.ErrNotConfigured) {
		t.Fatalf("StreamChat() error = %v, want ErrNotConfigured", err)
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	c := New(config.AIConfig{})

	_, err := c.Generate(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}})
	if !errors.Is(err, types.ErrNotConfigured) {
		t.Fatalf("Generate() error = %v, want ErrNotConfigured", err)
	}
}

func TestRelayLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  string
		count int
	}{
		{name: "normal delta", line: "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n", want: "hi", count: 1},
		{name: "prefix without space", line: "data:{\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n", want: "hi", count: 1},
		{name: "non data line", line: "event: ping\n", want: "", count: 0},
		{name: "done sentinel", line: "data: [DONE]\n", want: "", count: 0},
		{name: "bad json", line: "data: {broken\n", want: "", count: 0},
		{name: "empty choices", line: "data: {\"choices\":[]}\n", want: "", count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &collectWriter{}
			if err := relayLine(tt.line, w); err != nil {
				t.Fatalf("relayLine() error = %v", err)
			}
			if got := w.sb.String(); got != tt.want {
				t.Errorf("relayed = %q, want %q", got, tt.want)
			}
			if len(w.tokens) != tt.count {
				t.Errorf("token count = %d, want %d", len(w.tokens), tt.count)
			}
		})
	}
}
