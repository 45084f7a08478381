// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package complete

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/meshintel/gearwatch/internal/httputil"
	"github.com/meshintel/gearwatch/pkg/types"
)

// Request is one field-inference question for the external reasoner: the
// evidence excerpt it may use, and which field of which category it is
// answering for.
type Request struct {
	Evidence   string         `json:"evidence"`
	FieldKey   string         `json:"field_key"`
	FieldLabel string         `json:"field_label"`
	Category   types.Category `json:"category"`
}

// Response is the reasoner's answer. An empty Value means the evidence
// did not support an answer.
type Response struct {
	Value           string `json:"value"`
	EvidenceSnippet string `json:"evidence_snippet"`
}

// Reasoner answers field-inference requests. Implementations must only
// use the supplied evidence; the engine re-validates every answer against
// it and rejects unsupported values.
type Reasoner interface {
	Infer(ctx context.Context, req Request) (Response, error)
}

// fieldKeywords is the per-field vocabulary used both to select evidence
// sentences and to validate reasoner answers.
var fieldKeywords = map[string][]string{
	"sensor_solution":    {"传感器", "感光", "主控", "PAW", "PMW", "Hero"},
	"weight_center":      {"重量", "克", "g", "g±"},
	"polling_rate":       {"回报率", "Hz", "刷新", "1000", "2000", "4000", "8000"},
	"connection_storage": {"连接", "无线", "蓝牙", "有线", "三模", "双模", "2.4G"},
	"switch_details":     {"轴体", "轴", "开关", "佳隆", "凯华", "TTC", "cherry", "磁轴"},
	"product_layout":     {"配列", "布局", "尺寸", "键数", "75%", "80%", "87%", "60%", "96%"},
	"battery_efficiency": {"电池", "续航", "mAh", "小时", "天"},
}

func keywordsFor(field string) []string {
	if kws, ok := fieldKeywords[field]; ok {
		return kws
	}
	return []string{field}
}

// maxEvidenceSentences caps the excerpt handed to the reasoner.
const maxEvidenceSentences = 5

var sentenceSplit = regexp.MustCompile(`[。！？\n]`)

// EvidenceSentences selects the sentences of text that mention the
// field's vocabulary, in document order. Empty when the text never
// mentions the field, in which case inference is pointless and the
// engine skips the call.
func EvidenceSentences(text, field string) string {
	keywords := keywordsFor(field)
	var picked []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		if containsAnyKeyword(sentence, keywords) {
			picked = append(picked, strings.TrimSpace(sentence))
			if len(picked) >= maxEvidenceSentences {
				break
			}
		}
	}
	return strings.Join(picked, "。")
}

// containsAnyKeyword is case-sensitive for CJK terms and model prefixes
// alike, matching how the vocabulary is written in source articles.
func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// vagueMarkers disqualify a reasoner answer: an answer built from these
// phrases is a hedge, not a value.
var vagueMarkers = []string{
	"未知", "未提及", "未公开", "暂无", "待定", "tbd", "不详",
	"可能", "或许", "应该", "估计",
}

// Validate decides whether a reasoner answer is acceptable for a field:
// the value must be concrete (non-empty, not an invalid literal, not
// hedged) and the cited snippet must actually mention the field's
// vocabulary. Rejected answers leave the field missing rather than
// storing a guess.
func Validate(field string, resp Response) bool {
	value := strings.TrimSpace(resp.Value)
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	for _, invalid := range []string{"null", "none", "未知", "未提及", "n/a"} {
		if lower == invalid {
			return false
		}
	}
	for _, marker := range vagueMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}

	snippet := strings.ToLower(resp.EvidenceSnippet)
	for _, kw := range keywordsFor(field) {
		if strings.Contains(snippet, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// HTTPReasoner asks an OpenAI-compatible chat endpoint to read an
// evidence excerpt and answer with a JSON object.
type HTTPReasoner struct {
	cfg    types.ReasonerConfig
	client *http.Client
}

// NewHTTPReasoner returns a reasoner backed by the configured service. A
// nil client gets a default one with the configured timeout.
func NewHTTPReasoner(cfg types.ReasonerConfig, client *http.Client) *HTTPReasoner {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPReasoner{cfg: cfg, client: client}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// jsonObject finds the first JSON object in a chat reply, tolerating
// fenced or prefixed replies.
var jsonObject = regexp.MustCompile(`(?s)\{.*?\}`)

// Infer implements Reasoner over the chat-completions wire format.
func (r *HTTPReasoner) Infer(ctx context.Context, req Request) (Response, error) {
	prompt := fmt.Sprintf(
		"仅依据下面的文章片段，提取该产品\"%s\"(%s)字段的值。片段中没有明确信息时 value 返回 null，禁止推测。\n\n品类: %s\n\n文章片段:\n%s\n\n以 JSON 返回: {\"value\": \"提取的具体值\", \"evidence_snippet\": \"支持该值的原文片段\"}",
		req.FieldLabel, req.FieldKey, req.Category, req.Evidence,
	)

	body, err := json.Marshal(chatRequest{
		Model:       r.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0,
		MaxTokens:   500,
	})
	if err != nil {
		return Response{}, fmt.Errorf("encoding reasoner request: %w", err)
	}

	url := strings.TrimSuffix(r.cfg.BaseURL, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("building reasoner request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	resp, err := httputil.DoWithRetry(ctx, r.client, httpReq, 0)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("reasoner: HTTP %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("reading reasoner response: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(payload, &chat); err != nil {
		return Response{}, fmt.Errorf("decoding reasoner response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Response{}, fmt.Errorf("reasoner returned no choices")
	}

	raw := jsonObject.FindString(chat.Choices[0].Message.Content)
	if raw == "" {
		return Response{}, fmt.Errorf("reasoner reply carries no JSON object")
	}

	var out Response
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Response{}, fmt.Errorf("decoding reasoner answer: %w", err)
	}
	if out.Value == "null" {
		out.Value = ""
	}
	return out, nil
}
