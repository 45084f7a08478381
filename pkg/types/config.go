// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of attempts for a failed fetch before the
	// unit (page or detail) is skipped.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryBackoff is the fixed delay between retry attempts.
	RetryBackoff time.Duration `json:"retry_backoff" yaml:"retry_backoff"`
}

// CrawlConfig holds settings for the crawl stage.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline"`

	// Window is the target (year, month) to collect.
	Window Window `json:"window" yaml:"window"`

	// MaxPages is the listing-page budget per source. Exhausting it
	// without a stop signal is normal termination, not an error.
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// Delay is the base pause before each fetch.
	Delay time.Duration `json:"delay" yaml:"delay"`

	// Jitter is the symmetric random spread applied to Delay; the
	// effective pause is clamped at zero.
	Jitter time.Duration `json:"jitter" yaml:"jitter"`
}

// ConsolidateConfig holds settings for record filtering and clustering.
type ConsolidateConfig struct {
	// Keywords is the allowlist: a record survives when its title or
	// content contains at least one entry.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Blacklist drops records whose title contains any entry
	// (accessories that mention the tracked categories without being one).
	Blacklist []string `json:"blacklist" yaml:"blacklist"`

	// SourceHosts maps source display names to their site base URL,
	// used to resolve relative image paths.
	SourceHosts map[string]string `json:"source_hosts" yaml:"source_hosts"`
}

// CompletionConfig holds settings for the field-completion stage.
type CompletionConfig struct {
	// Markers configures the literal phrases that drive the field-value
	// taxonomy. New marker phrasing appears as extraction prompts evolve,
	// so the sets are data, not code.
	Markers MarkerConfig `json:"markers" yaml:"markers"`

	// MaxProducts caps how many products one run completes; items beyond
	// the cap keep their pre-completion status.
	MaxProducts int `json:"max_products" yaml:"max_products"`

	// MaxFieldsPerProduct caps completed fields per product.
	MaxFieldsPerProduct int `json:"max_fields_per_product" yaml:"max_fields_per_product"`

	// Workers bounds the completion worker pool.
	Workers int `json:"workers" yaml:"workers"`

	// CountInferred controls whether inferred values count toward coverage.
	CountInferred bool `json:"count_inferred" yaml:"count_inferred"`
}

// ReasonerConfig describes how to reach the external reasoning service.
type ReasonerConfig struct {
	// BaseURL is the service endpoint root.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the model identifier requested from the service.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates requests; empty disables the reasoning tier.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the per-call HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// StoreConfig locates the interchange store.
type StoreConfig struct {
	// Dir is the directory holding the SQLite database and exports.
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Crawl       CrawlConfig       `json:"crawl" yaml:"crawl"`
	Consolidate ConsolidateConfig `json:"consolidate" yaml:"consolidate"`
	Completion  CompletionConfig  `json:"completion" yaml:"completion"`
	Reasoner    ReasonerConfig    `json:"reasoner" yaml:"reasoner"`
	Store       StoreConfig       `json:"store" yaml:"store"`
}

// MarkerConfig enumerates the literal phrases recognized by the
// field-value taxonomy. Status classification matches substrings,
// case-folded; the predicate sets match whole values.
type MarkerConfig struct {
	// Invalid values count for nothing: not coverage, not display, no
	// chart bucket.
	Invalid []string `json:"invalid" yaml:"invalid"`

	// BucketOnly values ("未公开", "待实测") are shown and bucketed under
	// their own name but excluded from coverage.
	BucketOnly []string `json:"bucket_only" yaml:"bucket_only"`

	// Failed values are explicit extraction-failure literals: never
	// shown, never counted.
	Failed []string `json:"failed" yaml:"failed"`

	// FailedHints mark a field as extract-failed for completion
	// scheduling.
	FailedHints []string `json:"failed_hints" yaml:"failed_hints"`

	// Undisclosed marks a confirmed vendor non-disclosure; the field is
	// excluded from completion because it is a fact, not a gap.
	Undisclosed []string `json:"undisclosed" yaml:"undisclosed"`

	// Pending marks known soft-state values (awaiting bench tests,
	// estimates) that completion must not touch.
	Pending []string `json:"pending" yaml:"pending"`
}

// DefaultMarkers returns the marker sets the extraction prompts currently
// produce.
func DefaultMarkers() MarkerConfig {
	return MarkerConfig{
		Invalid:     []string{"null", "none", "unknown", "N/A", "未知"},
		BucketOnly:  []string{"未公开", "待定", "待实测", "暂无", "TBD"},
		Failed:      []string{"未提及", "提取失败", "无法判断"},
		FailedHints: []string{"未提及", "原文未提及", "未提供", "提取失败", "无法判断"},
		Undisclosed: []string{"未公开", "tbd", "待公布"},
		Pending:     []string{"待实测", "预估", "推断", "推测"},
	}
}

// DefaultKeywords is the allowlist the tracked categories respond to.
func DefaultKeywords() []string {
	return []string{"鼠标", "键盘", "键鼠", "客制化", "轴体", "机械键盘", "磁轴", "手柄"}
}

// DefaultBlacklist drops accessory announcements.
func DefaultBlacklist() []string {
	return []string{
		"鼠标垫", "桌垫", "线材", "收纳包", "耳机架",
		"理线器", "脚贴", "防滑贴", "手托", "腕托",
		"耳机", "音箱", "扬声器", "麦克风", "摄像头",
		"显示器", "支架", "hub", "集线器", "扩展坞",
	}
}

// DefaultSourceHosts maps source display names to the base URL used when
// resolving their relative image paths.
func DefaultSourceHosts() map[string]string {
	return map[string]string{
		"in外设": "http://www.inwaishe.com",
		"外设天下": "https://www.wstx.com",
	}
}

// PricePlaceholder is the literal used when no price was announced.
const PricePlaceholder = "价格未公开"
