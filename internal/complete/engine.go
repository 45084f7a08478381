// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package complete

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/meshintel/gearwatch/pkg/types"
)

const (
	defaultWorkers             = 5
	defaultMaxProducts         = 10
	defaultMaxFieldsPerProduct = 6

	// Snippet bounds for stored provenance.
	maxSnippetRunes   = 200
	fallbackSnippet   = 100
	coverageWarnLevel = 50.0
)

// Failure records one field that could not be completed because the
// reasoner call failed. Validation rejections are not failures; they are
// the contract working.
type Failure struct {
	Product string `json:"product" yaml:"product"`
	Field   string `json:"field" yaml:"field"`
	Err     string `json:"error" yaml:"error"`
}

// Summary is the completion run report.
type Summary struct {
	// Products is the input product count.
	Products int `json:"products" yaml:"products"`

	// Planned is how many products had completable fields.
	Planned int `json:"planned" yaml:"planned"`

	// Attempted is how many of those the product cap admitted.
	Attempted int `json:"attempted" yaml:"attempted"`

	// Enriched counts fields filled by local rules.
	Enriched int `json:"enriched" yaml:"enriched"`

	// Inferred counts fields filled by the external reasoner.
	Inferred int `json:"inferred" yaml:"inferred"`

	// PricesFilled counts products whose placeholder price a regex
	// replaced.
	PricesFilled int `json:"prices_filled" yaml:"prices_filled"`

	// Before and After are the critical-field coverage reports around
	// the pass.
	Before types.CoverageReport `json:"before" yaml:"before"`
	After  types.CoverageReport `json:"after" yaml:"after"`

	// CountInferred records the coverage policy the numbers were
	// computed under.
	CountInferred bool `json:"count_inferred" yaml:"count_inferred"`

	// Failed lists per-field reasoner failures.
	Failed []Failure `json:"failed,omitempty" yaml:"failed,omitempty"`

	// Warnings flags categories whose coverage stayed below the
	// warning threshold after completion.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Completed is the total number of fields the pass filled.
func (s Summary) Completed() int {
	return s.Enriched + s.Inferred
}

// HasFailures reports whether any reasoner call failed.
func (s Summary) HasFailures() bool {
	return len(s.Failed) > 0
}

// Engine runs the tiered completion pass.
type Engine struct {
	cfg      types.CompletionConfig
	reasoner Reasoner
	scorer   Scorer
	w        io.Writer
}

// NewEngine builds an engine. A nil reasoner disables the inference tier
// (local rules still run); a nil scorer uses DefaultScorer; a nil writer
// silences progress output.
func NewEngine(cfg types.CompletionConfig, reasoner Reasoner, scorer Scorer, w io.Writer) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxProducts <= 0 {
		cfg.MaxProducts = defaultMaxProducts
	}
	if cfg.MaxFieldsPerProduct <= 0 {
		cfg.MaxFieldsPerProduct = defaultMaxFieldsPerProduct
	}
	if scorer == nil {
		scorer = DefaultScorer
	}
	if w == nil {
		w = io.Discard
	}
	return &Engine{cfg: cfg, reasoner: reasoner, scorer: scorer, w: w}
}

// itemResult collects one plan item's outcome; results are slotted by
// plan index so output order never depends on worker scheduling.
type itemResult struct {
	enriched int
	inferred int
	lines    []string
	failures []Failure
}

// Run executes the completion pass over products: detect, complete under
// the caps, extract prices, normalize tags, score and order the final
// snapshot. Products beyond the product cap are untouched. The input
// slice is reordered by descending priority.
func (e *Engine) Run(ctx context.Context, products []*types.CandidateProduct) Summary {
	summary := Summary{
		Products:      len(products),
		CountInferred: e.cfg.CountInferred,
		Before:        Coverage(products, e.cfg.Markers, e.cfg.CountInferred),
	}

	plan := DetectMissing(products, e.cfg.Markers)
	summary.Planned = len(plan)
	if len(plan) > e.cfg.MaxProducts {
		plan = plan[:e.cfg.MaxProducts]
	}
	summary.Attempted = len(plan)
	fmt.Fprintf(e.w, "completing %d of %d planned products (%d workers)\n",
		len(plan), summary.Planned, e.cfg.Workers)

	results := make([]itemResult, len(plan))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < e.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = e.completeItem(ctx, products[plan[idx].Index], plan[idx])
			}
		}()
	}
	for idx := range plan {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, res := range results {
		summary.Enriched += res.enriched
		summary.Inferred += res.inferred
		summary.Failed = append(summary.Failed, res.failures...)
		for _, line := range res.lines {
			fmt.Fprint(e.w, line)
		}
	}

	for _, p := range products {
		if ApplyPrice(p) {
			summary.PricesFilled++
		}
		p.InnovationTags = NormalizeTags(p.InnovationTags)
		p.Priority = e.scorer(p)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Priority > products[j].Priority
	})

	summary.After = Coverage(products, e.cfg.Markers, e.cfg.CountInferred)
	for _, category := range []types.Category{types.CategoryMouse, types.CategoryKeyboard} {
		cov := summary.After[category]
		if cov.Total > 0 && cov.Percent < coverageWarnLevel {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("%s 关键字段覆盖率 %.1f%% 低于 %.0f%%", category, cov.Percent, coverageWarnLevel))
		}
	}

	fmt.Fprintf(e.w, "completion done: %d enriched, %d inferred, %d failures\n",
		summary.Enriched, summary.Inferred, len(summary.Failed))
	return summary
}

// completeItem fills one product's planned fields: rules first, then the
// reasoner. A field already answered by a rule is never re-asked; a
// rejected or failed inference leaves the field missing.
func (e *Engine) completeItem(ctx context.Context, p *types.CandidateProduct, item PlanItem) itemResult {
	var res itemResult
	if p.Cluster == nil || p.Cluster.Evidence == "" {
		return res
	}
	evidence := p.Cluster.Evidence

	fields := item.Fields
	if len(fields) > e.cfg.MaxFieldsPerProduct {
		fields = fields[:e.cfg.MaxFieldsPerProduct]
	}
	schema, _ := types.SchemaFor(item.Category)

	for _, field := range fields {
		if value, snippet, ok := ExtractField(evidence, field); ok {
			p.SetField(field, value, types.EnrichmentRecord{
				Status:   types.StatusEnriched,
				Evidence: snippet,
				Method:   types.MethodRegex,
				Source:   types.SourceArticle,
			})
			res.enriched++
			res.lines = append(res.lines, fmt.Sprintf("  [%s] %s: %s\n", item.Name, field, value))
			continue
		}

		if e.reasoner == nil {
			continue
		}
		excerpt := EvidenceSentences(evidence, field)
		if excerpt == "" {
			continue
		}

		resp, err := e.reasoner.Infer(ctx, Request{
			Evidence:   excerpt,
			FieldKey:   field,
			FieldLabel: schema.Label(field),
			Category:   item.Category,
		})
		if err != nil {
			res.failures = append(res.failures, Failure{Product: item.Name, Field: field, Err: err.Error()})
			continue
		}
		if !Validate(field, resp) {
			res.lines = append(res.lines, fmt.Sprintf("  [%s] %s: 证据不足，保持缺失\n", item.Name, field))
			continue
		}

		snippet := truncateRunes(resp.EvidenceSnippet, maxSnippetRunes)
		if snippet == "" {
			snippet = truncateRunes(excerpt, fallbackSnippet)
		}
		p.SetField(field, resp.Value, types.EnrichmentRecord{
			Status:   types.StatusInferred,
			Evidence: snippet,
			Method:   types.MethodReasoning,
			Source:   types.SourceArticle,
		})
		res.inferred++
		res.lines = append(res.lines, fmt.Sprintf("  [%s] %s: %s (推断)\n", item.Name, field, resp.Value))
	}
	return res
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
