// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ProductCluster is a group of RawRecords judged to describe the same
// physical product, with one representative title and image and the
// concatenated textual evidence of all members.
type ProductCluster struct {
	// Name is the representative title, taken from the cluster anchor
	// (the most recently published member).
	Name string `json:"name" yaml:"name"`

	// Records holds the member records in cluster-membership order,
	// anchor first.
	Records []RawRecord `json:"records" yaml:"records"`

	// Sources lists the contributing source names without duplicates.
	Sources []string `json:"sources" yaml:"sources"`

	// Images is the normalized union of member image URLs.
	Images []string `json:"images,omitempty" yaml:"images,omitempty"`

	// MainImage is the designated primary image, empty when no member
	// carried a valid one.
	MainImage string `json:"main_image,omitempty" yaml:"main_image,omitempty"`

	// Evidence is the concatenation of every member's source, title and
	// content, separated by the record delimiter. Downstream extraction
	// sees provenance inline through this text.
	Evidence string `json:"evidence" yaml:"evidence"`
}

// FieldStatus is the per-field extraction-confidence tier, from highest
// to lowest trust: explicit, enriched, inferred, missing.
type FieldStatus string

const (
	StatusExplicit FieldStatus = "explicit"
	StatusEnriched FieldStatus = "enriched"
	StatusInferred FieldStatus = "inferred"
	StatusMissing  FieldStatus = "missing"
)

// ExtractionMethod records how a field value was produced.
type ExtractionMethod string

const (
	MethodRegex     ExtractionMethod = "regex"
	MethodReasoning ExtractionMethod = "external-reasoning"
	MethodUnknown   ExtractionMethod = "unknown"
)

// DataSource records where the supporting evidence came from.
type DataSource string

const (
	SourceArticle DataSource = "article"
	SourceSearch  DataSource = "search"
	SourceUnknown DataSource = "unknown"
)

// EnrichmentRecord is the per-field provenance attached to a completed
// schema field.
type EnrichmentRecord struct {
	// Status is the confidence tier of the current value.
	Status FieldStatus `json:"status" yaml:"status"`

	// Evidence is a verbatim text fragment supporting the value,
	// possibly empty.
	Evidence string `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// Method is the extraction method that produced the value.
	Method ExtractionMethod `json:"method" yaml:"method"`

	// Source tags where the evidence was found.
	Source DataSource `json:"source" yaml:"source"`
}

// CandidateProduct is the unit that flows through the pipeline after
// clustering: a product with a category, a schema-keyed spec map, and
// per-field provenance.
type CandidateProduct struct {
	// Name is the standardized product name.
	Name string `json:"name" yaml:"name"`

	// Category is one of the fixed category set, or CategoryOther.
	Category Category `json:"category" yaml:"category"`

	// Spec maps schema field keys to extracted values. An absent key or
	// empty string means the field was never filled.
	Spec map[string]string `json:"spec" yaml:"spec"`

	// Enrichment maps schema field keys to their provenance record.
	// Each field has at most one record at any time.
	Enrichment map[string]EnrichmentRecord `json:"enrichment,omitempty" yaml:"enrichment,omitempty"`

	// ReleasePrice is the announced price, or a placeholder literal when
	// the vendor has not disclosed one.
	ReleasePrice string `json:"release_price,omitempty" yaml:"release_price,omitempty"`

	// InnovationTags are normalized marketing/innovation labels.
	InnovationTags []string `json:"innovation_tags,omitempty" yaml:"innovation_tags,omitempty"`

	// MainImage is the representative product image URL.
	MainImage string `json:"main_image,omitempty" yaml:"main_image,omitempty"`

	// Cluster is the underlying record cluster, kept for traceability.
	Cluster *ProductCluster `json:"cluster,omitempty" yaml:"cluster,omitempty"`

	// Priority is a ranking score computed by a pluggable scorer; higher
	// sorts first.
	Priority float64 `json:"priority" yaml:"priority"`
}

// SetField stores a value together with its provenance, initializing the
// maps on first use.
func (p *CandidateProduct) SetField(key, value string, rec EnrichmentRecord) {
	if p.Spec == nil {
		p.Spec = make(map[string]string)
	}
	if p.Enrichment == nil {
		p.Enrichment = make(map[string]EnrichmentRecord)
	}
	p.Spec[key] = value
	p.Enrichment[key] = rec
}

// FieldStatusOf reports the recorded status for a field, or StatusMissing
// when no enrichment record exists and the value is empty.
func (p *CandidateProduct) FieldStatusOf(key string) FieldStatus {
	if rec, ok := p.Enrichment[key]; ok {
		return rec.Status
	}
	if p.Spec[key] != "" {
		return StatusExplicit
	}
	return StatusMissing
}
