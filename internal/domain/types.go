package domain

// ConstraintSet is the enforceable limit tuple for a platform. Every platform
// the pipeline operates on resolves to a complete set, either from the
// knowledge graph or from the static default table.
type ConstraintSet struct {
	MaxLengthChars int  `json:"max_length_chars"`
	AllowEmojis    bool `json:"allow_emojis"`
	CTARequired    bool `json:"cta_required"`
}

// Entities holds the first-match entity detections from sanitized input text.
// Fields are nil when the pattern did not match.
type Entities struct {
	CTA      *string `json:"cta"`
	Discount *string `json:"discount"`
	Product  *string `json:"product"`
}

// Validation is the outcome of constraint checking and repair.
type Validation struct {
	OK     bool     `json:"ok"`
	Issues []string `json:"issues"`
}

// Example is one retrieved historical ad used to ground a rewrite.
type Example struct {
	Text     string  `json:"text"`
	Tone     string  `json:"tone,omitempty"`
	Platform string  `json:"platform,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

// PlatformStrategy is the knowledge-graph context for one rewrite:
// constraints plus ranked style/creative/audience recommendations.
type PlatformStrategy struct {
	Constraints              ConstraintSet `json:"constraints"`
	PreferredStyles          []string      `json:"preferred_styles"`
	RecommendedCreativeTypes []string      `json:"recommended_creative_types,omitempty"`
	TargetAudiences          []string      `json:"target_audiences,omitempty"`
	AudiencePreferredStyles  []string      `json:"audience_preferred_styles,omitempty"`
	IntentRequiredStyles     []string      `json:"intent_required_styles,omitempty"`
	CategorySuitabilityScore *float64      `json:"category_suitability_score,omitempty"`
}

// PlatformResult is the per-platform unit returned by the fan-out and
// aggregated by the API layer.
type PlatformResult struct {
	Platform      string            `json:"platform"`
	RewrittenText string            `json:"rewritten_text"`
	Explanation   string            `json:"explanation"`
	ExamplesUsed  []Example         `json:"examples_used"`
	Validation    Validation        `json:"validation"`
	Entities      Entities          `json:"entities"`
	StrategyData  *PlatformStrategy `json:"strategy_data,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// SimilarPlatform is an audience-overlap suggestion.
type SimilarPlatform struct {
	Platform string  `json:"platform"`
	Overlap  float64 `json:"overlap"`
}
