package model

// ModuleKind discriminates the closed set of recognized module types.
type ModuleKind string

const (
	KindCounter       ModuleKind = "counter"
	KindMetadata      ModuleKind = "metadata"
	KindLiteralText   ModuleKind = "literal_text"
	KindOriginalName  ModuleKind = "original_name"
	KindRemoveText    ModuleKind = "remove_text"
	KindNameTransform ModuleKind = "name_transform"
)

// ModuleConfig is a tagged variant over the recognized module types.
// Each concrete config implements Kind() so the composer and the
// (de)serialization codec can dispatch without a type switch leaking
// into every caller.
type ModuleConfig interface {
	Kind() ModuleKind
}

// CounterScope controls how a Counter module's index is computed.
type CounterScope string

const (
	ScopeGlobal       CounterScope = "global"
	ScopePerFolder    CounterScope = "per_folder"
	ScopePerExtension CounterScope = "per_extension"
)

// CounterConfig produces Start + index_within_scope × Step (a Step of
// 0 is treated as 1), zero-padded to PadWidth.
type CounterConfig struct {
	Start     int          `yaml:"start" json:"start"`
	Step      int          `yaml:"step" json:"step"`
	PadWidth  int          `yaml:"pad_width" json:"pad_width"`
	Scope     CounterScope `yaml:"scope" json:"scope"`
}

func (CounterConfig) Kind() ModuleKind { return KindCounter }

// FallbackPolicy controls what a MetadataConfig module does when its
// field is missing from the cache.
type FallbackPolicy struct {
	// UseFallback, when true, emits FallbackText instead of invalidating
	// the row. When false, a missing field marks the row
	// invalid(missing:<field_key>).
	UseFallback  bool   `yaml:"use_fallback" json:"use_fallback"`
	FallbackText string `yaml:"fallback_text" json:"fallback_text"`
}

// MetadataConfig looks up FieldKey in the metadata cache for the
// current descriptor.
type MetadataConfig struct {
	FieldKey   string         `yaml:"field_key" json:"field_key"`
	DateFormat string         `yaml:"date_format,omitempty" json:"date_format,omitempty"`
	Fallback   FallbackPolicy `yaml:"fallback" json:"fallback"`
}

func (MetadataConfig) Kind() ModuleKind { return KindMetadata }

// LiteralTextConfig returns Text verbatim.
type LiteralTextConfig struct {
	Text string `yaml:"text" json:"text"`
}

func (LiteralTextConfig) Kind() ModuleKind { return KindLiteralText }

// OriginalNameConfig returns the descriptor's current base name,
// optionally transliterated Greek-to-Latin.
type OriginalNameConfig struct {
	Greeklish bool `yaml:"greeklish" json:"greeklish"`
}

func (OriginalNameConfig) Kind() ModuleKind { return KindOriginalName }

// RemoveTextConfig removes matches of Pattern from the accumulated name
// so far (not the original base name).
type RemoveTextConfig struct {
	Pattern       string `yaml:"pattern" json:"pattern"`
	UseRegex      bool   `yaml:"use_regex" json:"use_regex"`
	CaseSensitive bool   `yaml:"case_sensitive" json:"case_sensitive"`
	FirstOnly     bool   `yaml:"first_only" json:"first_only"`
}

func (RemoveTextConfig) Kind() ModuleKind { return KindRemoveText }

// CasePolicy controls NameTransform's case conversion.
type CasePolicy string

const (
	CaseAsIs    CasePolicy = "as_is"
	CaseLower   CasePolicy = "lower"
	CaseUpper   CasePolicy = "upper"
	CaseTitle   CasePolicy = "title"
	CaseSentence CasePolicy = "sentence"
)

// SeparatorPolicy controls NameTransform's separator substitution.
type SeparatorPolicy string

const (
	SeparatorKeep       SeparatorPolicy = "keep"
	SeparatorUnderscore SeparatorPolicy = "underscore"
	SeparatorDash       SeparatorPolicy = "dash"
	SeparatorSpace      SeparatorPolicy = "space"
	SeparatorStrip      SeparatorPolicy = "strip"
)

// NameTransformConfig is the terminal post-transform module: always
// last, singleton within a Pipeline.
type NameTransformConfig struct {
	CasePolicy      CasePolicy      `yaml:"case_policy" json:"case_policy"`
	SeparatorPolicy SeparatorPolicy `yaml:"separator_policy" json:"separator_policy"`
	Trim            bool            `yaml:"trim" json:"trim"`
}

func (NameTransformConfig) Kind() ModuleKind { return KindNameTransform }

// Pipeline is an ordered sequence of naming modules plus exactly one
// trailing NameTransformConfig.
type Pipeline struct {
	Modules   []ModuleConfig      `yaml:"-" json:"-"`
	Transform NameTransformConfig `yaml:"transform" json:"transform"`
}

// Validate checks the structural invariant: every entry in Modules must
// not itself be a NameTransformConfig (that belongs in Transform).
func (p Pipeline) Validate() error {
	for _, m := range p.Modules {
		if m.Kind() == KindNameTransform {
			return errPipelineTransformInModules
		}
	}
	return nil
}

var errPipelineTransformInModules = pipelineError("name_transform module must be the pipeline's Transform field, not a Modules entry")

type pipelineError string

func (e pipelineError) Error() string { return string(e) }
