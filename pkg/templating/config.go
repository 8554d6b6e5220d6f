package templating

// TemplateConfig holds all configuration options for the templating engine.
type TemplateConfig struct {
	// MissingKey is passed to text/template as "missingkey=<value>".
	// One of "default", "invalid", "zero" or "error". For map data both
	// "default" and "zero" print "<no value>" for an absent key, so templates
	// guard optional fields with {{with}} or the default function.
	MissingKey string `yaml:"missing_key"`

	// TruncateSuffix is appended by the truncate function when it shortens text.
	TruncateSuffix string `yaml:"truncate_suffix"`
}

// DefaultConfig returns a TemplateConfig with default values.
func DefaultConfig() TemplateConfig {
	return TemplateConfig{
		MissingKey:     "default",
		TruncateSuffix: "…",
	}
}
