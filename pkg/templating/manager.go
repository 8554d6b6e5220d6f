package templating

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

const (
	pageExt    = ".html"
	partialExt = ".part.html"
)

// TemplateManager loads the templates of a directory and executes them by name.
// It is not safe for concurrent use; the build is single-threaded.
type TemplateManager struct {
	logger         *slog.Logger
	config         TemplateConfig
	templates      *template.Template
	cleanTemplates *template.Template
	templateNames  []string
	funcMap        template.FuncMap
	templateDir    string
}

// NewTemplateManager creates a TemplateManager for templateDir and performs an
// initial Refresh. An error is returned if any template fails to parse.
func NewTemplateManager(logger *slog.Logger, config TemplateConfig, templateDir string) (*TemplateManager, error) {
	if config.MissingKey == "" {
		config.MissingKey = DefaultConfig().MissingKey
	}
	tm := &TemplateManager{
		logger:      logger,
		config:      config,
		templateDir: templateDir,
	}
	tm.funcMap = tm.makeFuncMap()

	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	logger.Debug("Template manager initialized", "dir", templateDir)
	return tm, nil
}

func (tm *TemplateManager) makeFuncMap() template.FuncMap {
	return template.FuncMap{
		// Arithmetic (from funcs_simple.go)
		"add":  add,
		"sub":  sub,
		"mult": mult,
		"div":  div,
		"mod":  mod,
		"inc":  inc,
		"dec":  dec,

		// Logic & collections (from funcs_logic.go)
		"isSet":   isSet,
		"default": defaultValue,
		"list":    list,
		"repeat":  repeat,
		"first":   first,
		"last":    last,

		// Text (from funcs_text.go)
		"join":     join,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"trim":     strings.TrimSpace,
		"truncate": tm.truncate,
		"nl2br":    nl2br,
	}
}

// SetConfig replaces the configuration. Call Refresh afterwards for a new
// MissingKey setting to take effect.
func (tm *TemplateManager) SetConfig(config TemplateConfig) {
	tm.config = config
}

// Refresh reparses every template and partial in the template directory.
func (tm *TemplateManager) Refresh() error {
	switch tm.config.MissingKey {
	case "default", "invalid", "zero", "error":
	default:
		return fmt.Errorf("unsupported missing key mode %q", tm.config.MissingKey)
	}

	pattern := filepath.Join(tm.templateDir, "*"+pageExt)
	tm.logger.Debug("Loading template files...", "pattern", pattern)

	root := template.New("").Funcs(tm.funcMap).Option("missingkey=" + tm.config.MissingKey)
	parsed, err := root.ParseGlob(pattern)
	if err != nil {
		if !strings.Contains(err.Error(), "pattern matches no files") {
			return fmt.Errorf("failed to parse templates in %s: %w", tm.templateDir, err)
		}
		// An empty directory is not an error here; Execute reports the missing name.
		parsed = root
	}

	var names []string
	for _, t := range parsed.Templates() {
		name := t.Name()
		if strings.HasSuffix(name, pageExt) && !strings.HasSuffix(name, partialExt) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		tm.logger.Warn("No template files found matching pattern", "pattern", pattern)
	}

	clean, err := parsed.Clone()
	if err != nil {
		return fmt.Errorf("failed to create a clean clone of templates: %w", err)
	}

	tm.templates = parsed
	tm.cleanTemplates = clean
	tm.templateNames = names
	tm.logger.Debug("Loaded template files", "pages", len(names), "total", len(parsed.Templates()))
	return nil
}

// Execute renders the template called name into w.
func (tm *TemplateManager) Execute(w io.Writer, name string, data any) error {
	if tm.templates.Lookup(name) == nil {
		return fmt.Errorf("template %q not found in %s", name, tm.templateDir)
	}
	if err := tm.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return nil
}

// Has reports whether a template called name is loaded.
func (tm *TemplateManager) Has(name string) bool {
	return tm.templates.Lookup(name) != nil
}

// TemplateNames returns the names of the loaded page templates, partials excluded.
func (tm *TemplateManager) TemplateNames() []string {
	return append([]string(nil), tm.templateNames...)
}

// TemplateDir returns the directory templates are loaded from.
func (tm *TemplateManager) TemplateDir() string {
	return tm.templateDir
}

// ExecuteTemplateString parses and executes a raw template string using the
// manager's function map and partials.
func (tm *TemplateManager) ExecuteTemplateString(w io.Writer, content string, data any) error {
	tempSet, err := tm.cleanTemplates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone clean templates for string execution: %w", err)
	}
	t, err := tempSet.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}
	return t.Execute(w, data)
}
