package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/intelligence"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

// CompletionConfig selects the completion probability model and its coefficients.
type CompletionConfig struct {
	Model        domain.CompletionModel           `yaml:"model"`
	Coefficients scheduler.CompletionCoefficients `yaml:"coefficients"`
}

// ResourceSeed is a resource registered on first start.
type ResourceSeed struct {
	ID           string              `yaml:"id"`
	Type         domain.ResourceType `yaml:"type"`
	SkillLevel   int                 `yaml:"skill_level"`
	Availability float64             `yaml:"availability"`
}

// Config is the immutable estimation configuration. It is loaded once at
// startup and passed by value to every component that needs it.
type Config struct {
	Steps        map[string]float64                   `yaml:"steps"`
	Dependencies domain.DependencyGraph               `yaml:"dependencies"`
	Factors      scheduler.FactorTable                `yaml:"factors"`
	History      map[string][]float64                 `yaml:"history"`
	TargetDays   float64                              `yaml:"target_days"`
	Warning      scheduler.WarningThresholds          `yaml:"warning"`
	Parallel     scheduler.ParallelThresholds         `yaml:"parallel"`
	Completion   CompletionConfig                     `yaml:"completion"`
	Allocation   scheduler.AllocationRules            `yaml:"allocation"`
	Requirements map[string]scheduler.StepRequirement `yaml:"requirements"`
	Impact       intelligence.ImpactWeights           `yaml:"impact"`
	Resources    []ResourceSeed                       `yaml:"resources"`
}

// Default returns the built-in seven-step integration process.
func Default() Config {
	return Config{
		Steps: map[string]float64{
			"step1": 3, "step2": 7, "step3": 5, "step4": 5,
			"step5": 1, "step6": 8, "step7": 1,
		},
		Dependencies: defaultDependencies(),
		Factors:      scheduler.DefaultFactorTable(),
		History: map[string][]float64{
			"step1": {3, 4, 3, 5, 3, 4},
			"step2": {7, 8, 9, 7, 8, 10},
			"step3": {5, 6, 5, 7, 5, 6},
			"step4": {5, 6, 5, 7, 5, 6},
			"step5": {1, 2, 1, 2, 1, 2},
			"step6": {8, 9, 8, 10, 8, 9},
			"step7": {1, 2, 1, 2, 1, 2},
		},
		TargetDays: 30,
		Warning:    scheduler.DefaultWarningThresholds(),
		Parallel:   scheduler.DefaultParallelThresholds(),
		Completion: CompletionConfig{
			Model:        domain.CompletionBasic,
			Coefficients: scheduler.DefaultCompletionCoefficients(),
		},
		Allocation: scheduler.DefaultAllocationRules(),
		Requirements: map[string]scheduler.StepRequirement{
			"step1": {MinSkill: 5, PreferredType: domain.ResourceAnalyst},
			"step2": {MinSkill: 7, PreferredType: domain.ResourceDeveloper},
			"step3": {MinSkill: 6, PreferredType: domain.ResourceDeveloper},
			"step4": {MinSkill: 6, PreferredType: domain.ResourceDeveloper},
			"step5": {MinSkill: 5, PreferredType: domain.ResourceAnalyst},
			"step6": {MinSkill: 7, PreferredType: domain.ResourceDeveloper},
			"step7": {MinSkill: 6, PreferredType: domain.ResourceDeveloper},
		},
		Impact: intelligence.DefaultImpactWeights(),
		Resources: []ResourceSeed{
			{ID: "R1", Type: domain.ResourceDeveloper, SkillLevel: 8, Availability: 0.7},
			{ID: "R2", Type: domain.ResourceDeveloper, SkillLevel: 6, Availability: 0.5},
			{ID: "R3", Type: domain.ResourceAnalyst, SkillLevel: 7, Availability: 0.8},
		},
	}
}

func defaultDependencies() domain.DependencyGraph {
	return domain.DependencyGraph{
		"step1": {},
		"step2": {"step1"},
		"step3": {"step2"},
		"step4": {"step2"},
		"step5": {"step3", "step4"},
		"step6": {"step5"},
		"step7": {"step6"},
	}
}

// Load reads a YAML configuration file. Sections the file leaves out keep
// their defaults. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("failed to load config from %q: %w", path, err)
	}

	// Unmarshalling merges into the seeded sections, so a partial section
	// only overrides the fields it names.
	cfg := scalarDefaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return Config{}, fmt.Errorf("failed to parse config from %q: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed for %q: %w", path, err)
	}
	return cfg, nil
}

// scalarDefaults is Default with the step-keyed tables left unset, so that
// applyDefaults can tell a custom step table from the built-in one.
func scalarDefaults() Config {
	def := Default()
	return Config{
		TargetDays: def.TargetDays,
		Warning:    def.Warning,
		Parallel:   def.Parallel,
		Completion: def.Completion,
		Allocation: def.Allocation,
		Impact:     def.Impact,
	}
}

// applyDefaults fills the table sections the file did not set. A custom step
// table without dependencies gets independent steps and no seed history.
func (c *Config) applyDefaults() {
	def := Default()
	customSteps := len(c.Steps) > 0

	if !customSteps {
		c.Steps = def.Steps
	}
	if c.Dependencies == nil {
		if customSteps {
			c.Dependencies = make(domain.DependencyGraph, len(c.Steps))
			for id := range c.Steps {
				c.Dependencies[id] = []string{}
			}
		} else {
			c.Dependencies = def.Dependencies
		}
	}
	if c.History == nil && !customSteps {
		c.History = def.History
	}
	if c.Requirements == nil && !customSteps {
		c.Requirements = def.Requirements
	}
	if c.Factors == nil {
		c.Factors = def.Factors
	}
	for name, row := range def.Factors {
		if _, ok := c.Factors[name]; !ok {
			c.Factors[name] = row
		}
	}
	if c.Resources == nil {
		c.Resources = def.Resources
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error

	if len(c.Steps) == 0 {
		errs = append(errs, fmt.Errorf("steps must define at least one step"))
	}
	for _, id := range sortedKeys(c.Steps) {
		if c.Steps[id] <= 0 {
			errs = append(errs, domain.NewValidationError(domain.CodeInvalidDuration, id,
				"standard duration must be positive, got %v", c.Steps[id]))
		}
	}
	for _, id := range c.Dependencies.StepIDs() {
		if _, ok := c.Steps[id]; !ok {
			errs = append(errs, domain.MissingStep(id))
		}
	}
	if err := scheduler.ValidateGraph(c.Dependencies); err != nil {
		errs = append(errs, err)
	}
	for id, samples := range c.History {
		if _, ok := c.Steps[id]; !ok {
			errs = append(errs, domain.MissingStep(id))
			continue
		}
		for _, s := range samples {
			if s <= 0 {
				errs = append(errs, domain.NewValidationError(domain.CodeInvalidDuration, id,
					"historical duration must be positive, got %v", s))
				break
			}
		}
	}

	if err := c.Factors.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.TargetDays <= 0 {
		errs = append(errs, fmt.Errorf("target_days must be positive, got %v", c.TargetDays))
	}
	if err := c.Warning.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Parallel.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Completion.Model {
	case domain.CompletionBasic, domain.CompletionAdjusted:
	default:
		errs = append(errs, fmt.Errorf("completion.model must be %q or %q, got %q",
			domain.CompletionBasic, domain.CompletionAdjusted, c.Completion.Model))
	}
	if err := c.Completion.Coefficients.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Allocation.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Impact.Schedule < 0 || c.Impact.Resource < 0 || c.Impact.Quality < 0 {
		errs = append(errs, fmt.Errorf("impact weights must be non-negative, got %+v", c.Impact))
	}
	for _, r := range c.Resources {
		if !domain.ValidResourceTypes[string(r.Type)] {
			errs = append(errs, fmt.Errorf("resource %q has invalid type %q", r.ID, r.Type))
		}
		if r.Availability < 0 || r.Availability > 1 {
			errs = append(errs, fmt.Errorf("resource %q availability must be in [0, 1], got %v", r.ID, r.Availability))
		}
	}

	return errors.Join(errs...)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplyEnv overrides scalar settings from HORIZON_* environment variables.
// Unparseable or out-of-range values are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("HORIZON_TARGET_DAYS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.TargetDays = f
		}
	}
	if v := os.Getenv("HORIZON_WARNING_YELLOW"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Warning.Yellow = f
		}
	}
	if v := os.Getenv("HORIZON_WARNING_RED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Warning.Red = f
		}
	}
	if v := os.Getenv("HORIZON_COMPLETION_MODEL"); v != "" {
		switch m := domain.CompletionModel(v); m {
		case domain.CompletionBasic, domain.CompletionAdjusted:
			cfg.Completion.Model = m
		}
	}
	if v := os.Getenv("HORIZON_RISK_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.Allocation.RiskThreshold = f
		}
	}
}

// StandardDurations returns a copy of the step duration table.
func (c Config) StandardDurations() map[string]float64 {
	out := make(map[string]float64, len(c.Steps))
	for id, d := range c.Steps {
		out[id] = d
	}
	return out
}
