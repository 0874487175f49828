package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Strategy identifies a routing strategy.
type Strategy string

const (
	StrategyKeyword      Strategy = "keyword-signature"
	StrategyClassifier   Strategy = "external-classifier"
	StrategyOrchestrator Strategy = "external-orchestrator"
	StrategyGate         Strategy = "multi-candidate-gate"
	StrategyOracle       Strategy = "oracle"
	StrategyEnsemble     Strategy = "ensemble"
)

// RouterConfig selects a routing strategy and carries its parameters.
// Exactly the section matching Strategy is consulted; each strategy has
// its own explicit config type rather than one loosely-typed bag.
type RouterConfig struct {
	Strategy     Strategy            `yaml:"strategy"`
	Keyword      *KeywordConfig      `yaml:"keyword,omitempty"`
	Classifier   *ClassifierConfig   `yaml:"classifier,omitempty"`
	Orchestrator *OrchestratorConfig `yaml:"orchestrator,omitempty"`
	Gate         *GateConfig         `yaml:"gate,omitempty"`
	Ensemble     *EnsembleConfig     `yaml:"ensemble,omitempty"`
}

// KeywordConfig parameterizes the keyword-signature strategy.
type KeywordConfig struct {
	// SimilarityThreshold is the minimum combined score; below it the
	// bundle fallback is used at confidence 0.1.
	SimilarityThreshold float64 `yaml:"similarity_threshold,omitempty"`
	// Signatures maps domain tags to signature phrases. Nil uses the
	// built-in table.
	Signatures SignatureTable `yaml:"signatures,omitempty"`
}

// ClassifierConfig parameterizes the external-classifier strategy.
type ClassifierConfig struct {
	Adapter string `yaml:"adapter"`
	Model   string `yaml:"model"`
}

// OrchestratorConfig parameterizes the external-orchestrator strategy.
type OrchestratorConfig struct {
	Adapter string `yaml:"adapter"`
	Model   string `yaml:"model"`
}

// GateConfig parameterizes the multi-candidate-gate strategy.
type GateConfig struct {
	Adapter string `yaml:"adapter"`
	Model   string `yaml:"model"`
	// MinConfidence is the normalized (0-1) floor below which the gate
	// falls back. The model's 0-10 relevance scores are divided by 10
	// before comparison, so the reference default of 3 becomes 0.3.
	MinConfidence float64 `yaml:"min_confidence,omitempty"`
	// TopK is how many top-scoring specialists to report as candidates.
	TopK int `yaml:"top_k,omitempty"`
}

// VotingMethod selects how an ensemble combines member decisions.
type VotingMethod string

const (
	VoteMajority  VotingMethod = "majority"
	VoteWeighted  VotingMethod = "weighted"
	VoteUnanimous VotingMethod = "unanimous"
)

// EnsembleConfig parameterizes the ensemble strategy. Members run in the
// listed order; ties are broken by that order.
type EnsembleConfig struct {
	Voting  VotingMethod   `yaml:"voting,omitempty"`
	Members []RouterConfig `yaml:"members"`
}

// LoadRouterConfig reads a router configuration from a YAML file.
func LoadRouterConfig(path string) (*RouterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RouterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyRouterDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid router config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultRouterConfig returns a keyword-signature config with default
// threshold and the built-in signature table.
func DefaultRouterConfig() *RouterConfig {
	cfg := &RouterConfig{Strategy: StrategyKeyword}
	ApplyRouterDefaults(cfg)
	return cfg
}

// ApplyRouterDefaults fills zero-valued strategy parameters.
func ApplyRouterDefaults(cfg *RouterConfig) {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyKeyword
	}
	switch cfg.Strategy {
	case StrategyKeyword:
		if cfg.Keyword == nil {
			cfg.Keyword = &KeywordConfig{}
		}
		if cfg.Keyword.SimilarityThreshold == 0 {
			cfg.Keyword.SimilarityThreshold = 0.4
		}
		if cfg.Keyword.Signatures == nil {
			cfg.Keyword.Signatures = DefaultSignatureTable()
		}
	case StrategyGate:
		if cfg.Gate == nil {
			cfg.Gate = &GateConfig{}
		}
		if cfg.Gate.MinConfidence == 0 {
			cfg.Gate.MinConfidence = 0.3
		}
		if cfg.Gate.TopK == 0 {
			cfg.Gate.TopK = 2
		}
	case StrategyEnsemble:
		if cfg.Ensemble == nil {
			cfg.Ensemble = &EnsembleConfig{}
		}
		if cfg.Ensemble.Voting == "" {
			cfg.Ensemble.Voting = VoteMajority
		}
		for i := range cfg.Ensemble.Members {
			ApplyRouterDefaults(&cfg.Ensemble.Members[i])
		}
	}
}

// Validate checks that the section matching the strategy tag is present
// and well-formed.
func (c *RouterConfig) Validate() error {
	switch c.Strategy {
	case StrategyKeyword:
		if c.Keyword == nil {
			return fmt.Errorf("keyword-signature strategy requires keyword section")
		}
	case StrategyClassifier:
		if c.Classifier == nil || c.Classifier.Adapter == "" || c.Classifier.Model == "" {
			return fmt.Errorf("external-classifier strategy requires classifier adapter and model")
		}
	case StrategyOrchestrator:
		if c.Orchestrator == nil || c.Orchestrator.Adapter == "" || c.Orchestrator.Model == "" {
			return fmt.Errorf("external-orchestrator strategy requires orchestrator adapter and model")
		}
	case StrategyGate:
		if c.Gate == nil || c.Gate.Adapter == "" || c.Gate.Model == "" {
			return fmt.Errorf("multi-candidate-gate strategy requires gate adapter and model")
		}
	case StrategyOracle:
		// No parameters.
	case StrategyEnsemble:
		if c.Ensemble == nil || len(c.Ensemble.Members) < 2 {
			return fmt.Errorf("ensemble strategy requires at least two members")
		}
		switch c.Ensemble.Voting {
		case VoteMajority, VoteWeighted, VoteUnanimous:
		default:
			return fmt.Errorf("unknown voting method %q", c.Ensemble.Voting)
		}
		for i, m := range c.Ensemble.Members {
			if m.Strategy == StrategyOracle {
				return fmt.Errorf("ensemble member %d: oracle is not a votable strategy", i)
			}
			if m.Strategy == StrategyEnsemble {
				return fmt.Errorf("ensemble member %d: nested ensembles are not supported", i)
			}
			if err := m.Validate(); err != nil {
				return fmt.Errorf("ensemble member %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	return nil
}
