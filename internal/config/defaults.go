package config

import (
	"fmt"

	"github.com/creasty/defaults"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultPubChemBaseURL = "https://pubchem.ncbi.nlm.nih.gov"
	DefaultOPSINBaseURL   = "https://opsin.ch.cam.ac.uk"
	DefaultCIRBaseURL     = "https://cactus.nci.nih.gov"
)

// ApplyDefaults fills every zero-value field in cfg from the `default:` struct
// tags, then the upstream base URLs that tags cannot express per instance.
// Fields already set by the caller are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if err := defaults.Set(cfg); err != nil {
		// Tags are compile-time constants; a failure here is a programming error.
		panic(fmt.Sprintf("config: invalid default tag: %v", err))
	}

	if cfg.Upstream.PubChem.BaseURL == "" {
		cfg.Upstream.PubChem.BaseURL = DefaultPubChemBaseURL
	}
	if cfg.Upstream.OPSIN.BaseURL == "" {
		cfg.Upstream.OPSIN.BaseURL = DefaultOPSINBaseURL
	}
	if cfg.Upstream.CIR.BaseURL == "" {
		cfg.Upstream.CIR.BaseURL = DefaultCIRBaseURL
	}
}

// NewDefaultConfig returns a Config populated only from defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
