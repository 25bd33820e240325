package registry

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"netpulse/internal/domain"
)

// File is the on-disk shape of the target registry:
//
//	targets:
//	  - url: https://example.com
//	    name: example
//	    kind: web
type File struct {
	Targets []domain.Target `yaml:"targets"`
}

// Load reads the target list once at startup. The returned slice is treated
// as immutable for the process lifetime; URLs are identities, so duplicates
// are rejected.
func Load(path string) ([]domain.Target, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse targets file: %w", err)
	}
	if len(f.Targets) == 0 {
		return nil, fmt.Errorf("targets file %s lists no targets", path)
	}

	seen := make(map[string]bool, len(f.Targets))
	for i, t := range f.Targets {
		if err := validateTarget(t); err != nil {
			return nil, fmt.Errorf("target %d (%q): %w", i, t.URL, err)
		}
		if seen[t.URL] {
			return nil, fmt.Errorf("duplicate target url %q", t.URL)
		}
		seen[t.URL] = true
	}
	return f.Targets, nil
}

func validateTarget(t domain.Target) error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.URL, validation.Required, is.URL),
		validation.Field(&t.Name, validation.Required),
	)
}
