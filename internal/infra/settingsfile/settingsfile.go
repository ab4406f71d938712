// Package settingsfile loads an operator-supplied YAML file that overrides
// the built-in default card settings.
package settingsfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"

	"gopkg.in/yaml.v3"
)

// Load reads path and overlays it on base. Keys absent from the file keep
// their value from base; a list in the file replaces the list in base.
// The merged bundle must pass domain validation.
func Load(path string, base domain.CardSettings) (domain.CardSettings, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.CardSettings{}, fmt.Errorf("open settings file: %w", err)
	}
	defer f.Close()

	return Decode(f, base)
}

// Decode is Load for an arbitrary reader.
func Decode(r io.Reader, base domain.CardSettings) (domain.CardSettings, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return domain.CardSettings{}, fmt.Errorf("read settings file: %w", err)
	}

	out := base.Clone()
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return domain.CardSettings{}, fmt.Errorf("parse settings file: %w", err)
	}

	if err := out.Validate(); err != nil {
		return domain.CardSettings{}, err
	}
	return out, nil
}
