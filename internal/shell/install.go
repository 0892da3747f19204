package shell

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sant0-9/deckfill/internal/config"
)

// Install runs on first start. It writes the default config when none exists
// and reports whether the setup wizard still has to collect a credential.
func Install(log logrus.FieldLogger) (*config.Config, bool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg == nil {
		cfg = config.DefaultConfig()
		if err := cfg.Save(); err != nil {
			return nil, false, fmt.Errorf("failed to write default config: %w", err)
		}
		log.Info("deckfill installed")
		return cfg, true, nil
	}

	return cfg, cfg.NeedsAPIKey() && cfg.Key() == "", nil
}
