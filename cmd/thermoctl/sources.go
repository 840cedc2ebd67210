package main

import "codeberg.org/witt/thermoctl/internal/config"

// resolveSources builds the session's source list: every source of the
// config file when one is given, otherwise a single source from flags.
// key is only used on the flag path; empty selects the default key.
func resolveSources(cfgPath, key string, address, channel uint8, tcType string) ([]config.Source, *config.File, error) {
	if cfgPath != "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, nil, err
		}

		return cfg.Sources, cfg, nil
	}

	source := config.NewSource(key, address, channel, tcType)
	if err := source.Validate(); err != nil {
		return nil, nil, err
	}

	return []config.Source{source}, nil, nil
}
