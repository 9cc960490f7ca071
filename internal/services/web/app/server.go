package app

import "errors"

// BuildRootHandler composes the route table from the configured module groups.
func BuildRootHandler(cfg Config) (Composition, error) {
	if len(cfg.PublicModules) == 0 && len(cfg.GatedModules) == 0 {
		return Composition{}, errors.New("at least one module is required")
	}
	return Compose(ComposeInput{
		PublicModules:       cfg.PublicModules,
		GatedModules:        cfg.GatedModules,
		Chrome:              cfg.Chrome,
		RequestSchemePolicy: cfg.RequestSchemePolicy,
	})
}
