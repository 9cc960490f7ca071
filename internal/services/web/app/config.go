package app

import (
	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/platform/pagerender"
	"github.com/civicspace/agora/internal/services/web/platform/requestmeta"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	Chrome              pagerender.Chrome
	RequestSchemePolicy requestmeta.SchemePolicy
	PublicModules       []module.Module
	GatedModules        []module.Module
}
