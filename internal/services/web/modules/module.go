// Package modules defines web module registry helpers.
package modules

import (
	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/backend"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
)

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the shared handler base and the backend client
// every page module reads through. A nil Backend leaves each module on its
// unavailable gateway.
type Dependencies struct {
	Base    modulehandler.Base
	Backend *backend.Client
}
