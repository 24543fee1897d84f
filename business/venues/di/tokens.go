// Package di contains dependency injection tokens for the venues context.
package di

import (
	"github.com/Anuj0x/AaveFlashToolkit/business/venues/app"
	"github.com/Anuj0x/AaveFlashToolkit/business/venues/infra/inmem"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Router = di.NewToken[*app.Router]("venues.Router")
)

// Private dependency tokens - internal to the venues module
var (
	Backend = di.NewToken[*inmem.Backend]("venues:backend")
)

// GetRouter returns the venue router.
func GetRouter(c di.ServiceRegistry) *app.Router {
	return di.GetToken(c, Router)
}

// GetBackend returns the in-process liquidity backend.
func GetBackend(c di.ServiceRegistry) *inmem.Backend {
	return di.GetToken(c, Backend)
}
