// Package di contains dependency injection tokens for the treasury context.
package di

import (
	"github.com/Anuj0x/AaveFlashToolkit/business/treasury/app"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Service = di.NewToken[*app.Service]("treasury.Service")
)

// GetService returns the treasury service.
func GetService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, Service)
}
