// Package di contains dependency injection tokens for the intake context.
package di

import (
	"github.com/Anuj0x/AaveFlashToolkit/business/intake/app"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Service = di.NewToken[*app.Service]("intake.Service")
)

// GetService returns the intake service.
func GetService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, Service)
}
