// Package di contains dependency injection tokens for the strategy context.
package di

import (
	"github.com/Anuj0x/AaveFlashToolkit/business/strategy/app"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Engine = di.NewToken[*app.Engine]("strategy.Engine")
)

// GetEngine returns the strategy engine.
func GetEngine(c di.ServiceRegistry) *app.Engine {
	return di.GetToken(c, Engine)
}
