// Package di contains dependency injection tokens for the access context.
package di

import (
	"github.com/Anuj0x/AaveFlashToolkit/business/access/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Gate = di.NewToken[*domain.Gate]("access.Gate")
)

// GetGate returns the shared access gate.
func GetGate(c di.ServiceRegistry) *domain.Gate {
	return di.GetToken(c, Gate)
}
