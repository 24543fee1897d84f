// Package di contains dependency injection tokens for the loan context.
package di

import (
	"github.com/Anuj0x/AaveFlashToolkit/business/loan/app"
	"github.com/Anuj0x/AaveFlashToolkit/business/loan/infra"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Orchestrator = di.NewToken[*app.Orchestrator]("loan.Orchestrator")
)

// Private dependency tokens - internal to the loan module
var (
	Facility = di.NewToken[*infra.InProcessFacility]("loan:facility")
	Codec    = di.NewToken[*app.Codec]("loan:codec")
)

// GetOrchestrator returns the loan orchestrator.
func GetOrchestrator(c di.ServiceRegistry) *app.Orchestrator {
	return di.GetToken(c, Orchestrator)
}

// GetFacility returns the in-process credit facility.
func GetFacility(c di.ServiceRegistry) *infra.InProcessFacility {
	return di.GetToken(c, Facility)
}

// GetCodec returns the loan parameter codec.
func GetCodec(c di.ServiceRegistry) *app.Codec {
	return di.GetToken(c, Codec)
}
