package middlewares

import (
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/contracts"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log              *zap.Logger
	CapabilityReader contracts.CapabilityReader
	InternalConfig   *config.InternalConfig
}

func NewMiddlewares(logger *zap.Logger, capabilityReader contracts.CapabilityReader, internalConfig *config.InternalConfig) *Middlewares {
	return &Middlewares{
		Log:              logger,
		CapabilityReader: capabilityReader,
		InternalConfig:   internalConfig,
	}
}
