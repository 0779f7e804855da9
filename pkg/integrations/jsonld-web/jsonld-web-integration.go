package jsonldweb

import "go.uber.org/zap"

const IntegrationName = "jsonld_web"

type JSONLDWebIntegration struct {
	logger *zap.Logger
}

func NewJSONLDWebIntegration(logger *zap.Logger) *JSONLDWebIntegration {
	return &JSONLDWebIntegration{logger: logger}
}
