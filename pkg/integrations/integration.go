package integrations

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	jsonldweb "droscher.com/WineCellar/pkg/integrations/jsonld-web"
	"droscher.com/WineCellar/pkg/model"
)

var (
	ErrUnknownIntegration = errors.New("unknown integration")
	ErrNoIntegration      = errors.New("no wine integration configured")
)

// Integration looks up wine details on an external page. Results are suggestions only and are
// never written to the ledger by the integration itself.
type Integration interface {
	LookupWine(pageURL string) (*model.WineDescriptor, error)
}

func GetIntegration(name string, logger *zap.Logger) Integration {
	if name == jsonldweb.IntegrationName {
		return jsonldweb.NewJSONLDWebIntegration(logger)
	}

	return nil
}

// LookupWine asks each named integration in turn and returns the first result. Failures of
// every integration are combined into the returned error.
func LookupWine(names []string, pageURL string, logger *zap.Logger) (*model.WineDescriptor, error) {
	var errs error

	for _, name := range names {
		integration := GetIntegration(name, logger)
		if integration == nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrUnknownIntegration, name))

			continue
		}

		wine, err := integration.LookupWine(pageURL)
		if err != nil {
			logger.Warn("failed wine lookup", zap.String("integration", name), zap.Error(err))
			errs = multierr.Append(errs, err)

			continue
		}

		return wine, nil
	}

	if errs == nil {
		errs = ErrNoIntegration
	}

	return nil, errs
}
