// Package di provides dependency injection configuration for the rosary server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/sacredrosary/rosary-server/internal/api"
	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/config"
	"github.com/sacredrosary/rosary-server/internal/di/providers"
	"github.com/sacredrosary/rosary-server/internal/logger"
	"github.com/sacredrosary/rosary-server/internal/service"
	"github.com/sacredrosary/rosary-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line arguments without the program name.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, providers.Args(args))
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Song catalog
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideSongIndex)

	// Business services
	do.Provide(injector, providers.ProvidePrayerService)
	do.Provide(injector, providers.ProvideIntentionService)
	do.Provide(injector, providers.ProvideCustomPrayerService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideServices)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*catalog.Catalog](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.SongIndexHandle](injector)

	_ = do.MustInvoke[*service.PrayerService](injector)
	_ = do.MustInvoke[*service.IntentionService](injector)
	_ = do.MustInvoke[*service.CustomPrayerService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*api.Services](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	providers.ProbeAudioIfEnabled(injector)
	return nil
}
