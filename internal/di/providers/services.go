package providers

import (
	"github.com/samber/do/v2"

	"github.com/sacredrosary/rosary-server/internal/api"
	"github.com/sacredrosary/rosary-server/internal/logger"
	"github.com/sacredrosary/rosary-server/internal/service"
	"github.com/sacredrosary/rosary-server/internal/validation"
)

// ProvidePrayerService provides the prayer log service.
func ProvidePrayerService(i do.Injector) (*service.PrayerService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPrayerService(storeHandle.Store, v, log.Logger), nil
}

// ProvideIntentionService provides the intention service.
func ProvideIntentionService(i do.Injector) (*service.IntentionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIntentionService(storeHandle.Store, v, log.Logger), nil
}

// ProvideCustomPrayerService provides the custom prayer service.
func ProvideCustomPrayerService(i do.Injector) (*service.CustomPrayerService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCustomPrayerService(storeHandle.Store, v, log.Logger), nil
}

// ProvideProfileService provides the user profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, v, log.Logger), nil
}

// ProvideServices groups the services for the API server.
func ProvideServices(i do.Injector) (*api.Services, error) {
	return &api.Services{
		Prayers:       do.MustInvoke[*service.PrayerService](i),
		Intentions:    do.MustInvoke[*service.IntentionService](i),
		CustomPrayers: do.MustInvoke[*service.CustomPrayerService](i),
		Profiles:      do.MustInvoke[*service.ProfileService](i),
	}, nil
}
