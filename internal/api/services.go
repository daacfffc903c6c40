package api

import (
	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/service"
)

// Services groups the business logic used by the API server.
type Services struct {
	Prayers       *service.PrayerService
	Intentions    *service.IntentionService
	CustomPrayers *service.CustomPrayerService
	Profiles      *service.ProfileService
}

// Songs is the read-only audio catalog and its search index. Index may
// be nil, in which case ?q= falls back to a plain title match.
type Songs struct {
	Catalog *catalog.Catalog
	Index   *catalog.Index
}
