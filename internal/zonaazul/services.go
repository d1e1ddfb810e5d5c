package zonaazul

import (
	"strings"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/logger"
)

// Services bundles every resource wrapper over the shared gateway and cache.
type Services struct {
	Users          *UserService
	Zones          *ZoneService
	Parkings       *ParkingService
	Notifications  *NotificationService
	FiscalParkings *FiscalParkingService
	Settlements    *SettlementService

	cache *Cache
}

func NewServices(client *api.Client, cache *Cache, log *logger.Logger) *Services {
	if log == nil {
		log = logger.New(logger.LevelInfo)
	}
	return &Services{
		Users:          &UserService{api: client, cache: cache, log: log},
		Zones:          &ZoneService{api: client, cache: cache, log: log},
		Parkings:       &ParkingService{api: client, cache: cache, log: log},
		Notifications:  &NotificationService{api: client, cache: cache, log: log},
		FiscalParkings: &FiscalParkingService{api: client, cache: cache, log: log},
		Settlements:    &SettlementService{api: client, cache: cache, log: log},
		cache:          cache,
	}
}

func trimmed(s string) string { return strings.TrimSpace(s) }

func lowerTrimmed(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func hasAt(s string) bool { return strings.Contains(s, "@") }
