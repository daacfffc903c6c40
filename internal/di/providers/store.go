package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/sacredrosary/rosary-server/internal/config"
	"github.com/sacredrosary/rosary-server/internal/logger"
	"github.com/sacredrosary/rosary-server/internal/store/sqlstore"
)

// StoreHandle wraps the record store with shutdown capability.
type StoreHandle struct {
	*sqlstore.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the relational record store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := sqlstore.Open(context.Background(), cfg.Store, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Record store initialized", "driver", cfg.Store.Driver)
	return &StoreHandle{Store: st}, nil
}
