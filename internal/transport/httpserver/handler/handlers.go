package handler

import (
	"net/http"

	balancesdomain "splitledger/internal/domain/balances"
	friendsdomain "splitledger/internal/domain/friends"
	groupsdomain "splitledger/internal/domain/groups"
	ledgerdomain "splitledger/internal/domain/ledger"
	statsdomain "splitledger/internal/domain/stats"
	usersdomain "splitledger/internal/domain/users"
	"splitledger/pkg/logger"
)

type Handlers struct {
	Users    *usersdomain.Service
	Friends  *friendsdomain.Service
	Groups   *groupsdomain.Service
	Ledger   *ledgerdomain.Service
	Balances *balancesdomain.Service
	Stats    *statsdomain.Service

	defaultCurrency string
	log             logger.Logger
}

func New(
	users *usersdomain.Service,
	friends *friendsdomain.Service,
	groups *groupsdomain.Service,
	ledger *ledgerdomain.Service,
	balances *balancesdomain.Service,
	stats *statsdomain.Service,
	defaultCurrency string,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Users:           users,
		Friends:         friends,
		Groups:          groups,
		Ledger:          ledger,
		Balances:        balances,
		Stats:           stats,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
