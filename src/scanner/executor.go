package scanner

import (
	log "github.com/sirupsen/logrus"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// SignalExecutor is the execution collaborator. Signals are handed over by
// value, exactly once each; retry and backoff policy belong to the
// implementation, not to the scanning core.
type SignalExecutor interface {
	Execute(signal eventmodels.Signal) error
}

// DryRunExecutor logs signals instead of routing orders.
type DryRunExecutor struct{}

func (DryRunExecutor) Execute(signal eventmodels.Signal) error {
	log.Infof("[DRY RUN] would execute signal: %v", signal)
	return nil
}
