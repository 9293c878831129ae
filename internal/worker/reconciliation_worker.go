package worker

import (
	"github.com/spec-kit/loan-service/internal/events"
	"github.com/spec-kit/loan-service/internal/service"
)

// StartReconciliationWorker registers reconciliation handlers.
func StartReconciliationWorker(reconciliation *service.ReconciliationService, dispatcher events.Dispatcher) {
	if reconciliation == nil {
		return
	}
	reconciliation.RegisterHandlers(dispatcher)
}
