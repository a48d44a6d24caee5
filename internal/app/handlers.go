package app

import (
	"github.com/yungbote/metaman/internal/data/db"
	httpH "github.com/yungbote/metaman/internal/http/handlers"
	"github.com/yungbote/metaman/internal/observability"
	"github.com/yungbote/metaman/internal/platform/logger"
)

type Handlers struct {
	Marking *httpH.MarkingHandler
	Health  *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, dbService *db.Service, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Marking: httpH.NewMarkingHandler(log, serviceset.Marking, serviceset.Idempotency).WithMetrics(metrics),
		Health:  httpH.NewHealthHandler(dbService.Ping),
	}
}
