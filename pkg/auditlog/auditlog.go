package auditlog

import (
	"go.uber.org/zap"

	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

type Recorder interface {
	PersistLog(auditlog models.AuditLog, auditLogData interface{}) error
}

type Auditlog struct {
	recorder Recorder
	logger   *zap.Logger
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(recorder Recorder, logger *zap.Logger) *Auditlog {
	return &Auditlog{recorder: recorder, logger: logger}
}

// Log records an audit entry for the given resource. Callers fire it from a
// goroutine; a failed entry is logged, never propagated.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.recorder.PersistLog(auditLog, data); err != nil {
		a.logger.Warn("unable to create audit log entry",
			zap.Int("resource_id", auditLog.ResourceID),
			zap.String("resource_type", auditLog.ResourceType),
			zap.Error(err),
		)
		return
	}

	a.logger.Debug("created audit log entry",
		zap.Int("resource_id", auditLog.ResourceID),
		zap.String("resource_type", auditLog.ResourceType),
		zap.String("action", action),
	)
}
