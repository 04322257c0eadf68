package auditlog

import (
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/anggaSaputra16/management-assets-sub004/internal/repository"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

type AuditLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}

func (r *AuditLogRepository) PersistLog(auditlog models.AuditLog, auditLogData interface{}) error {
	dataJSON, err := json.Marshal(auditLogData)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	query := r.repository.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"resource_id":   auditlog.ResourceID,
			"resource_type": auditlog.ResourceType,
			"action":        auditlog.Action,
			"data":          dataJSON,
			"company_id":    auditlog.CompanyID,
		})

	_, err = query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) GetResourceLog(companyID, id int, resourceType string) ([]models.AuditLog, error) {
	var logs []models.AuditLog

	query := r.repository.GoquDBWrapper.
		From(goqu.T("audit_logs").As("a")).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.resource_id").As("resource_id"),
			goqu.I("a.resource_type").As("resource_type"),
			goqu.I("a.action").As("action"),
			goqu.I("a.data").As("data"),
			goqu.I("a.company_id").As("company_id"),
			goqu.I("a.created_at").As("created_at"),
		).
		Where(goqu.Ex{
			"a.resource_id":   id,
			"a.resource_type": resourceType,
			"a.company_id":    companyID,
		}).
		Order(goqu.I("a.created_at").Desc())

	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return logs, nil
}
