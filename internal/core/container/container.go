package container

import (
	"database/sql"

	"go.uber.org/zap"

	auditLogRepo "github.com/anggaSaputra16/management-assets-sub004/internal/auditlog"
	"github.com/anggaSaputra16/management-assets-sub004/internal/assets"
	"github.com/anggaSaputra16/management-assets-sub004/internal/compatibility"
	"github.com/anggaSaputra16/management-assets-sub004/internal/decomposition"
	"github.com/anggaSaputra16/management-assets-sub004/internal/repository"
	"github.com/anggaSaputra16/management-assets-sub004/internal/spareparts"
	"github.com/anggaSaputra16/management-assets-sub004/internal/users"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/auditlog"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/category"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/security"
)

type Container struct {
	Repository           *repository.Repository
	AuditLog             *auditlog.Auditlog
	LoginHandler         *security.LoginHandler
	AssetHandler         *assets.AssetHandler
	SparePartHandler     *spareparts.SparePartHandler
	RequestHandler       *decomposition.RequestHandler
	CompatibilityHandler *compatibility.CompatibilityHandler
	UserHandler          *users.UsersHandler
	AuditLogHandler      *auditLogRepo.AuditLogHandler
}

func NewAppContainer(db *sql.DB, logger *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	auditLogRepository := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditLogRepository, logger)

	assetRepo := assets.NewRepository(repo)
	assetService := assets.NewAssetService(assetRepo, auditLog, logger)

	normalizer := category.NewNormalizer(category.NormalizerConfig{})
	ledgerRepo := spareparts.NewRepository(repo)
	ledgerService := spareparts.NewLedgerService(repo, ledgerRepo, normalizer, auditLog, logger)

	requestRepo := decomposition.NewRepository(repo)
	engine := decomposition.NewExtractionEngine(repo, requestRepo, assetService, ledgerService, auditLog, logger)
	requestService := decomposition.NewRequestService(requestRepo, assetService, engine, auditLog, logger)

	matcher := compatibility.NewMatcher(repo)

	userRepo := users.NewRepository(repo)

	return &Container{
		Repository:           repo,
		AuditLog:             auditLog,
		LoginHandler:         security.NewLoginHandler(repo),
		AssetHandler:         assets.NewAssetHandler(assetService),
		SparePartHandler:     spareparts.NewSparePartHandler(ledgerService),
		RequestHandler:       decomposition.NewRequestHandler(requestService),
		CompatibilityHandler: compatibility.NewCompatibilityHandler(matcher),
		UserHandler:          users.NewHandler(userRepo),
		AuditLogHandler:      auditLogRepo.NewHandler(auditLogRepository),
	}
}
