package services

import (
	"log/slog"

	"github.com/lingualearn/learning-service/internal/cache"
	"github.com/lingualearn/learning-service/internal/events"
	"github.com/lingualearn/learning-service/internal/repositories"
	"github.com/lingualearn/learning-service/internal/validator"
)

// ServiceManager aggregates the application services behind one handle.
type ServiceManager interface {
	Test() TestService
	Placement() PlacementService
	Progress() ProgressService
	ImportExport() ImportExportService
}

type serviceManager struct {
	testService         TestService
	placementService    PlacementService
	progressService     ProgressService
	importExportService ImportExportService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) ServiceManager {
	return &serviceManager{
		testService:         NewTestService(repo, cacheService, publisher, logger, v),
		placementService:    NewPlacementService(repo, cacheService, publisher, logger, v),
		progressService:     NewProgressService(repo, publisher, logger),
		importExportService: NewImportExportService(repo, cacheService, logger, v),
	}
}

func (sm *serviceManager) Test() TestService {
	return sm.testService
}

func (sm *serviceManager) Placement() PlacementService {
	return sm.placementService
}

func (sm *serviceManager) Progress() ProgressService {
	return sm.progressService
}

func (sm *serviceManager) ImportExport() ImportExportService {
	return sm.importExportService
}
