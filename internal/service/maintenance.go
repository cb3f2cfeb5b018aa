package service

import (
	"wortwallet/internal/repository"

	"go.uber.org/zap"
)

// snapshotRetention is how many snapshot rows to keep per store; older rows
// only exist as a recovery trail
const snapshotRetention = 20

// MaintenanceService prunes superseded persistence snapshots
type MaintenanceService struct {
	pruner repository.SnapshotPruner
	logger *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(pruner repository.SnapshotPruner, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		pruner: pruner,
		logger: logger,
	}
}

// PruneOldSnapshots removes snapshot rows beyond the retention window
func (s *MaintenanceService) PruneOldSnapshots() error {
	s.logger.Info("Starting snapshot pruning", zap.Int("retention", snapshotRetention))

	err := s.pruner.PruneSnapshots(snapshotRetention)
	if err != nil {
		s.logger.Error("Failed to prune snapshots", zap.Error(err))
		return err
	}

	s.logger.Info("Snapshot pruning completed")
	return nil
}
