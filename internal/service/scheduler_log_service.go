package service

import (
	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/repository"
)

// SchedulerLogService lists recorded scheduler runs
type SchedulerLogService interface {
	List(code string, page, perPage int) ([]*models.LogScheduler, int64, error)
}

type schedulerLogService struct {
	logRepo repository.LogSchedulerRepository
}

// NewSchedulerLogService creates a new instance of SchedulerLogService
func NewSchedulerLogService(logRepo repository.LogSchedulerRepository) SchedulerLogService {
	return &schedulerLogService{logRepo: logRepo}
}

func (s *schedulerLogService) List(code string, page, perPage int) ([]*models.LogScheduler, int64, error) {
	return s.logRepo.List(code, page, perPage)
}
