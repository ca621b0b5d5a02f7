package service

import (
	"context"

	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

type TablesService interface {
	GetCountTablesDB(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

func (t *tablesService) GetCountTablesDB(ctx context.Context) (int, error) {
	return t.tablesRepo.CountTablesDB(ctx)
}

func (t *tablesService) Stats(ctx context.Context) (*models.Stats, error) {
	return t.tablesRepo.Stats(ctx)
}
