package repository

import (
	"context"

	"blogCMS/internal/models"
)

type tablesRepository struct {
	db Queryer
}

func NewTablesRepository(db Queryer) TablesRepository {
	return &tablesRepository{db: db}
}

func (r *tablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
	`
	if r.db.DriverName() == "sqlite3" {
		query = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`
	}

	var n int
	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, models.NewStorageError("Ошибка при подсчёте таблиц базы данных", err)
	}

	return n, nil
}

type statusCount struct {
	Status string `db:"post_status"`
	Count  int    `db:"total"`
}

func (r *tablesRepository) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{Posts: map[string]int{}}

	var rows []statusCount
	err := r.db.SelectContext(ctx, &rows,
		`SELECT post_status, COUNT(*) AS total FROM posts GROUP BY post_status`)
	if err != nil {
		return nil, models.NewStorageError("Ошибка при подсчёте постов", err)
	}
	for _, row := range rows {
		stats.Posts[row.Status] = row.Count
	}

	if stats.Categories, err = count(ctx, r.db, `SELECT COUNT(*) FROM categories`); err != nil {
		return nil, models.NewStorageError("Ошибка при подсчёте категорий", err)
	}

	if stats.Tags, err = count(ctx, r.db, `SELECT COUNT(*) FROM tags`); err != nil {
		return nil, models.NewStorageError("Ошибка при подсчёте тегов", err)
	}

	if stats.CountTables, err = r.CountTablesDB(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
