package field

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/pkg/dbmetrics"
	"github.com/futbook/FieldBookingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для работы с БД (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для чтения полей
// Ядро бронирования только читает активные поля; админ CRUD живёт снаружи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория полей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает поле по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"type",
		"price_per_hour",
		"facilities",
		"active",
		"created_at",
		"updated_at",
	).
		From("fields").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var field domain.Field
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&field.ID,
		&field.Name,
		&field.Type,
		&field.PricePerHour,
		pq.Array(&field.Facilities),
		&field.Active,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan field: %v", ErrScanRow, err)
	}

	field.CreatedAt = createdAt.Time
	field.UpdatedAt = updatedAt.Time

	return &field, nil
}

// ListActiveByTypes получает активные поля указанных типов
// Пустой список типов означает "все типы"
func (r *Repository) ListActiveByTypes(ctx context.Context, fieldTypes []domain.FieldType) ([]*domain.Field, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"name",
		"type",
		"price_per_hour",
		"facilities",
		"active",
		"created_at",
		"updated_at",
	).
		From("fields").
		Where(squirrel.Eq{"active": true}).
		OrderBy("name ASC")

	if len(fieldTypes) > 0 {
		typeStrings := make([]string, len(fieldTypes))
		for i, ft := range fieldTypes {
			typeStrings[i] = string(ft)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"type": typeStrings})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByTypes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByTypes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	fields := make([]*domain.Field, 0)
	for rows.Next() {
		var field domain.Field
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&field.ID,
			&field.Name,
			&field.Type,
			&field.PricePerHour,
			pq.Array(&field.Facilities),
			&field.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveByTypes - scan row: %v", ErrScanRow, err)
		}

		field.CreatedAt = createdAt.Time
		field.UpdatedAt = updatedAt.Time

		fields = append(fields, &field)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveByTypes - rows error: %v", ErrScanRow, err)
	}

	return fields, nil
}
