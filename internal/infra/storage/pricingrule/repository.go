package pricingrule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/pkg/dbmetrics"
	"github.com/futbook/FieldBookingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для работы с БД (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для чтения тарифных правил
// Правила принадлежат внешнему конфигуратору цен; ядро их только читает
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тарифных правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByFieldType получает все правила для типа поля
// Перекрывающиеся диапазоны не считаются ошибкой: разрешение выполняет
// pricing-сервис (побеждает правило с наибольшим start_hour)
func (r *Repository) ListByFieldType(ctx context.Context, fieldType domain.FieldType) ([]*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"field_type",
		"start_hour",
		"end_hour",
		"price_per_hour",
		"created_at",
		"updated_at",
	).
		From("pricing_rules").
		Where(squirrel.Eq{"field_type": fieldType}).
		OrderBy("start_hour ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByFieldType - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFieldType - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.PricingRule, 0)
	for rows.Next() {
		var rule domain.PricingRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.FieldType,
			&rule.StartHour,
			&rule.EndHour,
			&rule.PricePerHour,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByFieldType - scan row: %v", ErrScanRow, err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByFieldType - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}
