package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type houseRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	ImageName   string    `db:"image_name"`
	Description string    `db:"description"`
	Price       int       `db:"price"`
	Capacity    int       `db:"capacity"`
	PostalCode  string    `db:"postal_code"`
	Address     string    `db:"address"`
	PhoneNumber string    `db:"phone_number"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r houseRow) toDomain() *domain.House {
	return &domain.House{
		ID:          r.ID,
		Name:        r.Name,
		ImageName:   r.ImageName,
		Description: r.Description,
		Price:       r.Price,
		Capacity:    r.Capacity,
		PostalCode:  r.PostalCode,
		Address:     r.Address,
		PhoneNumber: r.PhoneNumber,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

const houseColumns = `id, name, image_name, description, price, capacity, postal_code, address, phone_number, created_at, updated_at`

type HouseRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewHouseRepository(db *sqlx.DB, log *logger.Logger) *HouseRepository {
	return &HouseRepository{db: db, logger: log.Named("HouseRepository")}
}

func (r *HouseRepository) Create(ctx context.Context, house *domain.House) error {
	house.CreatedAt = storedTime(house.CreatedAt)
	house.UpdatedAt = house.CreatedAt

	const q = `
		INSERT INTO houses (name, image_name, description, price, capacity, postal_code, address, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := conn(ctx, r.db).QueryRowxContext(ctx, q,
		house.Name, house.ImageName, house.Description, house.Price, house.Capacity,
		house.PostalCode, house.Address, house.PhoneNumber, house.CreatedAt, house.UpdatedAt,
	).Scan(&house.ID)
	if err != nil {
		r.logger.Error("Failed to insert house", zap.Error(err))
		return fmt.Errorf("HouseRepository.Create: %w", err)
	}
	return nil
}

func (r *HouseRepository) GetByID(ctx context.Context, id int64) (*domain.House, error) {
	var row houseRow
	err := conn(ctx, r.db).GetContext(ctx, &row, `SELECT `+houseColumns+` FROM houses WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("HouseRepository.GetByID: %w", err)
	}
	return row.toDomain(), nil
}

// Delete removes the house; reviews and favorites go with it through ON DELETE CASCADE.
func (r *HouseRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM houses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("HouseRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *HouseRepository) List(ctx context.Context, req domain.PageRequest) ([]*domain.House, int64, error) {
	req = req.Normalize()
	column := "created_at"
	if req.Sort == domain.SortByPrice {
		column = "price"
	}

	var rows []houseRow
	q := `SELECT ` + houseColumns + ` FROM houses ` + orderBy(column, req.Direction == domain.Asc) + ` LIMIT $1 OFFSET $2`
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, q, req.Size, req.Offset()); err != nil {
		return nil, 0, fmt.Errorf("HouseRepository.List: %w", err)
	}
	var total int64
	if err := conn(ctx, r.db).GetContext(ctx, &total, `SELECT COUNT(*) FROM houses`); err != nil {
		return nil, 0, fmt.Errorf("HouseRepository.List count: %w", err)
	}

	out := make([]*domain.House, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, total, nil
}
