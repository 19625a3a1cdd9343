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

type favoriteRow struct {
	ID        int64     `db:"id"`
	HouseID   int64     `db:"house_id"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r favoriteRow) toDomain() *domain.Favorite {
	return &domain.Favorite{ID: r.ID, HouseID: r.HouseID, UserID: r.UserID, CreatedAt: r.CreatedAt.UTC()}
}

const favoriteColumns = `id, house_id, user_id, created_at`

type FavoriteRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewFavoriteRepository(db *sqlx.DB, log *logger.Logger) *FavoriteRepository {
	return &FavoriteRepository{db: db, logger: log.Named("FavoriteRepository")}
}

func (r *FavoriteRepository) Create(ctx context.Context, fav *domain.Favorite) error {
	fav.CreatedAt = storedTime(fav.CreatedAt)
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO favorites (house_id, user_id, created_at) VALUES ($1, $2, $3) RETURNING id`,
		fav.HouseID, fav.UserID, fav.CreatedAt,
	).Scan(&fav.ID)
	if err != nil {
		switch pqCode(err) {
		case pqUniqueViolation:
			r.logger.Warn("Unique violation on favorite creation",
				zap.Int64("house_id", fav.HouseID), zap.Int64("user_id", fav.UserID))
			return domain.ErrDuplicateFavorite
		case pqForeignKeyViolation:
			return domain.ErrNotFound
		}
		return fmt.Errorf("FavoriteRepository.Create: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) GetByID(ctx context.Context, id int64) (*domain.Favorite, error) {
	return r.getOne(ctx, `SELECT `+favoriteColumns+` FROM favorites WHERE id = $1`, id)
}

func (r *FavoriteRepository) FindByHouseAndUser(ctx context.Context, houseID, userID int64) (*domain.Favorite, error) {
	return r.getOne(ctx, `SELECT `+favoriteColumns+` FROM favorites WHERE house_id = $1 AND user_id = $2`, houseID, userID)
}

func (r *FavoriteRepository) getOne(ctx context.Context, q string, args ...interface{}) (*domain.Favorite, error) {
	var row favoriteRow
	if err := conn(ctx, r.db).GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FavoriteRepository.get: %w", err)
	}
	return row.toDomain(), nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("FavoriteRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64, req domain.PageRequest) ([]*domain.Favorite, int64, error) {
	req = req.Normalize()
	var rows []favoriteRow
	q := `SELECT ` + favoriteColumns + ` FROM favorites WHERE user_id = $1 ` +
		orderBy("created_at", req.Direction == domain.Asc) + ` LIMIT $2 OFFSET $3`
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, q, userID, req.Size, req.Offset()); err != nil {
		return nil, 0, fmt.Errorf("FavoriteRepository.ListByUser: %w", err)
	}
	var total int64
	if err := conn(ctx, r.db).GetContext(ctx, &total, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("FavoriteRepository.ListByUser count: %w", err)
	}

	out := make([]*domain.Favorite, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, total, nil
}

func (r *FavoriteRepository) DeleteByHouseID(ctx context.Context, houseID int64) (int64, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM favorites WHERE house_id = $1`, houseID)
	if err != nil {
		return 0, fmt.Errorf("FavoriteRepository.DeleteByHouseID: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
