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

type reviewRow struct {
	ID        int64     `db:"id"`
	HouseID   int64     `db:"house_id"`
	UserID    int64     `db:"user_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r reviewRow) toDomain() *domain.Review {
	return &domain.Review{
		ID:        r.ID,
		HouseID:   r.HouseID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

const reviewColumns = `id, house_id, user_id, rating, comment, created_at, updated_at`

type ReviewRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewReviewRepository(db *sqlx.DB, log *logger.Logger) *ReviewRepository {
	return &ReviewRepository{db: db, logger: log.Named("ReviewRepository")}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	review.CreatedAt = storedTime(review.CreatedAt)
	review.UpdatedAt = review.CreatedAt

	const q = `
		INSERT INTO reviews (house_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := conn(ctx, r.db).QueryRowxContext(ctx, q,
		review.HouseID, review.UserID, review.Rating, review.Comment, review.CreatedAt, review.UpdatedAt,
	).Scan(&review.ID)
	if err != nil {
		switch pqCode(err) {
		case pqUniqueViolation:
			r.logger.Warn("Unique violation on review creation",
				zap.Int64("house_id", review.HouseID), zap.Int64("user_id", review.UserID))
			return domain.ErrDuplicateReview
		case pqForeignKeyViolation:
			return domain.ErrNotFound
		}
		return fmt.Errorf("ReviewRepository.Create: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	return r.getOne(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
}

func (r *ReviewRepository) FindByHouseAndUser(ctx context.Context, houseID, userID int64) (*domain.Review, error) {
	return r.getOne(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE house_id = $1 AND user_id = $2`, houseID, userID)
}

func (r *ReviewRepository) getOne(ctx context.Context, q string, args ...interface{}) (*domain.Review, error) {
	var row reviewRow
	if err := conn(ctx, r.db).GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ReviewRepository.get: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE reviews SET rating = $1, comment = $2, updated_at = $3 WHERE id = $4`,
		review.Rating, review.Comment, review.UpdatedAt, review.ID)
	if err != nil {
		return fmt.Errorf("ReviewRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ReviewRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) ListByHouse(ctx context.Context, houseID int64, req domain.PageRequest) ([]*domain.Review, int64, error) {
	req = req.Normalize()
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE house_id = $1 ` +
		orderBy("created_at", req.Direction == domain.Asc) + ` LIMIT $2 OFFSET $3`
	reviews, err := r.selectMany(ctx, q, houseID, req.Size, req.Offset())
	if err != nil {
		return nil, 0, err
	}
	total, err := r.CountByHouse(ctx, houseID)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *ReviewRepository) TopByHouse(ctx context.Context, houseID int64, n int) ([]*domain.Review, error) {
	if n <= 0 {
		return []*domain.Review{}, nil
	}
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE house_id = $1 ` + orderBy("created_at", false) + ` LIMIT $2`
	return r.selectMany(ctx, q, houseID, n)
}

func (r *ReviewRepository) selectMany(ctx context.Context, q string, args ...interface{}) ([]*domain.Review, error) {
	var rows []reviewRow
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("ReviewRepository.select: %w", err)
	}
	out := make([]*domain.Review, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *ReviewRepository) CountByHouse(ctx context.Context, houseID int64) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).GetContext(ctx, &n, `SELECT COUNT(*) FROM reviews WHERE house_id = $1`, houseID); err != nil {
		return 0, fmt.Errorf("ReviewRepository.CountByHouse: %w", err)
	}
	return n, nil
}

func (r *ReviewRepository) DeleteByHouseID(ctx context.Context, houseID int64) (int64, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM reviews WHERE house_id = $1`, houseID)
	if err != nil {
		return 0, fmt.Errorf("ReviewRepository.DeleteByHouseID: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
