package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

const schema = `
CREATE TABLE IF NOT EXISTS houses (
	id           BIGSERIAL PRIMARY KEY,
	name         TEXT        NOT NULL,
	image_name   TEXT        NOT NULL DEFAULT '',
	description  TEXT        NOT NULL DEFAULT '',
	price        INTEGER     NOT NULL,
	capacity     INTEGER     NOT NULL,
	postal_code  TEXT        NOT NULL DEFAULT '',
	address      TEXT        NOT NULL DEFAULT '',
	phone_number TEXT        NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_houses_created ON houses (created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_houses_price ON houses (price, id);

CREATE TABLE IF NOT EXISTS reviews (
	id         BIGSERIAL PRIMARY KEY,
	house_id   BIGINT      NOT NULL REFERENCES houses (id) ON DELETE CASCADE,
	user_id    BIGINT      NOT NULL,
	rating     INTEGER     NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment    TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT uniq_review_house_user UNIQUE (house_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_reviews_house_created ON reviews (house_id, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS favorites (
	id         BIGSERIAL PRIMARY KEY,
	house_id   BIGINT      NOT NULL REFERENCES houses (id) ON DELETE CASCADE,
	user_id    BIGINT      NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT uniq_favorite_house_user UNIQUE (house_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_favorites_user_created ON favorites (user_id, created_at DESC, id DESC);
`

// Open connects with lib/pq and pings the server.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables, unique keys and cascading foreign keys.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func orderBy(column string, ascending bool) string {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", column, dir, dir)
}

// storedTime is t as TIMESTAMPTZ returns it, or now when t is unset.
func storedTime(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Truncate(time.Microsecond)
}
