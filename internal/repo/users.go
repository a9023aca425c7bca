package repo

import (
	"context"
	"database/sql"
	"errors"

	"SimStruct/internal/profile"
)

const profileColumns = `id, login, email, name, phone, company, job_title, bio, avatar_url, created_at`

func (r *PostgresUserRepository) GetProfile(ctx context.Context, id int) (profile.Profile, error) {
	var p profile.Profile
	err := r.db.GetContext(ctx, &p, "SELECT "+profileColumns+" FROM users WHERE id=$1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, profile.ErrNotFound
	}
	return p, err
}

// UpdateProfile writes the editable fields of p. Login, email and avatar are
// left alone.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id int, p profile.Profile) error {
	p.ID = id
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE users SET name = :name, phone = :phone, company = :company,
			job_title = :job_title, bio = :bio
		WHERE id = :id`, p)
	return affected(res, err, profile.ErrNotFound)
}

func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, id int, url string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET avatar_url=$1 WHERE id=$2", url, id)
	return affected(res, err, profile.ErrNotFound)
}

func (r *PostgresUserRepository) PasswordHash(ctx context.Context, id int) (string, error) {
	var hash string
	err := r.db.GetContext(ctx, &hash, "SELECT password FROM users WHERE id=$1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", profile.ErrNotFound
	}
	return hash, err
}

func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET password=$1 WHERE id=$2", hash, id)
	return affected(res, err, profile.ErrNotFound)
}

// DeleteUser removes the account. Simulations and notifications go with it
// through ON DELETE CASCADE.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=$1", id)
	return affected(res, err, profile.ErrNotFound)
}

// affected turns a write that matched no row into notFound.
func affected(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
