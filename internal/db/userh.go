package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/Manaswi925/ChimeIn/internal/models"
)

// UserH is a handle to an authenticated user. Its perms derive from the
// user's global role; every operation checks them before touching data.
type UserH struct {
	id       int
	perms    models.Perms
	sharedDB DBTX
}

func (sdb *SharedDB) GetUserH(ctx context.Context, userID int) (*UserH, error) {
	var user models.User
	err := pgxscan.Get(ctx, sdb.db, &user, "SELECT * FROM users WHERE id = $1", userID)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &UserH{
		id:       user.ID,
		perms:    models.RolePerms(user.GlobalRole),
		sharedDB: sdb.db,
	}, nil
}

// GetAdminH returns a handle acting as the oldest admin user; maintenance
// jobs run under it.
func (sdb *SharedDB) GetAdminH(ctx context.Context) (*UserH, error) {
	var user models.User
	err := pgxscan.Get(ctx, sdb.db, &user,
		"SELECT * FROM users WHERE global_role = $1 ORDER BY id LIMIT 1",
		models.RoleAdmin)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &UserH{
		id:       user.ID,
		perms:    models.RolePerms(user.GlobalRole),
		sharedDB: sdb.db,
	}, nil
}

func (h *UserH) ID() int {
	return h.id
}

func (h *UserH) Perms() models.Perms {
	return h.perms
}

func (h *UserH) Read(ctx context.Context) (*models.User, error) {
	var user models.User
	err := pgxscan.Get(ctx, h.sharedDB, &user, "SELECT * FROM users WHERE id = $1", h.id)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &user, nil
}

func (h *UserH) ListMyCommunities(ctx context.Context) (communities []string, err error) {
	sql, args, _ := psql.
		Select("community").
		From("community_users").
		Where(sq.Eq{"user_id": h.id}).
		ToSql()

	err = pgxscan.Select(ctx, h.sharedDB, &communities, sql, args...)
	if err != nil {
		return nil, err
	}
	return communities, nil
}
