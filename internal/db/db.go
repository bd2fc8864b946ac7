package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/Manaswi925/ChimeIn/internal/models"
	"github.com/Manaswi925/ChimeIn/internal/utils"
)

const (
	LimitMaxContentLen = 5000 // 5K
	TokenLen           = 32   // 32 bytes, hex encoded
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var ErrNotFound = errors.New("Resource not found")
var ErrBadContentLen = errors.New("You have to respect the imposed content length limits")
var ErrEmailAlreadyUsed = errors.New("The email is already used")
var ErrInvalidFormat = errors.New("Invalid format")
var ErrNameAlreadyUsed = errors.New("The name is already used")

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type SharedDB struct {
	db     DBTX
	config *models.EnvConfig
}

func MigrateUp(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("Error reading migrations: %s", err)
	}
	defer m.Close()
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("While migrating up: %s", err)
	}
	return nil
}
func MigrateDown(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("Error reading migrations: %s", err)
	}
	defer m.Close()
	err = m.Down()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("While migrating down: %s", err)
	}
	return nil
}
func Drop(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("Error reading migrations: %s", err)
	}
	defer m.Close()
	err = m.Drop()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("While dropping: %s", err)
	}
	return nil
}

func Connect(config *models.EnvConfig) (SharedDB, error) {
	pool, err := pgxpool.Connect(context.Background(), config.DatabaseURL)
	if err != nil {
		return SharedDB{}, fmt.Errorf("Failed to connect to postgres: %w", err)
	}
	return SharedDB{pool, config}, nil
}

func (sdb *SharedDB) CreateUser(ctx context.Context, user *models.User) (*UserH, error) {
	if !utils.ValidateEmail(user.Email) {
		return nil, ErrInvalidFormat
	}

	var exists bool
	err := pgxscan.Get(ctx, sdb.db, &exists,
		"SELECT exists(SELECT 1 FROM users WHERE email = $1)",
		user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	err = execTx(ctx, sdb.db, func(ctx context.Context, tx DBTX) error {
		sql, args, _ := psql.
			Insert("users").
			Columns("name", "email", "bio").
			Values(user.Name, user.Email, user.Bio).
			Suffix("RETURNING id").
			ToSql()

		row := tx.QueryRow(ctx, sql, args...)
		err := row.Scan(&user.ID)
		if err != nil {
			return err
		}

		// Promote the first user to admin
		c := 0
		row = tx.QueryRow(ctx, "SELECT COUNT(*) FROM users")
		err = row.Scan(&c)
		if err != nil {
			return err
		}
		user.GlobalRole = models.RoleMember
		if c == 1 {
			user.GlobalRole = models.RoleAdmin
		}

		sql, args, _ = psql.
			Update("users").
			Set("global_role", user.GlobalRole).
			Where(sq.Eq{"id": user.ID}).
			ToSql()
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &UserH{
		id:       user.ID,
		perms:    models.RolePerms(user.GlobalRole),
		sharedDB: sdb.db,
	}, nil
}

func (sdb *SharedDB) ListCommunities(ctx context.Context, uH *UserH) ([]models.CommunityView, error) {
	var userID *int
	if uH != nil {
		userID = &uH.id
	}
	sql, args, _ := selectCommunity(userID).ToSql()

	communities := []models.CommunityView{}
	err := pgxscan.Select(ctx, sdb.db, &communities, sql, args...)
	if err != nil {
		return nil, err
	}
	return communities, nil
}

func execTx(ctx context.Context, db DBTX, txFunc func(context.Context, DBTX) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	err = txFunc(ctx, tx)
	if err != nil {
		tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

func notFoundAs(err error, sentinel error) error {
	if pgxscan.NotFound(err) {
		return sentinel
	}
	return err
}
