package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/nutrition-go-api/internal/logger"
)

var (
	errNotFound      = errors.New("not found")
	errUsernameTaken = errors.New("username already taken")
	errNoFields      = errors.New("no fields to update")
)

// userStore is the persistence the handlers depend on. pgStore is the
// Postgres implementation; tests swap in an in-memory one.
type userStore interface {
	userByUsername(ctx context.Context, username string) (user, error)
	userIDByToken(ctx context.Context, token string) (int, error)
	createUser(ctx context.Context, u user, p userProfile) (user, error)
	profile(ctx context.Context, userID int) (userProfile, error)
	updateProfile(ctx context.Context, userID int, patch patchProfileRequest) (userProfile, error)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
// pgx.ErrNoRows is translated to errNotFound.
func queryOne[T any](ctx context.Context, q querier, log logger.Logger, sql string, args pgx.NamedArgs) (T, error) {
	var zero T
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Error("query failed", map[string]interface{}{"fn": "queryOne", "error": err.Error()})
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, errNotFound
	}
	if err != nil {
		log.Error("scan failed", map[string]interface{}{"fn": "queryOne", "error": err.Error()})
		return zero, err
	}
	return result, nil
}

const userColumns = "id, username, email, auth_token, password, created_at"

const profileColumns = "user_id, sex, age, height_cm, weight_kg, activity_level, goal, updated_at"

/* ─── Postgres store ─────────────────────────────────────────────────── */

type pgStore struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func newPGStore(db *pgxpool.Pool, log logger.Logger) *pgStore {
	return &pgStore{db: db, log: log}
}

func (s *pgStore) userByUsername(ctx context.Context, username string) (user, error) {
	return queryOne[user](ctx, s.db, s.log,
		"SELECT "+userColumns+" FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
}

func (s *pgStore) userIDByToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := s.db.QueryRow(ctx, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, errNotFound
	}
	return userID, err
}

// createUser inserts the user and their profile in one transaction.
func (s *pgStore) createUser(ctx context.Context, u user, p userProfile) (user, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return user{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := queryOne[user](ctx, tx, s.log,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES (@username, @email, @password, @authToken)
		 RETURNING `+userColumns,
		pgx.NamedArgs{
			"username":  u.Username,
			"email":     u.Email,
			"password":  u.Password,
			"authToken": u.AuthToken,
		})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user{}, errUsernameTaken
		}
		return user{}, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_profiles (user_id, sex, age, height_cm, weight_kg, activity_level, goal)
		 VALUES (@userID, @sex, @age, @heightCM, @weightKG, @activityLevel, @goal)`,
		pgx.NamedArgs{
			"userID":        created.ID,
			"sex":           p.Sex,
			"age":           p.Age,
			"heightCM":      p.HeightCM,
			"weightKG":      p.WeightKG,
			"activityLevel": p.ActivityLevel,
			"goal":          p.Goal,
		}); err != nil {
		return user{}, fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return user{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (s *pgStore) profile(ctx context.Context, userID int) (userProfile, error) {
	return queryOne[userProfile](ctx, s.db, s.log,
		"SELECT "+profileColumns+" FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
}

// updateProfile writes only the fields present in patch.
func (s *pgStore) updateProfile(ctx context.Context, userID int, patch patchProfileRequest) (userProfile, error) {
	// Build SET clause dynamically; only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if patch.Sex != nil {
		setClauses = append(setClauses, "sex = @sex")
		args["sex"] = *patch.Sex
	}
	if patch.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *patch.Age
	}
	if patch.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *patch.HeightCM
	}
	if patch.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *patch.WeightKG
	}
	if patch.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = *patch.ActivityLevel
	}
	if patch.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = *patch.Goal
	}

	if len(setClauses) == 0 {
		return userProfile{}, errNoFields
	}

	query := "UPDATE user_profiles SET " +
		strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE user_id = @userID RETURNING " + profileColumns

	return queryOne[userProfile](ctx, s.db, s.log, query, args)
}
