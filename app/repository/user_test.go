package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mzdehbashi-github/ableton-challenge/app/entity"
	"github.com/mzdehbashi-github/ableton-challenge/app/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	insertUserQuery      = `(?s)INSERT INTO users \(email, password_hash, is_active, created_at, updated_at\)\s+VALUES \(\?, \?, \?, \?, \?\)`
	existsByEmailQuery   = `(?s)SELECT EXISTS\(SELECT 1 FROM users WHERE email = \?\)`
	findUserByEmailQuery = `(?s)SELECT id, email, password_hash, is_active, created_at, updated_at\s+FROM users WHERE email = \?`
	findUserByIDQuery    = `(?s)SELECT id, email, password_hash, is_active, created_at, updated_at\s+FROM users WHERE id = \?`
	updateUserQuery      = `(?s)UPDATE users SET\s+email = \?,\s+password_hash = \?,\s+is_active = \?,\s+updated_at = \?\s+WHERE id = \?`
)

var userColumns = []string{
	"id",
	"email",
	"password_hash",
	"is_active",
	"created_at",
	"updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { _ = db.Close() }
}

func TestUserRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()
	user := &entity.User{
		Email:        "user@example.com",
		PasswordHash: "hash",
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(insertUserQuery).
		WithArgs(
			user.Email,
			user.PasswordHash,
			user.IsActive,
			user.CreatedAt,
			user.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected ID 1, got %d", user.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)

	mock.ExpectQuery(existsByEmailQuery).
		WithArgs("user@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(findUserByEmailQuery).
		WithArgs("user@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			uint64(1),
			"user@example.com",
			"hash",
			false,
			now,
			now,
		))

	user, err := repo.FindByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user == nil || user.ID != 1 || user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)

	mock.ExpectQuery(findUserByEmailQuery).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.FindByEmail(context.Background(), "missing@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_FindByID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(findUserByIDQuery).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			uint64(7),
			"user@example.com",
			"hash",
			true,
			now,
			now,
		))

	user, err := repo.FindByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user == nil || user.ID != 7 || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	user := &entity.User{
		ID:           1,
		Email:        "user@example.com",
		PasswordHash: "hash",
		IsActive:     true,
	}

	mock.ExpectExec(updateUserQuery).
		WithArgs(
			user.Email,
			user.PasswordHash,
			user.IsActive,
			sqlmock.AnyArg(),
			user.ID,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
