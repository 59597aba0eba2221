package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/offerdesk/offerdesk/internal/user/domain"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)
	return db, node
}

func sampleUser(node *snowflake.Node, companyID snowflake.ID, email string) *domain.User {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           node.Generate(),
		CompanyID:    companyID,
		FirstName:    "Ayse",
		LastName:     "Yilmaz",
		Email:        email,
		PasswordHash: "argon2id-hash",
		Role:         tenantctx.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestInsertDuplicateEmailReturnsEmailTaken(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	companyID := node.Generate()

	assert.NoError(t, repo.Insert(context.Background(), db, sampleUser(node, companyID, "ayse@example.com")))

	err := repo.Insert(context.Background(), db, sampleUser(node, companyID, "ayse@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUpdateDuplicateEmailReturnsEmailTaken(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	companyID := node.Generate()

	assert.NoError(t, repo.Insert(context.Background(), db, sampleUser(node, companyID, "first@example.com")))
	second := sampleUser(node, companyID, "second@example.com")
	assert.NoError(t, repo.Insert(context.Background(), db, second))

	second.Email = "first@example.com"
	assert.ErrorIs(t, repo.Update(context.Background(), db, second), domain.ErrEmailTaken)
}

func TestInsertPersistsInactiveFlag(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()

	user := sampleUser(node, node.Generate(), "ayse@example.com")
	user.IsActive = false
	assert.NoError(t, repo.Insert(context.Background(), db, user))

	got, err := repo.FindByID(context.Background(), db, user.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.False(t, got.IsActive)
}
