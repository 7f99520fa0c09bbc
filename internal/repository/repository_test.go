package repository

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellscout/sellscout-backend-go/internal/database"
	"github.com/sellscout/sellscout-backend-go/internal/models"
)

func setupDB(t *testing.T) {
	t.Helper()

	err := database.Init(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, database.NewMigrationManager(database.GetDB(), zerolog.Nop()).RunMigrations())
}

func newUser(t *testing.T, repo *UserRepository, name string, active, notify bool) int64 {
	t.Helper()

	id, err := repo.Create(&models.User{
		Username:             name + "-" + t.Name(),
		Email:                name + "-" + t.Name() + "@example.com",
		PasswordHash:         "x",
		CreatedAt:            time.Now().UTC(),
		IsActive:             active,
		ReceiveNotifications: notify,
	})
	require.NoError(t, err)
	return id
}

func TestUserCreateDuplicate(t *testing.T) {
	setupDB(t)
	repo := NewUserRepository(database.GetDB())

	newUser(t, repo, "sam", true, true)

	_, err := repo.Create(&models.User{
		Username:     "sam-" + t.Name(),
		Email:        "other@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetByUsernameIgnoresInactive(t *testing.T) {
	setupDB(t)
	repo := NewUserRepository(database.GetDB())

	newUser(t, repo, "ghost", false, true)

	_, err := repo.GetByUsername("ghost-" + t.Name())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListEligibleFilters(t *testing.T) {
	setupDB(t)
	repo := NewUserRepository(database.GetDB())

	wantFirst := newUser(t, repo, "a", true, true)
	newUser(t, repo, "b", true, false)
	newUser(t, repo, "c", false, true)
	wantSecond := newUser(t, repo, "d", true, true)

	users, err := repo.ListEligible()
	require.NoError(t, err)

	var ids []int64
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Contains(t, ids, wantFirst)
	assert.Contains(t, ids, wantSecond)
	for _, u := range users {
		assert.True(t, u.IsActive)
		assert.True(t, u.ReceiveNotifications)
	}
}

func TestUpdateLastLogin(t *testing.T) {
	setupDB(t)
	repo := NewUserRepository(database.GetDB())

	id := newUser(t, repo, "sam", true, true)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(id, at))

	user, err := repo.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.True(t, user.LastLogin.Equal(at))
}

func TestReportLifecycle(t *testing.T) {
	setupDB(t)
	users := NewUserRepository(database.GetDB())
	reports := NewReportRepository(database.GetDB())

	userID := newUser(t, users, "sam", true, true)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	var lastID int64
	for i := 0; i < 12; i++ {
		id, err := reports.Insert(&models.Report{
			UserID:      userID,
			ReportKind:  models.ReportKindDaily,
			ReportData:  fmt.Sprintf(`{"total_products":%d}`, i),
			GeneratedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
		lastID = id
	}

	require.NoError(t, reports.MarkSent(lastID, base.Add(13*time.Hour)))
	assert.ErrorIs(t, reports.MarkSent(999999, base), ErrNotFound)

	recent, err := reports.ListRecent(userID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	// Newest first, with the sent flag round-tripped.
	assert.Equal(t, lastID, recent[0].ID)
	assert.True(t, recent[0].SentViaEmail)
	require.NotNil(t, recent[0].EmailSentAt)
	assert.False(t, recent[1].SentViaEmail)

	count, err := reports.CountByUser(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}

func TestProductFingerprintChanges(t *testing.T) {
	setupDB(t)
	users := NewUserRepository(database.GetDB())
	products := NewProductRepository(database.GetDB())

	userID := newUser(t, users, "sam", true, true)

	count, marker, err := products.Fingerprint(userID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, marker)

	now := time.Now().UTC()
	id, err := products.Create(&models.Product{
		UserID: userID, Name: "Earbuds", Category: "Electronics",
		CurrentPrice: 40, EstimatedCost: 20, MonthlySales: 600,
		CompetitionLevel: models.CompetitionLow, ReviewRating: 4.8,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	// MAX() strips the column's declared type, so the marker comes back
	// as raw text; the call must still succeed on a populated set.
	count, marker, err = products.Fingerprint(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NotEmpty(t, marker)

	// Touching a product moves the marker even when the count is stable.
	product, err := products.GetByID(id, userID)
	require.NoError(t, err)
	product.UpdatedAt = now.Add(time.Hour)
	require.NoError(t, products.Update(product))

	count, moved, err := products.Fingerprint(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NotEqual(t, marker, moved)
}
