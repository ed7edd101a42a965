package avatarRepo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/pg"
	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "name", "tagline", "personality_prompt", "physical_description", "profile_image_url",
	"age", "occupation", "interests", "tier", "is_active", "created_at"}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(pg.NewDB(sqlx.NewDb(db, "postgres")), logger.NewNop()).(*Repository), mock
}

func TestListActiveExpandsTiers(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active = TRUE AND tier IN ($1, $2) ORDER BY name")).
		WithArgs("free", "standard").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("avatar-isabella", "Isabella", "", "", "", "", 29, "", "", "standard", true, time.Now()).
			AddRow("avatar-sophie", "Sophie", "", "", "", "", 26, "", "", "free", true, time.Now()))

	avatars, err := repo.ListActive(context.Background(), []domain.Tier{domain.TierFree, domain.TierStandard})
	require.NoError(t, err)
	require.Len(t, avatars, 2)
	assert.Equal(t, domain.TierStandard, avatars[0].Tier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveNoTiers(t *testing.T) {
	repo, mock := newRepo(t)

	avatars, err := repo.ListActive(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, avatars)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("FROM avatars WHERE id").WithArgs("avatar-nobody").WillReturnRows(sqlmock.NewRows(cols))

	_, err := repo.GetByID(context.Background(), "avatar-nobody")
	assert.ErrorIs(t, err, domain.ErrAvatarNotFound)
}
