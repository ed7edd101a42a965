package conversationRepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/pg"
	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "user_id", "avatar_id", "title", "last_message", "last_message_at", "created_at"}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(pg.NewDB(sqlx.NewDb(db, "postgres")), logger.NewNop()).(*Repository), mock
}

func TestGetByUserAndAvatar(t *testing.T) {
	repo, mock := newRepo(t)
	userID := uuid.New()
	convID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM conversations WHERE user_id = $1 AND avatar_id = $2 ORDER BY created_at DESC LIMIT 1")).
		WithArgs(userID, "avatar-sophie").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(convID.String(), userID.String(), "avatar-sophie", nil, "hey", time.Now(), time.Now()))

	conv, err := repo.GetByUserAndAvatar(context.Background(), userID, "avatar-sophie")
	require.NoError(t, err)
	assert.Equal(t, convID, conv.ID)
	require.NotNil(t, conv.LastMessage)
	assert.Equal(t, "hey", *conv.LastMessage)
	assert.Nil(t, conv.Title)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("FROM conversations WHERE id").WillReturnRows(sqlmock.NewRows(cols))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestListByUserJoinsAvatar(t *testing.T) {
	repo, mock := newRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("a.name AS avatar_name, a.profile_image_url AS avatar_image FROM conversations c JOIN avatars a")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(append(cols, "avatar_name", "avatar_image")).
			AddRow(uuid.NewString(), userID.String(), "avatar-maya", nil, nil, nil, time.Now(), "Maya", "/api/images/avatar-maya/casual/profile.jpg"))

	convs, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "Maya", convs[0].AvatarName)
	assert.Equal(t, "avatar-maya", convs[0].AvatarID)
}

func TestDeleteInTransaction(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM conversations WHERE id = $1")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithTransaction(context.Background(), func(ctx context.Context, tx persistence.Transaction) error {
		return repo.DeleteTx(ctx, tx, id)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRollsBack(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM conversations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.WithTransaction(context.Background(), func(ctx context.Context, tx persistence.Transaction) error {
		return repo.DeleteTx(ctx, tx, uuid.New())
	})
	assert.True(t, errors.Is(err, domain.ErrConversationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
