package repository

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"parley/internal/database"
	models "parley/internal/dm/model"
	appErrors "parley/pkg/errors"
	"parley/pkg/logger"
)

var testDB *bun.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("parley"),
		postgres.WithUsername("parley"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable", "application_name=test")
	if err != nil {
		log.Printf("failed to get connection string: %v", err)
		return
	}

	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connStr)))
	testDB = bun.NewDB(sqlDB, pgdialect.New())

	if err := testDB.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}
	if err := database.CreateSchema(ctx, testDB); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

func truncateConversations(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		_, err := testDB.ExecContext(context.Background(), `TRUNCATE TABLE conversations CASCADE`)
		require.NoError(t, err)
	})
}

func Test_GetOrCreate_NormalizesPair(t *testing.T) {
	truncateConversations(t)
	repo := NewConversationRepository(testDB, logger.Logger{})
	a := uuid.New()
	b := uuid.New()

	first, err := repo.GetOrCreate(t.Context(), a, b)
	require.NoError(t, err)

	// Same pair in either order resolves to the same conversation.
	second, err := repo.GetOrCreate(t.Context(), b, a)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := testDB.NewSelect().Model((*models.Conversation)(nil)).Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func Test_GetOrCreate_RejectsSelf(t *testing.T) {
	truncateConversations(t)
	repo := NewConversationRepository(testDB, logger.Logger{})
	a := uuid.New()

	_, err := repo.GetOrCreate(t.Context(), a, a)
	assert.ErrorIs(t, err, appErrors.ErrSelfConversation)
}

func Test_SetLastMessage(t *testing.T) {
	truncateConversations(t)
	repo := NewConversationRepository(testDB, logger.Logger{})

	conv, err := repo.GetOrCreate(t.Context(), uuid.New(), uuid.New())
	require.NoError(t, err)

	messageID := uuid.New()
	at := time.Now()
	require.NoError(t, repo.SetLastMessage(t.Context(), conv.ID, messageID, at))

	fetched, err := repo.GetByID(t.Context(), conv.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LastMessageID)
	assert.Equal(t, messageID, *fetched.LastMessageID)
	assert.WithinDuration(t, at, fetched.LastMessageAt, time.Second)
}

func Test_DeleteConversation(t *testing.T) {
	truncateConversations(t)
	repo := NewConversationRepository(testDB, logger.Logger{})

	conv, err := repo.GetOrCreate(t.Context(), uuid.New(), uuid.New())
	require.NoError(t, err)

	ids, err := repo.ListIDs(t.Context())
	require.NoError(t, err)
	assert.Contains(t, ids, conv.ID)

	require.NoError(t, repo.Delete(t.Context(), conv.ID))

	_, err = repo.GetByID(t.Context(), conv.ID)
	assert.ErrorIs(t, err, appErrors.ErrConversationNotFound)
}
