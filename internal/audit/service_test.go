package audit

import (
	"encoding/json"
	"testing"
	"time"

	"agency-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every entity type the handlers write logs for must decode on undo,
// user accounts included.
func TestDecodeForRecreate_AcceptsAllLoggedEntityTypes(t *testing.T) {
	loggedTypes := []string{
		"transaction", "lead", "subscription", "resource",
		"post", "project", "task", "user",
	}
	for _, entityType := range loggedTypes {
		t.Run(entityType, func(t *testing.T) {
			_, err := decodeForRecreate(entityType, "{}")
			require.NoError(t, err)
		})
	}
}

func TestDecodeForRecreate_UnknownTypeRejected(t *testing.T) {
	_, err := decodeForRecreate("invoice", "{}")
	require.Error(t, err)

	_, err = decodeForRestore("invoice", "some-id", "{}")
	require.Error(t, err)
}

func TestDecodeForRecreate_RebuildsDeletedUser(t *testing.T) {
	snapshot, err := json.Marshal(models.User{
		ID:    "u-1",
		Name:  "Dana",
		Email: "dana@example.com",
		Role:  models.RoleSales,
	})
	require.NoError(t, err)

	entity, err := decodeForRecreate("user", string(snapshot))
	require.NoError(t, err)

	user, ok := entity.(*models.User)
	require.True(t, ok)
	assert.Empty(t, user.ID, "recreated rows get a fresh id on insert")
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, models.RoleSales, user.Role)
}

func TestDecodeForRecreate_RebuildsDeletedTransaction(t *testing.T) {
	snapshot, err := json.Marshal(models.Transaction{
		ID:          "tx-1",
		Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "Retainer invoice",
		Amount:      4200,
		Type:        models.TransactionIncome,
		Status:      models.TransactionCompleted,
	})
	require.NoError(t, err)

	entity, err := decodeForRecreate("transaction", string(snapshot))
	require.NoError(t, err)

	tx, ok := entity.(*models.Transaction)
	require.True(t, ok)
	assert.Empty(t, tx.ID)
	assert.Equal(t, 4200.0, tx.Amount)
	assert.Equal(t, models.TransactionIncome, tx.Type)
}

// Undoing a role change restores the user the snapshot describes, on the
// same row.
func TestDecodeForRestore_UserRoleChange(t *testing.T) {
	before, err := json.Marshal(models.User{
		ID:    "u-1",
		Name:  "Dana",
		Email: "dana@example.com",
		Role:  models.RoleDeveloper,
	})
	require.NoError(t, err)

	entity, err := decodeForRestore("user", "u-1", string(before))
	require.NoError(t, err)

	user, ok := entity.(*models.User)
	require.True(t, ok)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, models.RoleDeveloper, user.Role)
}
