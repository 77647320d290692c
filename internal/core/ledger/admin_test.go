package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuborajSujon/mfs-backend/internal/adapter/memstore"
	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
	"github.com/JuborajSujon/mfs-backend/internal/core/ledger"
)

func newAdminFixture(t *testing.T) (*memstore.Store, *ledger.Admin) {
	t.Helper()
	mem := memstore.New()
	seedAccount(t, mem, "Root", "root@example.com", "01700000000", domain.RoleAdmin, 0)
	seedAccount(t, mem, "Alice", "alice@example.com", "01711111111", domain.RoleUser, 0)
	seedAccount(t, mem, "Carl", "carl@example.com", "01733333333", domain.RoleAgent, 0)
	return mem, ledger.NewAdmin(mem)
}

func TestSetAccountStatus_ActivationGrantsBonusOnce(t *testing.T) {
	mem, admin := newAdminFixture(t)

	acc, err := admin.SetAccountStatus(context.Background(), "root@example.com", "alice@example.com", domain.StatusActive)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, acc.Status)
	assert.True(t, acc.BonusGranted)
	assert.Equal(t, int64(40), acc.Balance)

	// A second activation never grants the bonus again.
	acc, err = admin.SetAccountStatus(context.Background(), "root@example.com", "alice@example.com", domain.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(40), acc.Balance)

	assert.Equal(t, int64(40), balanceOf(t, mem, "alice@example.com"))
}

func TestSetAccountStatus_AgentBonus(t *testing.T) {
	_, admin := newAdminFixture(t)

	acc, err := admin.SetAccountStatus(context.Background(), "root@example.com", "carl@example.com", domain.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), acc.Balance)
}

func TestSetAccountStatus_BlockingSkipsBonus(t *testing.T) {
	mem, admin := newAdminFixture(t)

	acc, err := admin.SetAccountStatus(context.Background(), "root@example.com", "alice@example.com", domain.StatusBlocked)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusBlocked, acc.Status)
	assert.False(t, acc.BonusGranted)
	assert.Zero(t, balanceOf(t, mem, "alice@example.com"))
}

func TestSetAccountStatus_AgentCallerAllowed(t *testing.T) {
	_, admin := newAdminFixture(t)

	acc, err := admin.SetAccountStatus(context.Background(), "carl@example.com", "alice@example.com", domain.StatusActive)
	require.NoError(t, err)
	assert.True(t, acc.BonusGranted)
}

func TestSetAccountStatus_UserCallerDenied(t *testing.T) {
	mem, admin := newAdminFixture(t)
	seedAccount(t, mem, "Bob", "bob@example.com", "01722222222", domain.RoleUser, 0)

	_, err := admin.SetAccountStatus(context.Background(), "bob@example.com", "alice@example.com", domain.StatusActive)
	require.ErrorIs(t, err, domain.ErrInvalidRecipient)
}

func TestSetAccountStatus_UnknownTarget(t *testing.T) {
	_, admin := newAdminFixture(t)

	_, err := admin.SetAccountStatus(context.Background(), "root@example.com", "ghost@example.com", domain.StatusActive)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetAccountStatus_RejectsUnknownStatus(t *testing.T) {
	_, admin := newAdminFixture(t)

	_, err := admin.SetAccountStatus(context.Background(), "root@example.com", "alice@example.com", "frozen")
	require.ErrorIs(t, err, domain.ErrConflict)
}
