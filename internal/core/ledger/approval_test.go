package ledger_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuborajSujon/mfs-backend/internal/adapter/memstore"
	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
	"github.com/JuborajSujon/mfs-backend/internal/core/ledger"
)

func newWorkflowFixture(t *testing.T) (*memstore.Store, *ledger.ApprovalWorkflow) {
	t.Helper()
	mem := memstore.New()
	seedAccount(t, mem, "Alice", "alice@example.com", "01711111111", domain.RoleUser, 2000)
	seedAccount(t, mem, "Carl", "carl@example.com", "01733333333", domain.RoleAgent, 5000)
	return mem, ledger.NewApprovalWorkflow(mem, mem, mem)
}

func TestSubmitCashOut_PendingWithoutBalanceChange(t *testing.T) {
	mem, workflow := newWorkflowFixture(t)

	req, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 1000, testPIN, domain.KindCashOut)
	require.NoError(t, err)

	assert.Equal(t, domain.RequestPending, req.Status)
	assert.Equal(t, int64(1000), req.Amount)
	assert.Equal(t, int64(15), req.Fee)
	assert.Len(t, req.TxID, 10)
	assert.Equal(t, "Alice", req.SenderName)
	assert.Equal(t, "Carl", req.AgentName)

	// Submission is a pre-check only; nothing moved yet.
	assert.Equal(t, int64(2000), balanceOf(t, mem, "alice@example.com"))
	assert.Equal(t, int64(5000), balanceOf(t, mem, "carl@example.com"))

	records, err := mem.ListByParticipant(context.Background(), "alice@example.com", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmitCashOut_InsufficientForAmountPlusFee(t *testing.T) {
	mem, workflow := newWorkflowFixture(t)

	// Balance 2000 cannot cover 2000 + 30 fee.
	_, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 2000, testPIN, domain.KindCashOut)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(2000), balanceOf(t, mem, "alice@example.com"))
}

func TestSubmitCashIn_NoFeeNoPreCheck(t *testing.T) {
	mem, workflow := newWorkflowFixture(t)
	seedAccount(t, mem, "Broke", "broke@example.com", "01744444444", domain.RoleUser, 0)

	req, err := workflow.SubmitRequest(context.Background(), "broke@example.com", "01733333333", 500, testPIN, domain.KindCashIn)
	require.NoError(t, err)

	assert.Zero(t, req.Fee)
	assert.Equal(t, domain.RequestPending, req.Status)
}

func TestSubmitRequest_RejectsExcessiveAmount(t *testing.T) {
	mem, workflow := newWorkflowFixture(t)

	_, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", math.MaxInt64-3, testPIN, domain.KindCashOut)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Equal(t, int64(2000), balanceOf(t, mem, "alice@example.com"))
}

func TestSubmitRequest_CounterpartyMustBeAgent(t *testing.T) {
	mem, workflow := newWorkflowFixture(t)
	seedAccount(t, mem, "Bob", "bob@example.com", "01722222222", domain.RoleUser, 0)

	_, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01722222222", 100, testPIN, domain.KindCashOut)
	require.ErrorIs(t, err, domain.ErrInvalidRecipient)
}

func TestSubmitRequest_RejectsImmediateKind(t *testing.T) {
	_, workflow := newWorkflowFixture(t)

	_, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 100, testPIN, domain.KindSendMoney)
	require.Error(t, err)
}

func TestApproveCashOut_SettlesOnce(t *testing.T) {
	mem, workflow := newWorkflowFixture(t)

	req, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 1000, testPIN, domain.KindCashOut)
	require.NoError(t, err)

	settled, err := workflow.Approve(context.Background(), req.ID, "carl@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestSettled, settled.Status)

	// Amount plus the 1.5% fee moves from the user to the agent.
	assert.Equal(t, int64(985), balanceOf(t, mem, "alice@example.com"))
	assert.Equal(t, int64(6015), balanceOf(t, mem, "carl@example.com"))

	records, err := mem.ListByParticipant(context.Background(), "alice@example.com", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.KindCashOut, records[0].Kind)
	assert.Equal(t, req.TxID, records[0].TxID)
	assert.Equal(t, int64(1000), records[0].Amount)
	assert.Equal(t, int64(15), records[0].Fee)

	// A repeat approval changes nothing.
	_, err = workflow.Approve(context.Background(), req.ID, "carl@example.com")
	require.ErrorIs(t, err, domain.ErrAlreadySettled)
	assert.Equal(t, int64(985), balanceOf(t, mem, "alice@example.com"))
	assert.Equal(t, int64(6015), balanceOf(t, mem, "carl@example.com"))

	records, err = mem.ListByParticipant(context.Background(), "alice@example.com", 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestApproveCashIn_MovesAgentFunds(t *testing.T) {
	mem, workflow := newWorkflowFixture(t)

	req, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 400, testPIN, domain.KindCashIn)
	require.NoError(t, err)

	_, err = workflow.Approve(context.Background(), req.ID, "carl@example.com")
	require.NoError(t, err)

	assert.Equal(t, int64(2400), balanceOf(t, mem, "alice@example.com"))
	assert.Equal(t, int64(4600), balanceOf(t, mem, "carl@example.com"))
}

func TestApproveCashIn_AgentShortfallIsClean(t *testing.T) {
	mem := memstore.New()
	seedAccount(t, mem, "Alice", "alice@example.com", "01711111111", domain.RoleUser, 0)
	seedAccount(t, mem, "Poor", "poor@example.com", "01755555555", domain.RoleAgent, 100)
	workflow := ledger.NewApprovalWorkflow(mem, mem, mem)

	req, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01755555555", 400, testPIN, domain.KindCashIn)
	require.NoError(t, err)

	_, err = workflow.Approve(context.Background(), req.ID, "poor@example.com")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The debit leg runs first, so a shortfall leaves no partial update.
	assert.Zero(t, balanceOf(t, mem, "alice@example.com"))
	assert.Equal(t, int64(100), balanceOf(t, mem, "poor@example.com"))

	reloaded, err := mem.FindByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, reloaded.Status, "a failed approval stays approvable")
}

func TestApprove_OverdrawnAtApprovalTime(t *testing.T) {
	mem := memstore.New()
	// Enough for either request alone, not both: each needs 1015.
	seedAccount(t, mem, "Alice", "alice@example.com", "01711111111", domain.RoleUser, 1200)
	seedAccount(t, mem, "Carl", "carl@example.com", "01733333333", domain.RoleAgent, 0)
	workflow := ledger.NewApprovalWorkflow(mem, mem, mem)

	// No hold at submission, so both go through.
	first, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 1000, testPIN, domain.KindCashOut)
	require.NoError(t, err)
	second, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 1000, testPIN, domain.KindCashOut)
	require.NoError(t, err)

	_, err = workflow.Approve(context.Background(), first.ID, "carl@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(185), balanceOf(t, mem, "alice@example.com"))

	// The approval-time re-check catches the overdraw.
	_, err = workflow.Approve(context.Background(), second.ID, "carl@example.com")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(185), balanceOf(t, mem, "alice@example.com"))
	assert.Equal(t, int64(1015), balanceOf(t, mem, "carl@example.com"))
}

func TestApprove_WrongAgent(t *testing.T) {
	mem, workflow := newWorkflowFixture(t)
	seedAccount(t, mem, "Dana", "dana@example.com", "01766666666", domain.RoleAgent, 0)

	req, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 100, testPIN, domain.KindCashOut)
	require.NoError(t, err)

	_, err = workflow.Approve(context.Background(), req.ID, "dana@example.com")
	require.ErrorIs(t, err, domain.ErrInvalidRecipient)
	assert.Equal(t, int64(2000), balanceOf(t, mem, "alice@example.com"))
}

func TestApprove_UnknownRequest(t *testing.T) {
	_, workflow := newWorkflowFixture(t)

	_, err := workflow.Approve(context.Background(), uuid.New(), "carl@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInbox_FiltersByStatus(t *testing.T) {
	_, workflow := newWorkflowFixture(t)

	first, err := workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 200, testPIN, domain.KindCashOut)
	require.NoError(t, err)
	_, err = workflow.SubmitRequest(context.Background(), "alice@example.com", "01733333333", 300, testPIN, domain.KindCashIn)
	require.NoError(t, err)

	_, err = workflow.Approve(context.Background(), first.ID, "carl@example.com")
	require.NoError(t, err)

	pending, err := workflow.Inbox(context.Background(), ledger.ListRequestsOptions{
		AgentEmail: "carl@example.com",
		Status:     domain.RequestPending,
	})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(300), pending[0].Amount)

	all, err := workflow.Inbox(context.Background(), ledger.ListRequestsOptions{AgentEmail: "carl@example.com"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
