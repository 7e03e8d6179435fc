package vending

import (
	"context"
	"testing"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_Scenario(t *testing.T) {
	ctx := context.Background()
	m, err := New(2)
	require.NoError(t, err)
	assert.Equal(t, WaitingForMoney, m.State())

	state, err := m.Dispatch(ctx, SelectProduct)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
	assert.Equal(t, WaitingForMoney, state)

	for _, step := range []struct {
		action domain.ActionID
		want   domain.StateID
	}{
		{InsertMoney, ProductSelected},
		{SelectProduct, DispensingProduct},
		{DispenseProduct, WaitingForMoney},
	} {
		state, err := m.Dispatch(ctx, step.action)
		require.NoError(t, err, step.action)
		assert.Equal(t, step.want, state)
	}

	assert.Equal(t, Inventory{Stock: 1, Credit: 0, Dispensed: 1}, m.Inventory())
}

func TestMachine_OutOfStock(t *testing.T) {
	ctx := context.Background()
	m, err := New(0)
	require.NoError(t, err)

	_, err = m.Dispatch(ctx, InsertMoney)
	require.NoError(t, err)
	_, err = m.Dispatch(ctx, SelectProduct)
	require.NoError(t, err)

	state, err := m.Dispatch(ctx, DispenseProduct)
	assert.ErrorIs(t, err, domain.ErrEffectFailure)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, DispensingProduct, state)
	assert.Equal(t, DispensingProduct, m.State())
	assert.Equal(t, Inventory{Credit: 1}, m.Inventory())

	m.Restock(1)
	state, err = m.Dispatch(ctx, DispenseProduct)
	require.NoError(t, err)
	assert.Equal(t, WaitingForMoney, state)
}

func TestMachine_UndoRedo(t *testing.T) {
	ctx := context.Background()
	m, err := New(1)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Undo(ctx), domain.ErrNothingToUndo)

	_, err = m.Dispatch(ctx, InsertMoney)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Inventory().Credit)

	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, WaitingForMoney, m.State())
	assert.Equal(t, 0, m.Inventory().Credit)

	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, ProductSelected, m.State())
	assert.Equal(t, 1, m.Inventory().Credit, "redo restores the snapshot, the effect does not run again")

	assert.ErrorIs(t, m.Redo(ctx), domain.ErrNothingToRedo)
}

func TestMachine_UndoKeepsStock(t *testing.T) {
	ctx := context.Background()
	m, err := New(1)
	require.NoError(t, err)

	for _, a := range []domain.ActionID{InsertMoney, SelectProduct, DispenseProduct} {
		_, err = m.Dispatch(ctx, a)
		require.NoError(t, err)
	}
	assert.Equal(t, Inventory{Stock: 0, Credit: 0, Dispensed: 1}, m.Inventory())

	m.Restock(3)
	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, DispensingProduct, m.State())
	assert.Equal(t, Inventory{Stock: 3, Credit: 1, Dispensed: 0}, m.Inventory())

	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, WaitingForMoney, m.State())
	assert.Equal(t, Inventory{Stock: 3, Credit: 0, Dispensed: 1}, m.Inventory())
}

func TestMachine_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	m, err := New(5)
	require.NoError(t, err)
	_, err = m.Dispatch(ctx, InsertMoney)
	require.NoError(t, err)

	snap := m.Snapshot()
	_, err = m.Dispatch(ctx, SelectProduct)
	require.NoError(t, err)
	_, err = m.Dispatch(ctx, DispenseProduct)
	require.NoError(t, err)

	require.NoError(t, m.Restore(ctx, snap))
	assert.Equal(t, ProductSelected, m.State())
	assert.Equal(t, Inventory{Stock: 5, Credit: 1}, m.Inventory())

	err = m.Restore(ctx, domain.NewSnapshot[Inventory]("Broken", Inventory{}))
	assert.ErrorIs(t, err, domain.ErrUnknownState)
}

func TestHints(t *testing.T) {
	m, err := New(1)
	require.NoError(t, err)

	// Every rejected pair has a hint and every accepted pair has none.
	for _, state := range m.Table().States() {
		for _, action := range Actions {
			_, valid := m.Table().Lookup(state, action)
			if valid {
				assert.Empty(t, Hint(state, action), "%s/%s", state, action)
			} else {
				assert.NotEmpty(t, Hint(state, action), "%s/%s", state, action)
			}
		}
	}
	assert.Equal(t, "Waiting for money", Label(WaitingForMoney))
	assert.NotEmpty(t, Message(InsertMoney))
}
