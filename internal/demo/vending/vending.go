// Package vending is the coin-operated vending machine built on the fsm engine.
package vending

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/fsm"
	"github.com/aretw0/fsmkit/pkg/history"
	"github.com/aretw0/fsmkit/pkg/registry"
	"github.com/aretw0/fsmkit/pkg/schema"
)

const (
	WaitingForMoney   domain.StateID = "WaitingForMoney"
	ProductSelected   domain.StateID = "ProductSelected"
	DispensingProduct domain.StateID = "DispensingProduct"

	InsertMoney     domain.ActionID = "insertMoney"
	SelectProduct   domain.ActionID = "selectProduct"
	DispenseProduct domain.ActionID = "dispenseProduct"
)

// ErrOutOfStock is the effect failure of dispensing from an empty machine.
var ErrOutOfStock = errors.New("out of stock")

// Actions lists the actions in menu order.
var Actions = []domain.ActionID{InsertMoney, SelectProduct, DispenseProduct}

var hints = map[domain.TransitionKey]string{
	{From: WaitingForMoney, Action: SelectProduct}:   "Insert money first.",
	{From: WaitingForMoney, Action: DispenseProduct}: "Insert money first.",
	{From: ProductSelected, Action: InsertMoney}:     "Please select a product, money already inserted.",
	{From: ProductSelected, Action: DispenseProduct}: "Please select a product before dispensing it.",
	{From: DispensingProduct, Action: InsertMoney}:   "Please wait until the product is delivered.",
	{From: DispensingProduct, Action: SelectProduct}: "Product already selected and dispensing.",
}

var messages = map[domain.ActionID]string{
	InsertMoney:     "Money inserted: you can now select a product.",
	SelectProduct:   "Product selected.",
	DispenseProduct: "Product dispensed, waiting for money again.",
}

// Definition returns the declarative form of the vending table.
func Definition() *schema.Definition {
	return &schema.Definition{
		Name:        "vending",
		Description: "Coin-operated vending machine.",
		Initial:     WaitingForMoney,
		Labels: map[string]string{
			string(WaitingForMoney):   "Waiting for money",
			string(ProductSelected):   "Selecting product",
			string(DispensingProduct): "Dispensing product",
		},
		Transitions: []domain.Transition{
			{From: WaitingForMoney, Action: InsertMoney, To: ProductSelected, EffectName: "credit"},
			{From: ProductSelected, Action: SelectProduct, To: DispensingProduct},
			{From: DispensingProduct, Action: DispenseProduct, To: WaitingForMoney, EffectName: "dispense"},
		},
	}
}

// Hint explains why action is rejected in state. It is empty for valid pairs.
func Hint(state domain.StateID, action domain.ActionID) string {
	return hints[domain.TransitionKey{From: state, Action: action}]
}

// Message describes a successful action.
func Message(action domain.ActionID) string {
	return messages[action]
}

// Label returns the human name of a state.
func Label(state domain.StateID) string {
	return Definition().Label(state)
}

// Inventory is the payload carried next to the machine state.
type Inventory struct {
	Stock     int `json:"stock"`
	Credit    int `json:"credit"`
	Dispensed int `json:"dispensed"`
}

// Stockroom is an Inventory mutated by the vending effects.
// It is safe for concurrent use so that many sessions can share one machine's stock.
type Stockroom struct {
	mu  sync.Mutex
	inv Inventory
}

// NewStockroom creates a stockroom holding stock products.
func NewStockroom(stock int) *Stockroom {
	return &Stockroom{inv: Inventory{Stock: stock}}
}

// Inventory returns a copy of the current inventory.
func (s *Stockroom) Inventory() Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv
}

// Set replaces the inventory.
func (s *Stockroom) Set(inv Inventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv = inv
}

// Restock adds n products.
func (s *Stockroom) Restock(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Stock += n
}

// Registry returns the named effects referenced by Definition.
func (s *Stockroom) Registry() *registry.Registry {
	reg := registry.NewRegistry()
	reg.Register("credit", s.credit)
	reg.Register("dispense", s.dispense)
	return reg
}

func (s *Stockroom) credit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Credit++
	return nil
}

func (s *Stockroom) dispense() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inv.Stock <= 0 {
		return ErrOutOfStock
	}
	s.inv.Stock--
	s.inv.Credit--
	s.inv.Dispensed++
	return nil
}

// NewTable builds the vending table with effects bound to room.
func NewTable(room *Stockroom) (*fsm.Table, error) {
	return schema.Build(Definition(), room.Registry())
}

// Machine is a single vending machine with undo/redo over state and inventory.
type Machine struct {
	fsm     *fsm.Machine
	room    *Stockroom
	history *history.Stack[domain.Snapshot[Inventory]]
}

// New creates a vending machine holding stock products.
func New(stock int, opts ...fsm.Option) (*Machine, error) {
	room := NewStockroom(stock)
	table, err := NewTable(room)
	if err != nil {
		return nil, err
	}
	machine, err := fsm.New(WaitingForMoney, table, opts...)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		fsm:     machine,
		room:    room,
		history: history.New[domain.Snapshot[Inventory]](),
	}
	m.history.Push(m.Snapshot())
	return m, nil
}

// State returns the current state.
func (m *Machine) State() domain.StateID {
	return m.fsm.CurrentState()
}

// Inventory returns a copy of the inventory.
func (m *Machine) Inventory() Inventory {
	return m.room.Inventory()
}

// Available returns the actions valid in the current state.
func (m *Machine) Available() []domain.ActionID {
	return m.fsm.Available()
}

// Table returns the transition table.
func (m *Machine) Table() *fsm.Table {
	return m.fsm.Table()
}

// Restock adds n products. Restocking is not recorded in the history, and
// undo and redo leave the stock as it is.
func (m *Machine) Restock(n int) {
	m.room.Restock(n)
}

// Dispatch applies an action and records the result for undo.
func (m *Machine) Dispatch(ctx context.Context, action domain.ActionID) (domain.StateID, error) {
	state, err := m.fsm.DispatchContext(ctx, action)
	if err != nil {
		return state, err
	}
	m.history.Push(m.Snapshot())
	return state, nil
}

// Undo returns to the state, credit and dispensed count before the last action.
func (m *Machine) Undo(ctx context.Context) error {
	if m.history.Cursor() <= 0 {
		return domain.ErrNothingToUndo
	}
	m.history.Undo()
	snap, _ := m.history.Current()
	return m.travel(ctx, snap)
}

// Redo re-applies the last undone action without running its effect again.
func (m *Machine) Redo(ctx context.Context) error {
	snap, ok := m.history.Redo()
	if !ok {
		return domain.ErrNothingToRedo
	}
	return m.travel(ctx, snap)
}

// Snapshot captures the state and a copy of the inventory.
func (m *Machine) Snapshot() domain.Snapshot[Inventory] {
	return domain.NewSnapshot(m.fsm.CurrentState(), m.room.Inventory())
}

// Restore re-positions the machine from a snapshot, stock included, and records
// it in the history.
func (m *Machine) Restore(ctx context.Context, snap domain.Snapshot[Inventory]) error {
	if err := m.restore(ctx, snap); err != nil {
		return err
	}
	m.history.Push(snap)
	return nil
}

// travel restores a history entry. Stock is physical: it keeps its current value.
func (m *Machine) travel(ctx context.Context, snap domain.Snapshot[Inventory]) error {
	snap.Payload.Stock = m.room.Inventory().Stock
	return m.restore(ctx, snap)
}

func (m *Machine) restore(ctx context.Context, snap domain.Snapshot[Inventory]) error {
	if err := m.fsm.RestoreContext(ctx, snap.State); err != nil {
		return fmt.Errorf("failed to restore vending machine: %w", err)
	}
	m.room.Set(snap.Payload)
	return nil
}
