package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/fsmkit/internal/demo/vending"
	"github.com/aretw0/fsmkit/pkg/domain"
)

var vendingOptions = map[string]domain.ActionID{
	"1": vending.InsertMoney,
	"2": vending.SelectProduct,
	"3": vending.DispenseProduct,
}

const vendingMenu = `
    1. Insert money
    2. Select product
    3. Dispense product
    4. Exit
    u. Undo    r. Redo    s. Restock

    option: `

// RunVending drives a vending machine from the console until the user exits
// or input ends.
func RunVending(ctx context.Context, c *Console, m *vending.Machine) error {
	s := c.Style()
	for {
		c.Printf("Select an option: %s %s\n", s.Label(vending.Label(m.State())), s.Faint(inventoryLine(m.Inventory())))

		option, err := c.Prompt(ctx, vendingMenu)
		if err != nil {
			return err
		}

		switch option {
		case "4", "q", "exit":
			c.Println("Leaving the system.")
			return nil
		case "u":
			report(c, m.Undo(ctx), "Undone.")
		case "r":
			report(c, m.Redo(ctx), "Redone.")
		case "s":
			m.Restock(1)
			c.Println(s.Success("Restocked one product."))
		default:
			action, ok := vendingOptions[option]
			if !ok {
				c.Println(s.Error("Invalid option."))
				continue
			}
			dispatchVending(ctx, c, m, action)
		}
	}
}

func dispatchVending(ctx context.Context, c *Console, m *vending.Machine, action domain.ActionID) {
	s := c.Style()
	from := m.State()
	state, err := m.Dispatch(ctx, action)
	switch {
	case err == nil:
		c.Println(s.Success(vending.Message(action)))
		c.Printf("State changed to: %s\n", s.State(state))
	case errors.Is(err, domain.ErrInvalidAction):
		c.Println(s.Error(vending.Hint(from, action)))
	case errors.Is(err, vending.ErrOutOfStock):
		c.Println(s.Error("Out of stock. Restock with 's' and dispense again."))
	default:
		c.Println(s.Error(err.Error()))
	}
}

func report(c *Console, err error, ok string) {
	s := c.Style()
	switch {
	case err == nil:
		c.Println(s.Success(ok))
	case errors.Is(err, domain.ErrNothingToUndo):
		c.Println("Nothing to undo.")
	case errors.Is(err, domain.ErrNothingToRedo):
		c.Println("Nothing to redo.")
	default:
		c.Println(s.Error(err.Error()))
	}
}

func inventoryLine(inv vending.Inventory) string {
	return fmt.Sprintf("(stock %d, credit %d, dispensed %d)", inv.Stock, inv.Credit, inv.Dispensed)
}
