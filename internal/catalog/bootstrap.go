package catalog

import "github.com/roach88/relviz/internal/ir"

// Bootstrap returns the seed catalog used when nothing has been saved yet:
// a users table and an orders table referencing it through user_id.
func Bootstrap() *Catalog {
	c := New()

	c.tables["users"] = &ir.Table{
		Name: "users",
		Columns: []ir.Column{
			{Name: "id", Type: ir.TypeNumber},
			{Name: "name", Type: ir.TypeText},
			{Name: "email", Type: ir.TypeText},
			{Name: "age", Type: ir.TypeNumber},
		},
		Rows: []ir.Row{
			seedUser(1, "John Doe", "john@example.com", 28),
			seedUser(2, "Jane Smith", "jane@example.com", 32),
			seedUser(3, "Bob Wilson", "bob@example.com", 45),
		},
	}

	c.tables["orders"] = &ir.Table{
		Name: "orders",
		Columns: []ir.Column{
			{Name: "id", Type: ir.TypeNumber},
			{Name: "user_id", Type: ir.TypeNumber},
			{Name: "product", Type: ir.TypeText},
			{Name: "amount", Type: ir.TypeNumber},
		},
		Rows: []ir.Row{
			seedOrder(1, 1, "Laptop", 1200),
			seedOrder(2, 1, "Mouse", 25),
			seedOrder(3, 2, "Keyboard", 100),
		},
	}

	return c
}

func seedUser(id float64, name, email string, age float64) ir.Row {
	return ir.Row{
		{Column: "id", Value: ir.Number(id)},
		{Column: "name", Value: ir.Text(name)},
		{Column: "email", Value: ir.Text(email)},
		{Column: "age", Value: ir.Number(age)},
	}
}

func seedOrder(id, userID float64, product string, amount float64) ir.Row {
	return ir.Row{
		{Column: "id", Value: ir.Number(id)},
		{Column: "user_id", Value: ir.Number(userID)},
		{Column: "product", Value: ir.Text(product)},
		{Column: "amount", Value: ir.Number(amount)},
	}
}
