package console

import (
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/xenking/orbit-console/internal/domain/access"
	"github.com/xenking/orbit-console/internal/domain/customer"
	"github.com/xenking/orbit-console/internal/domain/product"
	"github.com/xenking/orbit-console/internal/domain/sale"
)

func (c *Console) table(header []string, rows [][]string) {
	if len(rows) == 0 {
		c.println("Nothing to show.")
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	if header != nil {
		_, _ = tw.Write([]byte(strings.Join(header, "\t") + "\n"))
	}
	for _, r := range rows {
		_, _ = tw.Write([]byte(strings.Join(r, "\t") + "\n"))
	}
	_ = tw.Flush()
}

func menu(items []access.MenuItem) string {
	actions := make([]string, 0, len(items))
	for _, a := range items {
		actions = append(actions, string(a.Action))
	}
	return strings.Join(actions, ",")
}

func (c *Console) printProducts(products []product.Product) {
	actions := menu(access.ProductActions(c.deps.Identity))
	rows := make([][]string, 0, len(products))
	for i, p := range products {
		stock := strconv.Itoa(p.StockQuantity)
		if p.LowStock() {
			stock += " (low)"
		}
		if !p.IsActive {
			stock += " (inactive)"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), p.SKU, p.Name, p.SalePrice.StringFixed(2), stock, actions})
	}
	c.table([]string{"#", "SKU", "NAME", "PRICE", "STOCK", "ACTIONS"}, rows)
}

func (c *Console) printCategories(categories []product.Category) {
	actions := menu(access.CategoryActions(c.deps.Identity))
	rows := make([][]string, 0, len(categories))
	for i, cat := range categories {
		rows = append(rows, []string{strconv.Itoa(i + 1), cat.Name, actions})
	}
	c.table([]string{"#", "NAME", "ACTIONS"}, rows)
}

func (c *Console) printCustomers(customers []customer.Customer) {
	actions := menu(access.CustomerActions(c.deps.Identity))
	rows := make([][]string, 0, len(customers))
	for i, cu := range customers {
		rows = append(rows, []string{strconv.Itoa(i + 1), cu.DisplayName(), cu.Email, cu.Phone, actions})
	}
	c.table([]string{"#", "NAME", "EMAIL", "PHONE", "ACTIONS"}, rows)
}

func (c *Console) printCart() {
	sub := c.deps.Submission
	lines := sub.Cart().Lines()
	if len(lines) == 0 {
		c.println("Cart is empty.")
	} else {
		rows := make([][]string, 0, len(lines))
		for i, l := range lines {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				l.SKU,
				l.Name,
				strconv.Itoa(l.Quantity),
				l.UnitPrice.StringFixed(2),
				l.Subtotal().StringFixed(2),
			})
		}
		c.table([]string{"#", "SKU", "NAME", "QTY", "PRICE", "AMOUNT"}, rows)
	}

	f := sub.Form()
	pv := sub.Preview()
	customerName := "none"
	for _, cu := range c.customers {
		if cu.ID.String() == f.CustomerID {
			customerName = cu.DisplayName()
		}
	}
	rows := [][]string{
		{"Customer", customerName},
		{"Payment", string(f.PaymentMethod)},
		{"Subtotal", pv.Subtotal.StringFixed(2)},
		{"Discount", pv.Discount.StringFixed(2)},
		{"Tax", pv.Tax.StringFixed(2)},
		{"Total", pv.Total.StringFixed(2)},
	}
	if f.Notes != "" {
		rows = append(rows, []string{"Notes", f.Notes})
	}
	c.table(nil, rows)
	if pv.Clamped {
		c.println("Discount exceeds subtotal plus tax; submit will be refused.")
	}
	if sub.State() == sale.Failed {
		if err := sub.Err(); err != nil {
			c.printf("Last submit failed: %v. Type submit to retry.\n", err)
		}
	}
}

func (c *Console) printSales(sales []sale.Sale, count, page int) {
	rows := make([][]string, 0, len(sales))
	for i, s := range sales {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.InvoiceNumber,
			s.SaleDate.Format("2006-01-02 15:04"),
			string(s.PaymentMethod),
			s.Total.StringFixed(2),
			string(s.Status),
			menu(access.SaleActions(c.deps.Identity, s)),
		})
	}
	c.table([]string{"#", "INVOICE", "DATE", "PAYMENT", "TOTAL", "STATUS", "ACTIONS"}, rows)
	c.printf("Page %d, %d sales in total.\n", page, count)
}

func (c *Console) printSale(s sale.Sale) {
	rows := [][]string{
		{"Invoice", s.InvoiceNumber},
		{"Date", s.SaleDate.Format("2006-01-02 15:04")},
		{"Status", string(s.Status)},
		{"Payment", string(s.PaymentMethod)},
		{"Subtotal", s.Subtotal.StringFixed(2)},
		{"Discount", s.Discount.StringFixed(2)},
		{"Tax", s.Tax.StringFixed(2)},
		{"Total", s.Total.StringFixed(2)},
	}
	if s.Notes != nil && *s.Notes != "" {
		rows = append(rows, []string{"Notes", *s.Notes})
	}
	if s.CancellationReason != nil {
		rows = append(rows, []string{"Cancelled", *s.CancellationReason})
	}
	c.table(nil, rows)

	items := make([][]string, 0, len(s.Items))
	for i, it := range s.Items {
		items = append(items, []string{
			strconv.Itoa(i + 1),
			it.ProductSKU,
			it.ProductName,
			strconv.Itoa(it.Quantity),
			it.UnitPrice.StringFixed(2),
			it.Subtotal.StringFixed(2),
		})
	}
	c.table([]string{"#", "SKU", "NAME", "QTY", "PRICE", "AMOUNT"}, items)
}

func (c *Console) printMovements(movements []product.Movement) {
	rows := make([][]string, 0, len(movements))
	for _, m := range movements {
		qty := strconv.Itoa(m.Quantity)
		if m.Quantity > 0 {
			qty = "+" + qty
		}
		reason := ""
		if m.Reason != nil {
			reason = *m.Reason
		}
		rows = append(rows, []string{
			m.CreatedAt.Format("2006-01-02 15:04"),
			string(m.Type),
			qty,
			strconv.Itoa(m.PreviousStock) + " -> " + strconv.Itoa(m.NewStock),
			reason,
		})
	}
	c.table([]string{"DATE", "TYPE", "QTY", "STOCK", "REASON"}, rows)
}
