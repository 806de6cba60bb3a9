package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/orbit-console/internal/domain/access"
	"github.com/xenking/orbit-console/internal/domain/product"
	"github.com/xenking/orbit-console/internal/domain/role"
	"github.com/xenking/orbit-console/internal/domain/sale"
)

// errBadArgs makes Exec print the command's usage line.
var errBadArgs = errors.New("bad arguments")

type usageError struct {
	usage string
}

func (e *usageError) Error() string {
	return "usage: " + e.usage
}

type command struct {
	name    string
	usage   string
	help    string
	allowed func(c *Console) bool
	// ownDeadline commands are not bounded by Deps.RequestTimeout.
	ownDeadline bool
	run         func(c *Console, ctx context.Context, args []string, rest string) error
}

func builtins() []command {
	return []command{
		{name: "help", usage: "help", help: "list available commands", run: (*Console).help},
		{name: "whoami", usage: "whoami", help: "show the signed-in user", run: (*Console).whoami},
		{name: "nav", usage: "nav", help: "list sections you can open", run: (*Console).nav},
		{name: "tabs", usage: "tabs", help: "list settings tabs", run: (*Console).tabs},
		{name: "open", usage: "open <path>", help: "open a console section", run: (*Console).open},
		{name: "status", usage: "status", help: "show API reachability", run: (*Console).status},
		{name: "products", usage: "products", help: "list products", allowed: canViewInventory, run: (*Console).listProducts},
		{name: "categories", usage: "categories", help: "list product categories", allowed: canViewInventory, run: (*Console).listCategories},
		{name: "customers", usage: "customers", help: "list active customers", allowed: canViewCustomers, run: (*Console).listCustomers},
		{name: "movements", usage: "movements <n|sku>", help: "show stock history of a product", allowed: canViewMovements, run: (*Console).movements},
		{name: "history", usage: "history <n>", help: "show purchases of a customer", allowed: canViewHistory, run: (*Console).history},
		{name: "adjust", usage: "adjust <n|sku> <add|remove> <quantity> <reason>", help: "adjust stock of a product", allowed: canAdjustStock, run: (*Console).adjust},
		{name: "new", usage: "new", help: "start a sale", allowed: canSell, run: (*Console).newSale},
		{name: "close", usage: "close", help: "discard the open sale", allowed: canSell, run: (*Console).closeSale},
		{name: "search", usage: "search <name|sku|barcode>", help: "find products for the sale", allowed: canSell, run: (*Console).search},
		{name: "add", usage: "add <n|sku>", help: "add a product to the cart", allowed: canSell, run: (*Console).add},
		{name: "qty", usage: "qty <line|sku> <delta>", help: "change a line quantity", allowed: canSell, run: (*Console).qty},
		{name: "remove", usage: "remove <line|sku>", help: "remove a cart line", allowed: canSell, run: (*Console).remove},
		{name: "discount", usage: "discount <amount>", help: "set the sale discount", allowed: canSell, run: (*Console).discount},
		{name: "tax", usage: "tax <amount>", help: "set the sale tax", allowed: canSell, run: (*Console).tax},
		{name: "pay", usage: "pay <cash|card|transfer|other>", help: "set the payment method", allowed: canSell, run: (*Console).pay},
		{name: "customer", usage: "customer <n|none>", help: "attach a customer", allowed: canSell, run: (*Console).customer},
		{name: "notes", usage: "notes <text>", help: "set sale notes, empty to clear", allowed: canSell, run: (*Console).notes},
		{name: "cart", usage: "cart", help: "show the cart and totals", allowed: canSell, run: (*Console).cart},
		{name: "submit", usage: "submit", help: "record the sale", allowed: canSell, ownDeadline: true, run: (*Console).submit},
		{name: "sales", usage: "sales [page]", help: "list recorded sales", allowed: canViewSales, run: (*Console).listSales},
		{name: "sale", usage: "sale <n>", help: "show a sale with its items", allowed: canViewSales, run: (*Console).showSale},
		{name: "cancel", usage: "cancel <n> <reason>", help: "cancel a completed sale", allowed: canViewSales, run: (*Console).cancelSale},
		{name: "logout", usage: "logout", help: "sign out and exit", run: (*Console).logout},
		{name: "quit", usage: "quit", help: "exit", run: (*Console).quit},
	}
}

func canViewInventory(c *Console) bool {
	return c.deps.Gate.Check(c.deps.Identity, access.PathInventory).Allowed
}

func canViewCustomers(c *Console) bool {
	return c.deps.Gate.Check(c.deps.Identity, access.PathCustomers).Allowed
}

func canViewSales(c *Console) bool {
	return c.deps.Gate.Check(c.deps.Identity, access.PathSales).Allowed
}

func canViewMovements(c *Console) bool {
	return canViewInventory(c) && access.Offers(access.ProductActions(c.deps.Identity), access.ActionMovements)
}

func canViewHistory(c *Console) bool {
	return canViewCustomers(c) && access.Offers(access.CustomerActions(c.deps.Identity), access.ActionHistory)
}

func canSell(c *Console) bool {
	return canViewSales(c) && access.CanCreateSale(c.deps.Identity)
}

func canAdjustStock(c *Console) bool {
	return canViewInventory(c) && access.CanAdjustStock(c.deps.Identity)
}

func (c *Console) help(context.Context, []string, string) error {
	rows := make([][]string, 0, len(c.order))
	for _, name := range c.order {
		cmd := c.commands[name]
		if cmd.allowed != nil && !cmd.allowed(c) {
			continue
		}
		rows = append(rows, []string{cmd.usage, cmd.help})
	}
	c.table(nil, rows)
	return nil
}

func (c *Console) whoami(context.Context, []string, string) error {
	u := c.deps.Identity.User()
	if u == nil {
		c.println("Not signed in.")
		return nil
	}
	name, _ := role.NameOf(c.deps.Identity)
	rows := [][]string{
		{"Email", u.Email},
		{"Name", strings.TrimSpace(u.FirstName + " " + u.LastName)},
		{"Role", name},
	}
	if o := c.deps.Identity.Organization(); o != nil {
		rows = append(rows, []string{"Organization", o.Name + " (" + o.Slug + ")"})
	}
	c.table(nil, rows)
	return nil
}

func (c *Console) nav(context.Context, []string, string) error {
	var rows [][]string
	for _, item := range c.deps.Gate.NavItems(c.deps.Identity) {
		rows = append(rows, []string{item.Title, item.Path})
	}
	c.table(nil, rows)
	return nil
}

func (c *Console) tabs(context.Context, []string, string) error {
	var rows [][]string
	for _, t := range access.SettingsTabs(c.deps.Identity) {
		rows = append(rows, []string{t.Value, t.Title})
	}
	c.table(nil, rows)
	return nil
}

func (c *Console) open(_ context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	target := args[0]
	if d := c.deps.Gate.Check(c.deps.Identity, target); !d.Allowed {
		target = d.Redirect
	}
	c.printf("Opened %s\n", target)
	return nil
}

func (c *Console) status(context.Context, []string, string) error {
	if c.deps.Health == nil {
		c.println("No health checks configured.")
		return nil
	}
	rows := make([][]string, 0)
	for _, s := range c.deps.Health.Status() {
		state := "up"
		if !s.Healthy {
			state = "down"
		}
		checked := "never"
		if !s.CheckedAt.IsZero() {
			checked = s.CheckedAt.Format("15:04:05")
		}
		rows = append(rows, []string{s.Name, state, checked, s.Error})
	}
	if c.deps.Health.Healthy() {
		c.println("API reachable.")
	} else {
		c.println("API unreachable. Sales may fail until it recovers.")
	}
	c.table([]string{"CHECK", "STATE", "CHECKED", "ERROR"}, rows)
	return nil
}

func (c *Console) listProducts(ctx context.Context, _ []string, _ string) error {
	products, err := c.loadProducts(ctx)
	if err != nil {
		return err
	}
	c.products = products
	c.printProducts(products)
	return nil
}

func (c *Console) listCategories(ctx context.Context, _ []string, _ string) error {
	categories, err := c.loadCategories(ctx)
	if err != nil {
		return err
	}
	c.printCategories(categories)
	return nil
}

func (c *Console) listCustomers(ctx context.Context, _ []string, _ string) error {
	customers, err := c.loadCustomers(ctx)
	if err != nil {
		return err
	}
	c.customers = customers
	c.printCustomers(customers)
	return nil
}

func (c *Console) adjust(ctx context.Context, args []string, rest string) error {
	if len(args) < 4 {
		return errBadArgs
	}
	products, err := c.catalog(ctx)
	if err != nil {
		return err
	}
	p, ok := pick(products, args[0])
	if !ok {
		c.printf("No product %q. Type products to list them.\n", args[0])
		return nil
	}

	updated, err := c.deps.Stock.Adjust(ctx, p, product.AdjustmentForm{
		Type:     product.AdjustmentType(strings.ToLower(args[1])),
		Quantity: args[2],
		Reason:   tail(rest, 3),
	})
	if err != nil {
		return err
	}
	c.products = nil
	c.printf("%s stock is now %d\n", updated.SKU, updated.StockQuantity)
	return nil
}

func (c *Console) newSale(ctx context.Context, _ []string, _ string) error {
	if err := c.loadCatalog(ctx); err != nil {
		return err
	}
	if err := c.deps.Submission.Open(); err != nil {
		return err
	}
	c.found = nil
	c.printf("Sale opened. %d products and %d customers available.\n", len(c.products), len(c.customers))
	return nil
}

func (c *Console) closeSale(context.Context, []string, string) error {
	if err := c.deps.Submission.Close(); err != nil {
		return err
	}
	c.found = nil
	c.println("Sale discarded.")
	return nil
}

func (c *Console) search(ctx context.Context, _ []string, rest string) error {
	if !c.deps.Submission.IsOpen() {
		return sale.ErrDialogClosed
	}
	if rest == "" {
		return errBadArgs
	}
	products, err := c.catalog(ctx)
	if err != nil {
		return err
	}
	c.found = product.Search(products, rest, searchLimit)
	if len(c.found) == 0 {
		c.println("No products found.")
		return nil
	}
	c.printProducts(c.found)
	return nil
}

func (c *Console) add(ctx context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	if !c.deps.Submission.IsOpen() {
		return sale.ErrDialogClosed
	}
	p, ok := pick(c.found, args[0])
	if !ok {
		products, err := c.catalog(ctx)
		if err != nil {
			return err
		}
		p, ok = bySKU(products, args[0])
	}
	if !ok || !p.IsActive {
		c.printf("No product %q. Search first, then add by number or SKU.\n", args[0])
		return nil
	}
	if err := c.deps.Submission.AddItem(p); err != nil {
		return err
	}
	c.printCart()
	return nil
}

func (c *Console) qty(_ context.Context, args []string, _ string) error {
	if len(args) != 2 {
		return errBadArgs
	}
	id, ok := c.cartLine(args[0])
	if !ok {
		c.printf("No cart line %q.\n", args[0])
		return nil
	}
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return errBadArgs
	}
	if err := c.deps.Submission.UpdateQuantity(id, delta); err != nil {
		return err
	}
	c.printCart()
	return nil
}

func (c *Console) remove(_ context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	id, ok := c.cartLine(args[0])
	if !ok {
		c.printf("No cart line %q.\n", args[0])
		return nil
	}
	if err := c.deps.Submission.RemoveItem(id); err != nil {
		return err
	}
	c.printCart()
	return nil
}

func (c *Console) discount(_ context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	return c.updateForm(func(f *sale.Form) { f.Discount = args[0] })
}

func (c *Console) tax(_ context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	return c.updateForm(func(f *sale.Form) { f.Tax = args[0] })
}

func (c *Console) pay(_ context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	method := sale.PaymentMethod(strings.ToLower(args[0]))
	return c.updateForm(func(f *sale.Form) { f.PaymentMethod = method })
}

func (c *Console) customer(_ context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	if strings.EqualFold(args[0], "none") {
		return c.updateForm(func(f *sale.Form) { f.CustomerID = "" })
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(c.customers) {
		c.printf("No customer %q. Type customers to list them.\n", args[0])
		return nil
	}
	id := c.customers[n-1].ID.String()
	return c.updateForm(func(f *sale.Form) { f.CustomerID = id })
}

func (c *Console) notes(_ context.Context, _ []string, rest string) error {
	return c.updateForm(func(f *sale.Form) { f.Notes = rest })
}

func (c *Console) updateForm(fn func(f *sale.Form)) error {
	if err := c.deps.Submission.UpdateForm(fn); err != nil {
		return err
	}
	c.printCart()
	return nil
}

func (c *Console) cart(context.Context, []string, string) error {
	if !c.deps.Submission.IsOpen() {
		return sale.ErrDialogClosed
	}
	c.printCart()
	return nil
}

func (c *Console) submit(ctx context.Context, _ []string, _ string) error {
	s, err := c.deps.Submission.Submit(ctx)
	if err != nil {
		return err
	}
	c.found = nil
	c.products = nil
	c.sales = nil
	c.printf("Sale %s recorded. Total %s\n", s.InvoiceNumber, s.Total.StringFixed(2))
	return nil
}

func (c *Console) listSales(ctx context.Context, args []string, _ string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return errBadArgs
		}
		page = n
	}
	res, err := c.loadSales(ctx, page)
	if err != nil {
		return err
	}
	c.sales = res.Items
	c.printSales(res.Items, res.Count, page)
	return nil
}

func (c *Console) showSale(ctx context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errBadArgs
	}
	if n < 1 || n > len(c.sales) {
		c.printf("No sale %d. Type sales to list them.\n", n)
		return nil
	}
	listed := c.sales[n-1]
	if !access.Offers(access.SaleActions(c.deps.Identity, listed), access.ActionView) {
		c.printf("Sale %s has no detail view.\n", listed.InvoiceNumber)
		return nil
	}
	s, err := c.loadSale(ctx, listed.ID)
	if err != nil {
		return err
	}
	if s == nil {
		return errors.Wrap(sale.ErrNotFound, listed.ID.String())
	}
	c.printSale(*s)
	return nil
}

func (c *Console) movements(ctx context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	products, err := c.catalog(ctx)
	if err != nil {
		return err
	}
	p, ok := pick(products, args[0])
	if !ok {
		c.printf("No product %q. Type products to list them.\n", args[0])
		return nil
	}
	res, err := c.loadMovements(ctx, p.ID)
	if err != nil {
		return err
	}
	c.printf("%s %s, stock %d\n", p.SKU, p.Name, p.StockQuantity)
	c.printMovements(res.Items)
	return nil
}

func (c *Console) history(ctx context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errBadArgs
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errBadArgs
	}
	if n < 1 || n > len(c.customers) {
		c.printf("No customer %d. Type customers to list them.\n", n)
		return nil
	}
	cu := c.customers[n-1]
	res, err := c.loadHistory(ctx, cu.ID)
	if err != nil {
		return err
	}
	// Rows now refer to this listing for sale and cancel.
	c.sales = res.Items
	c.printf("Purchases of %s\n", cu.DisplayName())
	c.printSales(res.Items, res.Count, 1)
	return nil
}

func (c *Console) cancelSale(ctx context.Context, args []string, rest string) error {
	if len(args) < 1 {
		return errBadArgs
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errBadArgs
	}
	if n < 1 || n > len(c.sales) {
		c.printf("No sale %d. Type sales to list them.\n", n)
		return nil
	}
	s := c.sales[n-1]
	if !access.CanCancelSale(c.deps.Identity, s) {
		c.printf("Sale %s has no cancel action.\n", s.InvoiceNumber)
		return nil
	}

	cancelled, err := c.deps.Cancel.Cancel(ctx, s, sale.CancelForm{Reason: tail(rest, 1)})
	if err != nil {
		return err
	}
	c.sales[n-1] = *cancelled
	c.products = nil
	c.printf("Sale %s cancelled.\n", cancelled.InvoiceNumber)
	return nil
}

func (c *Console) logout(context.Context, []string, string) error {
	c.deps.Identity.Logout()
	c.reset()
	c.done = true
	c.println("Signed out.")
	return nil
}

func (c *Console) quit(context.Context, []string, string) error {
	c.done = true
	return nil
}

func (c *Console) reset() {
	c.found = nil
	c.products = nil
	c.customers = nil
	c.sales = nil
}

// cartLine resolves a 1-based line number or SKU to a product id.
func (c *Console) cartLine(ref string) (uuid.UUID, bool) {
	lines := c.deps.Submission.Cart().Lines()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(lines) {
			return uuid.Nil, false
		}
		return lines[n-1].ProductID, true
	}
	for _, l := range lines {
		if strings.EqualFold(l.SKU, ref) {
			return l.ProductID, true
		}
	}
	return uuid.Nil, false
}

// pick resolves a 1-based row number or SKU within products.
func pick(products []product.Product, ref string) (product.Product, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(products) {
			return product.Product{}, false
		}
		return products[n-1], true
	}
	return bySKU(products, ref)
}

func bySKU(products []product.Product, sku string) (product.Product, bool) {
	for _, p := range products {
		if strings.EqualFold(p.SKU, sku) {
			return p, true
		}
	}
	return product.Product{}, false
}

// tail drops the first n words of s.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	for range n {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			return ""
		}
		s = strings.TrimSpace(s[i:])
	}
	return s
}
