package console

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/orbit-console/internal/domain/customer"
	"github.com/xenking/orbit-console/internal/domain/product"
	"github.com/xenking/orbit-console/internal/domain/sale"
	"github.com/xenking/orbit-console/internal/querycache"
)

func variant(p product.Page) string {
	return fmt.Sprintf("skip=%d&limit=%d", p.Skip, p.Limit)
}

func (c *Console) firstPage() product.Page {
	return product.Page{Limit: c.deps.PageSize}
}

func (c *Console) loadProducts(ctx context.Context) ([]product.Product, error) {
	page := c.firstPage()
	res, err := querycache.Get(ctx, c.deps.Cache, querycache.Products, variant(page),
		func(ctx context.Context) (product.ListResult[product.Product], error) {
			return c.deps.Products.List(ctx, page)
		})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Console) loadCategories(ctx context.Context) ([]product.Category, error) {
	page := c.firstPage()
	res, err := querycache.Get(ctx, c.deps.Cache, querycache.Categories, variant(page),
		func(ctx context.Context) (product.ListResult[product.Category], error) {
			return c.deps.Categories.List(ctx, page)
		})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Console) loadCustomers(ctx context.Context) ([]customer.Customer, error) {
	page := c.firstPage()
	res, err := querycache.Get(ctx, c.deps.Cache, querycache.Customers, variant(page),
		func(ctx context.Context) (product.ListResult[customer.Customer], error) {
			return c.deps.Customers.List(ctx, page)
		})
	if err != nil {
		return nil, err
	}
	return customer.Active(res.Items), nil
}

func (c *Console) loadSales(ctx context.Context, page int) (product.ListResult[sale.Sale], error) {
	p := product.Page{Skip: (page - 1) * c.deps.PageSize, Limit: c.deps.PageSize}
	return querycache.Get(ctx, c.deps.Cache, querycache.Sales, variant(p),
		func(ctx context.Context) (product.ListResult[sale.Sale], error) {
			return c.deps.Sales.List(ctx, p)
		})
}

// catalog returns the product listing, reloading it through the cache after
// a mutation dropped it.
func (c *Console) catalog(ctx context.Context) ([]product.Product, error) {
	if c.products == nil {
		products, err := c.loadProducts(ctx)
		if err != nil {
			return nil, err
		}
		c.products = products
	}
	return c.products, nil
}

// Detail and history reads live under the resource their mutations
// invalidate: a sale or cancellation moves stock and sales alike.

func (c *Console) loadSale(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	return querycache.Get(ctx, c.deps.Cache, querycache.Sales, "id="+id.String(),
		func(ctx context.Context) (*sale.Sale, error) {
			return c.deps.SaleDetail.Get(ctx, id)
		})
}

func (c *Console) loadMovements(ctx context.Context, id uuid.UUID) (product.ListResult[product.Movement], error) {
	page := c.firstPage()
	return querycache.Get(ctx, c.deps.Cache, querycache.Products, "movements="+id.String()+"&"+variant(page),
		func(ctx context.Context) (product.ListResult[product.Movement], error) {
			return c.deps.Movements.Movements(ctx, id, page)
		})
}

func (c *Console) loadHistory(ctx context.Context, customerID uuid.UUID) (product.ListResult[sale.Sale], error) {
	page := c.firstPage()
	return querycache.Get(ctx, c.deps.Cache, querycache.Sales, "customer="+customerID.String()+"&"+variant(page),
		func(ctx context.Context) (product.ListResult[sale.Sale], error) {
			return c.deps.History.ListByCustomer(ctx, customerID, page)
		})
}

// loadCatalog fetches what the sale dialog needs in parallel.
func (c *Console) loadCatalog(ctx context.Context) error {
	var (
		products  []product.Product
		customers []customer.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.loadProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = c.loadCustomers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	c.products = products
	c.customers = customers
	return nil
}
