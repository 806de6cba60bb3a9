package client

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/xenking/orbit-console/internal/domain/customer"
	"github.com/xenking/orbit-console/internal/domain/product"
)

var (
	_ product.Provider         = (*ProductsAPI)(nil)
	_ product.Adjuster         = (*ProductsAPI)(nil)
	_ product.MovementLister   = (*ProductsAPI)(nil)
	_ product.CategoryProvider = (*CategoriesAPI)(nil)
	_ customer.Provider        = (*CustomersAPI)(nil)
)

// ProductsAPI covers /products.
type ProductsAPI struct{ c *Client }

// Products returns the product endpoints.
func (c *Client) Products() *ProductsAPI { return &ProductsAPI{c: c} }

// List returns one page of products.
func (a *ProductsAPI) List(ctx context.Context, page product.Page) (product.ListResult[product.Product], error) {
	var out product.ListResult[product.Product]
	err := a.c.do(ctx, "products.list", request{
		method: http.MethodGet,
		path:   "/products/",
		query:  pageQuery(page),
	}, func(d *jx.Decoder) error {
		var err error
		out, err = decodeList(d, decodeProduct)
		return err
	})
	return out, err
}

// Adjust applies a signed stock adjustment.
func (a *ProductsAPI) Adjust(ctx context.Context, id uuid.UUID, adj product.StockAdjustment) (*product.Product, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("quantity")
	e.Int(adj.Quantity)
	e.FieldStart("reason")
	e.Str(adj.Reason)
	e.ObjEnd()

	var out product.Product
	err := a.c.do(ctx, "products.adjust_stock",
		jsonRequest(http.MethodPost, "/products/"+id.String()+"/adjust-stock", &e),
		func(d *jx.Decoder) error {
			var err error
			out, err = decodeProduct(d)
			return err
		})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Movements returns one page of the stock history of a product.
func (a *ProductsAPI) Movements(ctx context.Context, id uuid.UUID, page product.Page) (product.ListResult[product.Movement], error) {
	var out product.ListResult[product.Movement]
	err := a.c.do(ctx, "products.movements", request{
		method: http.MethodGet,
		path:   "/products/" + id.String() + "/movements",
		query:  pageQuery(page),
	}, func(d *jx.Decoder) error {
		var err error
		out, err = decodeList(d, decodeMovement)
		return err
	})
	if isStatus(err, http.StatusNotFound) {
		return out, errors.Wrap(product.ErrNotFound, id.String())
	}
	return out, err
}

func decodeMovement(d *jx.Decoder) (product.Movement, error) {
	var m product.Movement
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			m.ID, err = decodeUUID(d)
		case "product_id":
			m.ProductID, err = decodeUUID(d)
		case "movement_type":
			var v string
			v, err = d.Str()
			m.Type = product.MovementType(v)
		case "quantity":
			m.Quantity, err = d.Int()
		case "previous_stock":
			m.PreviousStock, err = d.Int()
		case "new_stock":
			m.NewStock, err = d.Int()
		case "reason":
			m.Reason, err = decodeOptStr(d)
		case "created_at":
			m.CreatedAt, err = decodeTime(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return m, err
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			p.ID, err = decodeUUID(d)
		case "sku":
			p.SKU, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "barcode":
			p.Barcode, err = decodeStr(d)
		case "sale_price":
			p.SalePrice, err = decodeDecimal(d)
		case "stock_quantity":
			p.StockQuantity, err = d.Int()
		case "stock_min":
			p.StockMin, err = d.Int()
		case "is_active":
			p.IsActive, err = d.Bool()
		case "category_id":
			p.CategoryID, err = decodeOptUUID(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

// CategoriesAPI covers /categories.
type CategoriesAPI struct{ c *Client }

// Categories returns the category endpoints.
func (c *Client) Categories() *CategoriesAPI { return &CategoriesAPI{c: c} }

// List returns one page of categories.
func (a *CategoriesAPI) List(ctx context.Context, page product.Page) (product.ListResult[product.Category], error) {
	var out product.ListResult[product.Category]
	err := a.c.do(ctx, "categories.list", request{
		method: http.MethodGet,
		path:   "/categories/",
		query:  pageQuery(page),
	}, func(d *jx.Decoder) error {
		var err error
		out, err = decodeList(d, decodeCategory)
		return err
	})
	return out, err
}

func decodeCategory(d *jx.Decoder) (product.Category, error) {
	var c product.Category
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			c.ID, err = decodeUUID(d)
		case "name":
			c.Name, err = d.Str()
		case "description":
			c.Description, err = decodeStr(d)
		case "is_active":
			c.IsActive, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return c, err
}

// CustomersAPI covers /customers.
type CustomersAPI struct{ c *Client }

// Customers returns the customer endpoints.
func (c *Client) Customers() *CustomersAPI { return &CustomersAPI{c: c} }

// List returns one page of customers.
func (a *CustomersAPI) List(ctx context.Context, page product.Page) (product.ListResult[customer.Customer], error) {
	var out product.ListResult[customer.Customer]
	err := a.c.do(ctx, "customers.list", request{
		method: http.MethodGet,
		path:   "/customers/",
		query:  pageQuery(page),
	}, func(d *jx.Decoder) error {
		var err error
		out, err = decodeList(d, decodeCustomer)
		return err
	})
	return out, err
}

func decodeCustomer(d *jx.Decoder) (customer.Customer, error) {
	var c customer.Customer
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			c.ID, err = decodeUUID(d)
		case "first_name":
			c.FirstName, err = decodeStr(d)
		case "last_name":
			c.LastName, err = decodeStr(d)
		case "email":
			c.Email, err = decodeStr(d)
		case "phone":
			c.Phone, err = decodeStr(d)
		case "document_number":
			c.DocumentNumber, err = decodeStr(d)
		case "is_active":
			c.IsActive, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return c, err
}
