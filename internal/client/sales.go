package client

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/xenking/orbit-console/internal/domain/product"
	"github.com/xenking/orbit-console/internal/domain/sale"
)

var (
	_ sale.Creator         = (*SalesAPI)(nil)
	_ sale.Canceller       = (*SalesAPI)(nil)
	_ sale.Lister          = (*SalesAPI)(nil)
	_ sale.Getter          = (*SalesAPI)(nil)
	_ sale.CustomerHistory = (*SalesAPI)(nil)
)

// SalesAPI covers /sales.
type SalesAPI struct{ c *Client }

// Sales returns the sale endpoints.
func (c *Client) Sales() *SalesAPI { return &SalesAPI{c: c} }

// Create records a sale in one request.
func (a *SalesAPI) Create(ctx context.Context, req sale.CreateRequest) (*sale.Sale, error) {
	var out sale.Sale
	err := a.c.do(ctx, "sales.create",
		jsonRequest(http.MethodPost, "/sales/", encodeCreateSale(req)),
		func(d *jx.Decoder) error {
			var err error
			out, err = decodeSale(d)
			return err
		})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel cancels a completed sale.
func (a *SalesAPI) Cancel(ctx context.Context, id uuid.UUID, reason string) (*sale.Sale, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("reason")
	e.Str(reason)
	e.ObjEnd()

	var out sale.Sale
	err := a.c.do(ctx, "sales.cancel",
		jsonRequest(http.MethodPost, "/sales/"+id.String()+"/cancel", &e),
		func(d *jx.Decoder) error {
			var err error
			out, err = decodeSale(d)
			return err
		})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of sales, newest first.
func (a *SalesAPI) List(ctx context.Context, page product.Page) (product.ListResult[sale.Sale], error) {
	var out product.ListResult[sale.Sale]
	err := a.c.do(ctx, "sales.list", request{
		method: http.MethodGet,
		path:   "/sales/",
		query:  pageQuery(page),
	}, func(d *jx.Decoder) error {
		var err error
		out, err = decodeList(d, decodeSale)
		return err
	})
	return out, err
}

// Get returns one sale with its items.
func (a *SalesAPI) Get(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var out sale.Sale
	err := a.c.do(ctx, "sales.get", request{
		method: http.MethodGet,
		path:   "/sales/" + id.String(),
	}, func(d *jx.Decoder) error {
		var err error
		out, err = decodeSale(d)
		return err
	})
	if isStatus(err, http.StatusNotFound) {
		return nil, errors.Wrap(sale.ErrNotFound, id.String())
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByCustomer returns one page of the sales of a customer, newest first.
func (a *SalesAPI) ListByCustomer(ctx context.Context, customerID uuid.UUID, page product.Page) (product.ListResult[sale.Sale], error) {
	var out product.ListResult[sale.Sale]
	err := a.c.do(ctx, "customers.sales", request{
		method: http.MethodGet,
		path:   "/customers/" + customerID.String() + "/sales",
		query:  pageQuery(page),
	}, func(d *jx.Decoder) error {
		var err error
		out, err = decodeList(d, decodeSale)
		return err
	})
	return out, err
}

// encodeCreateSale writes amounts as decimal strings so no precision is lost.
func encodeCreateSale(req sale.CreateRequest) *jx.Encoder {
	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("customer_id")
	if req.CustomerID != nil {
		e.Str(req.CustomerID.String())
	} else {
		e.Null()
	}
	e.FieldStart("payment_method")
	e.Str(string(req.PaymentMethod))
	e.FieldStart("discount")
	e.Str(req.Discount.StringFixed(2))
	e.FieldStart("tax")
	e.Str(req.Tax.StringFixed(2))
	e.FieldStart("notes")
	if req.Notes != nil {
		e.Str(*req.Notes)
	} else {
		e.Null()
	}
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range req.Items {
		e.ObjStart()
		e.FieldStart("product_id")
		e.Str(it.ProductID.String())
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
	return e
}

func decodeSale(d *jx.Decoder) (sale.Sale, error) {
	var s sale.Sale
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			s.ID, err = decodeUUID(d)
		case "invoice_number":
			s.InvoiceNumber, err = d.Str()
		case "customer_id":
			s.CustomerID, err = decodeOptUUID(d)
		case "subtotal":
			s.Subtotal, err = decodeDecimal(d)
		case "discount":
			s.Discount, err = decodeDecimal(d)
		case "tax":
			s.Tax, err = decodeDecimal(d)
		case "total":
			s.Total, err = decodeDecimal(d)
		case "payment_method":
			var v string
			v, err = d.Str()
			s.PaymentMethod = sale.PaymentMethod(v)
		case "status":
			var v string
			v, err = d.Str()
			s.Status = sale.Status(v)
		case "notes":
			s.Notes, err = decodeOptStr(d)
		case "cancellation_reason":
			s.CancellationReason, err = decodeOptStr(d)
		case "sale_date":
			s.SaleDate, err = decodeTime(d)
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				it, err := decodeSaleItem(d)
				if err != nil {
					return err
				}
				s.Items = append(s.Items, it)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return s, err
}

func decodeSaleItem(d *jx.Decoder) (sale.Item, error) {
	var it sale.Item
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			it.ID, err = decodeUUID(d)
		case "product_id":
			it.ProductID, err = decodeUUID(d)
		case "product_name":
			it.ProductName, err = d.Str()
		case "product_sku":
			it.ProductSKU, err = d.Str()
		case "quantity":
			it.Quantity, err = d.Int()
		case "unit_price":
			it.UnitPrice, err = decodeDecimal(d)
		case "subtotal":
			it.Subtotal, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return it, err
}
