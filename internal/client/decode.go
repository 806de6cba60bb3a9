package client

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/orbit-console/internal/domain/product"
)

// parseDetail extracts FastAPI's "detail", which is either a string or a
// list of {loc, msg, type} validation errors.
func parseDetail(status int, data []byte) string {
	var parts []string
	d := jx.DecodeBytes(data)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "detail" {
			return d.Skip()
		}
		switch d.Next() {
		case jx.String:
			s, err := d.Str()
			if err != nil {
				return err
			}
			parts = append(parts, s)
			return nil
		case jx.Array:
			return d.Arr(func(d *jx.Decoder) error {
				return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
					if string(key) != "msg" {
						return d.Skip()
					}
					s, err := d.Str()
					if err != nil {
						return err
					}
					parts = append(parts, s)
					return nil
				})
			})
		default:
			return d.Skip()
		}
	})
	if err != nil || len(parts) == 0 {
		if text := strings.TrimSpace(string(data)); text != "" && len(text) < 200 && err != nil {
			return text
		}
		return statusText(status)
	}
	return strings.Join(parts, "; ")
}

func statusText(status int) string {
	switch status {
	case 401:
		return "not authenticated"
	case 403:
		return "not enough permissions"
	case 404:
		return "not found"
	default:
		return "unexpected response"
	}
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(n.String())
	case jx.Null:
		return decimal.Zero, d.Null()
	default:
		return decimal.Zero, errors.Errorf("unexpected %s for decimal", d.Next())
	}
}

func decodeUUID(d *jx.Decoder) (uuid.UUID, error) {
	s, err := d.Str()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(s)
}

func decodeOptUUID(d *jx.Decoder) (*uuid.UUID, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	id, err := decodeUUID(d)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func decodeOptStr(d *jx.Decoder) (*string, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// decodeStr reads a string, treating null as empty.
func decodeStr(d *jx.Decoder) (string, error) {
	s, err := decodeOptStr(d)
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("parse time %q", s)
}

// decodeList reads the {data, count} envelope of list endpoints.
func decodeList[T any](d *jx.Decoder, item func(d *jx.Decoder) (T, error)) (product.ListResult[T], error) {
	var out product.ListResult[T]
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "data":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := item(d)
				if err != nil {
					return err
				}
				out.Items = append(out.Items, v)
				return nil
			})
		case "count":
			n, err := d.Int()
			out.Count = n
			return err
		default:
			return d.Skip()
		}
	})
	return out, err
}
