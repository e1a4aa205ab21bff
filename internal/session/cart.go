package session

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// CartView is the computed, read-only rendering of a cart line.
type CartView struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// AddCartLine puts a product into the cart. Adding an already-present
// product increments its quantity; a new product snapshots the given name
// and unit price.
func (d *Data) AddCartLine(productID int64, name string, unitPrice string, quantity int) {
	key := strconv.FormatInt(productID, 10)
	if line, ok := d.Cart[key]; ok {
		line.Quantity += quantity
		d.Cart[key] = line
	} else {
		d.Cart[key] = CartLine{Name: name, UnitPrice: unitPrice, Quantity: quantity}
	}
	d.dirty = true
}

// RemoveCartLine deletes a cart entry. Removing an absent product is a
// silent no-op.
func (d *Data) RemoveCartLine(productID int64) (CartLine, bool) {
	key := strconv.FormatInt(productID, 10)
	line, ok := d.Cart[key]
	if ok {
		delete(d.Cart, key)
		d.dirty = true
	}
	return line, ok
}

// ClearCart empties the cart. Called once, after a checkout commits.
func (d *Data) ClearCart() {
	d.Cart = make(map[string]CartLine)
	d.dirty = true
}

// CartIsEmpty reports whether the cart has no lines.
func (d *Data) CartIsEmpty() bool { return len(d.Cart) == 0 }

// CartLines recomputes the per-line and grand totals on every call; the
// session holds only the raw snapshots.
func (d *Data) CartLines() ([]CartView, decimal.Decimal) {
	views := make([]CartView, 0, len(d.Cart))
	total := decimal.Zero
	for key, line := range d.Cart {
		id, _ := strconv.ParseInt(key, 10, 64)
		price, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			price = decimal.Zero
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		views = append(views, CartView{
			ProductID: id,
			Name:      line.Name,
			UnitPrice: price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ProductID < views[j].ProductID })
	return views, total
}
