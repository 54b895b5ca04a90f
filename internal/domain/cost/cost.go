package cost

import "fmt"

// Kind discriminates the two cost variants found in parsed wiki rows:
// a plain scalar resource amount, or a list of goods under the reserved
// "goods" key.
type Kind int

const (
	KindScalar Kind = iota
	KindGoods
)

// GoodAmount is a single entry of a goods list.
type GoodAmount struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// Cost is a tagged variant: either Scalar(name, amount) or Goods(list).
// The zero value is an empty scalar and should not be used directly;
// construct costs with Scalar or Goods.
type Cost struct {
	kind   Kind
	name   string
	amount float64
	goods  []GoodAmount
}

// Scalar creates a scalar cost for a named resource.
func Scalar(name string, amount float64) Cost {
	return Cost{kind: KindScalar, name: name, amount: amount}
}

// Goods creates a goods-list cost.
func Goods(items ...GoodAmount) Cost {
	goods := make([]GoodAmount, len(items))
	copy(goods, items)
	return Cost{kind: KindGoods, goods: goods}
}

// Kind returns the variant tag.
func (c Cost) Kind() Kind {
	return c.kind
}

// Name returns the resource name of a scalar cost. It is empty for goods lists.
func (c Cost) Name() string {
	return c.name
}

// Amount returns the amount of a scalar cost. It is zero for goods lists.
func (c Cost) Amount() float64 {
	return c.amount
}

// Goods returns a copy of the goods list. It is nil for scalar costs.
func (c Cost) Goods() []GoodAmount {
	if c.kind != KindGoods {
		return nil
	}
	goods := make([]GoodAmount, len(c.goods))
	copy(goods, c.goods)
	return goods
}

// Scale returns the cost multiplied by factor.
func (c Cost) Scale(factor float64) Cost {
	switch c.kind {
	case KindScalar:
		return Scalar(c.name, c.amount*factor)
	case KindGoods:
		scaled := make([]GoodAmount, len(c.goods))
		for i, g := range c.goods {
			scaled[i] = GoodAmount{Type: g.Type, Amount: g.Amount * factor}
		}
		return Cost{kind: KindGoods, goods: scaled}
	default:
		panic(fmt.Sprintf("unknown cost kind: %d", c.kind))
	}
}

// List is the ordered cost list of one entity.
type List []Cost

// Scale returns a copy of the list with every entry multiplied by factor.
func (l List) Scale(factor float64) List {
	scaled := make(List, len(l))
	for i, c := range l {
		scaled[i] = c.Scale(factor)
	}
	return scaled
}

// Merge returns a new list with the entries of other appended.
func (l List) Merge(other List) List {
	merged := make(List, 0, len(l)+len(other))
	merged = append(merged, l...)
	merged = append(merged, other...)
	return merged
}
