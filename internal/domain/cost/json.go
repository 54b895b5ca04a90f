package cost

import (
	"encoding/json"
	"fmt"
	"sort"
)

// goodsKey is the one reserved key in the wiki cost shape. Every other key
// is a scalar resource amount.
const goodsKey = "goods"

// MarshalJSON encodes the list in the wiki shape:
// {"coins": 100, "goods": [{"type": "wool_BA", "amount": 5}]}
// Scalar entries with the same name are summed into one key.
func (l List) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{})
	var goods []GoodAmount

	for _, c := range l {
		switch c.Kind() {
		case KindScalar:
			if prev, ok := out[c.Name()].(float64); ok {
				out[c.Name()] = prev + c.Amount()
			} else {
				out[c.Name()] = c.Amount()
			}
		case KindGoods:
			goods = append(goods, c.goods...)
		default:
			return nil, fmt.Errorf("unknown cost kind: %d", c.Kind())
		}
	}

	if len(goods) > 0 {
		out[goodsKey] = goods
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the wiki cost shape. Scalar keys are ordered
// alphabetically so that decoding is deterministic; the goods list, if
// present, comes last.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode cost map: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		if name == goodsKey {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	list := make(List, 0, len(raw))
	for _, name := range names {
		var amount float64
		if err := json.Unmarshal(raw[name], &amount); err != nil {
			return fmt.Errorf("failed to decode cost %q: %w", name, err)
		}
		list = append(list, Scalar(name, amount))
	}

	if goodsRaw, ok := raw[goodsKey]; ok {
		var goods []GoodAmount
		if err := json.Unmarshal(goodsRaw, &goods); err != nil {
			return fmt.Errorf("failed to decode goods list: %w", err)
		}
		list = append(list, Goods(goods...))
	}

	*l = list
	return nil
}
