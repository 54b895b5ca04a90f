package cost_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
)

func TestList_UnmarshalWikiShape(t *testing.T) {
	// Arrange
	data := []byte(`{"coins": 100, "food": 50, "goods": [{"type": "wool_BA", "amount": 5}]}`)

	// Act
	var list cost.List
	err := json.Unmarshal(data, &list)

	// Assert
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Scalar keys decode alphabetically, goods last
	assert.Equal(t, cost.KindScalar, list[0].Kind())
	assert.Equal(t, "coins", list[0].Name())
	assert.Equal(t, 100.0, list[0].Amount())

	assert.Equal(t, "food", list[1].Name())
	assert.Equal(t, 50.0, list[1].Amount())

	assert.Equal(t, cost.KindGoods, list[2].Kind())
	goods := list[2].Goods()
	require.Len(t, goods, 1)
	assert.Equal(t, "wool_BA", goods[0].Type)
	assert.Equal(t, 5.0, goods[0].Amount)
}

func TestList_MarshalWikiShape(t *testing.T) {
	// Arrange
	list := cost.List{
		cost.Scalar("coins", 100),
		cost.Goods(cost.GoodAmount{Type: "wool_BA", Amount: 5}),
	}

	// Act
	data, err := json.Marshal(list)

	// Assert
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "coins")
	assert.Contains(t, decoded, "goods")
	assert.NotContains(t, decoded, "wool_BA")
}

func TestList_MarshalSumsDuplicateScalars(t *testing.T) {
	// Arrange
	list := cost.List{
		cost.Scalar("coins", 100),
		cost.Scalar("coins", 50),
	}

	// Act
	data, err := json.Marshal(list)

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, `{"coins": 150}`, string(data))
}

func TestList_RoundTrip(t *testing.T) {
	// Arrange
	original := cost.List{
		cost.Scalar("coins", 300),
		cost.Scalar("deben", 25),
		cost.Goods(
			cost.GoodAmount{Type: "wool_BA", Amount: 15},
			cost.GoodAmount{Type: "alabaster_idol_BA", Amount: 3},
		),
	}

	// Act
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded cost.List
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Assert
	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestList_Scale(t *testing.T) {
	// Arrange
	list := cost.List{
		cost.Scalar("coins", 100),
		cost.Goods(cost.GoodAmount{Type: "wool_BA", Amount: 5}),
	}

	// Act
	scaled := list.Scale(3)

	// Assert
	assert.Equal(t, 300.0, scaled[0].Amount())
	assert.Equal(t, 15.0, scaled[1].Goods()[0].Amount)

	// Original is untouched
	assert.Equal(t, 100.0, list[0].Amount())
	assert.Equal(t, 5.0, list[1].Goods()[0].Amount)
}

func TestList_Merge(t *testing.T) {
	// Arrange
	a := cost.List{cost.Scalar("coins", 100)}
	b := cost.List{cost.Scalar("food", 50)}

	// Act
	merged := a.Merge(b)

	// Assert
	require.Len(t, merged, 2)
	assert.Equal(t, "coins", merged[0].Name())
	assert.Equal(t, "food", merged[1].Name())
	assert.Len(t, a, 1)
}
