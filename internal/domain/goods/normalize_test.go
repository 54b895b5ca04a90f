package goods_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
)

func testSelections() goods.Selections {
	return goods.Selections{
		goods.EraBronzeAge: {
			Primary:   "spinner",    // wool
			Secondary: "stonemason", // alabaster_idol
			Tertiary:  "smith",      // bronze_bracelet
		},
		goods.EraMinoanEra: {
			Primary:   "shepherd", // wool again, different era
			Secondary: "presser",  // olive_oil
			Tertiary:  "armorer",  // spears
		},
	}
}

func TestToSlot_SuffixDrivenMapping(t *testing.T) {
	// Arrange
	sel := testSelections()

	// Act
	slot, ok := goods.ToSlot("wool_BA", sel)

	// Assert
	require.True(t, ok)
	assert.Equal(t, goods.PriorityPrimary, slot.Priority)
	assert.Equal(t, goods.EraBronzeAge, slot.Era)
	assert.Equal(t, "Primary_BA", slot.String())
}

func TestToSlot_SameGoodDifferentEras(t *testing.T) {
	// Both eras produce wool; the era suffix decides which slot it fills.
	sel := testSelections()

	baSlot, ok := goods.ToSlot("wool_BA", sel)
	require.True(t, ok)
	meSlot, ok := goods.ToSlot("wool_ME", sel)
	require.True(t, ok)

	assert.Equal(t, goods.EraBronzeAge, baSlot.Era)
	assert.Equal(t, goods.EraMinoanEra, meSlot.Era)
	assert.Equal(t, goods.PriorityPrimary, baSlot.Priority)
	assert.Equal(t, goods.PriorityPrimary, meSlot.Priority)
}

func TestToSlot_UnselectedWorkshopStaysRaw(t *testing.T) {
	// Arrange: ME selection does not produce spears via any chosen workshop
	sel := goods.Selections{
		goods.EraMinoanEra: {Primary: "shepherd", Secondary: "presser"},
	}

	// Act
	_, ok := goods.ToSlot("spears_ME", sel)

	// Assert
	assert.False(t, ok)
}

func TestToSlot_NoEraSuffix(t *testing.T) {
	sel := testSelections()

	_, ok := goods.ToSlot("wool", sel)
	assert.False(t, ok)

	_, ok = goods.ToSlot("deben", sel)
	assert.False(t, ok)
}

func TestFromSlot_ResolvesSelection(t *testing.T) {
	// Arrange
	sel := testSelections()

	// Act
	name, ok := goods.FromSlot(goods.Slot{Priority: goods.PrioritySecondary, Era: goods.EraBronzeAge}, sel)

	// Assert
	require.True(t, ok)
	assert.Equal(t, "alabaster_idol_BA", name)
}

func TestFromSlot_UnconfiguredEra(t *testing.T) {
	sel := testSelections()

	_, ok := goods.FromSlot(goods.Slot{Priority: goods.PriorityPrimary, Era: goods.EraFeudalAge}, sel)
	assert.False(t, ok)
}

func TestSlotRoundTrip(t *testing.T) {
	// ToSlot and FromSlot are inverses under a fixed selection.
	sel := testSelections()

	for _, name := range []string{"wool_BA", "alabaster_idol_BA", "olive_oil_ME"} {
		slot, ok := goods.ToSlot(name, sel)
		require.True(t, ok, name)

		back, ok := goods.FromSlot(slot, sel)
		require.True(t, ok, name)
		assert.Equal(t, name, back)
	}
}

func TestParseSlot(t *testing.T) {
	slot, ok := goods.ParseSlot("Primary_BA")
	require.True(t, ok)
	assert.Equal(t, goods.PriorityPrimary, slot.Priority)
	assert.Equal(t, goods.EraBronzeAge, slot.Era)

	_, ok = goods.ParseSlot("wool_BA")
	assert.False(t, ok)

	_, ok = goods.ParseSlot("Primary_XX")
	assert.False(t, ok)
}
