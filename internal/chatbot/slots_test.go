package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableSlotsNoneBooked(t *testing.T) {
	free := AvailableSlots(nil)
	require.Len(t, free, 4)
	for i, slot := range free {
		assert.Equal(t, i+1, slot.Ordinal)
	}
	assert.Equal(t, "9:00 AM", free[0].Display)
	assert.Equal(t, "4:00 PM", free[3].Display)
}

func TestAvailableSlotsFiltersBookedPreservingOrder(t *testing.T) {
	free := AvailableSlots([]string{"11:00 AM", "9:00 AM"})
	require.Len(t, free, 2)
	assert.Equal(t, "2:00 PM", free[0].Display)
	assert.Equal(t, "4:00 PM", free[1].Display)
}

func TestAvailableSlotsEmptyOnlyWhenAllBooked(t *testing.T) {
	all := []string{"9:00 AM", "11:00 AM", "2:00 PM", "4:00 PM"}
	assert.Empty(t, AvailableSlots(all))

	// A booked time outside the catalog does not hide anything.
	free := AvailableSlots([]string{"8:00 AM"})
	assert.Len(t, free, 4)
}

func TestAvailableSlotsIgnoresUnknownBookings(t *testing.T) {
	free := AvailableSlots([]string{"9:00 AM", "noon"})
	require.Len(t, free, 3)
	assert.Equal(t, "11:00 AM", free[0].Display)
}

func TestDisplayToStorage(t *testing.T) {
	cases := map[string]string{
		"9:00 AM":  "09:00:00",
		"11:00 AM": "11:00:00",
		"2:00 PM":  "14:00:00",
		"4:00 PM":  "16:00:00",
	}
	for display, want := range cases {
		got, err := DisplayToStorage(display)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := DisplayToStorage("25:00")
	assert.Error(t, err)
}

func TestStorageToDisplay(t *testing.T) {
	got, err := StorageToDisplay("14:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2:00 PM", got)

	_, err = StorageToDisplay("2pm")
	assert.Error(t, err)
}

func TestCatalogReturnsCopy(t *testing.T) {
	c := Catalog()
	c[0].Display = "mutated"
	assert.Equal(t, "9:00 AM", Catalog()[0].Display)
}
