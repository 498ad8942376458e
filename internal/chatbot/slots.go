package chatbot

import (
	"fmt"
	"time"
)

// Slot is one bookable time of day, identified by its 1-based position in the
// daily catalog and shown to users as a 12-hour display string.
type Slot struct {
	Ordinal int
	Display string
}

// slotCatalog is the fixed daily schedule. Order matters: availability lists
// and slot indexes presented to users follow it.
var slotCatalog = []Slot{
	{Ordinal: 1, Display: "9:00 AM"},
	{Ordinal: 2, Display: "11:00 AM"},
	{Ordinal: 3, Display: "2:00 PM"},
	{Ordinal: 4, Display: "4:00 PM"},
}

// Catalog returns a copy of the daily slot catalog.
func Catalog() []Slot {
	out := make([]Slot, len(slotCatalog))
	copy(out, slotCatalog)
	return out
}

// AvailableSlots returns the catalog entries whose display string is not in
// booked, preserving catalog order. Pure function of its inputs.
func AvailableSlots(booked []string) []Slot {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	var free []Slot
	for _, slot := range slotCatalog {
		if _, ok := taken[slot.Display]; !ok {
			free = append(free, slot)
		}
	}
	return free
}

// DisplayToStorage converts a display time ("9:00 AM") to the 24-hour
// HH:MM:SS form used by the appointment store.
func DisplayToStorage(display string) (string, error) {
	t, err := time.Parse("3:04 PM", display)
	if err != nil {
		return "", fmt.Errorf("chatbot: parse display time %q: %w", display, err)
	}
	return t.Format("15:04:05"), nil
}

// StorageToDisplay converts a stored HH:MM:SS time to its display form.
func StorageToDisplay(stored string) (string, error) {
	t, err := time.Parse("15:04:05", stored)
	if err != nil {
		return "", fmt.Errorf("chatbot: parse stored time %q: %w", stored, err)
	}
	return t.Format("3:04 PM"), nil
}
