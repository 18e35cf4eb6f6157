package workflow

import (
	"context"
	"strconv"

	"github.com/smenuberu/dashboard/internal/domain"
)

// Load fetches the slot and prefills the edit form. A missing slot yields
// domain.ErrNotFound.
func (f *ShiftFlow) Load(ctx context.Context, id string) (*domain.Slot, ShiftForm, error) {
	slot, err := f.backend.GetSlot(ctx, id)
	if err != nil {
		return nil, ShiftForm{}, err
	}

	form := ShiftForm{
		ObjectID:  slot.ObjectID,
		Title:     slot.Title,
		Dates:     []string{slot.Date},
		StartTime: clockTime(slot.StartTime),
		EndTime:   clockTime(slot.EndTime),
		Type:      slot.Type,
		Hot:       slot.Hot,
		Published: slot.Published,
	}
	if slot.Pay != nil && *slot.Pay > 0 {
		form.Pay = strconv.Itoa(*slot.Pay)
	}

	return slot, form, nil
}

// Update saves the edit form with a single partial update.
func (f *ShiftFlow) Update(ctx context.Context, id string, form ShiftForm) error {
	pay, err := f.Validate(&form)
	if err != nil {
		return err
	}
	if len(form.Dates) != 1 {
		return &ValidationError{Message: "Смена редактируется только на одну дату"}
	}

	return f.backend.UpdateSlot(ctx, id, domain.SlotPatch{
		ObjectID:  &form.ObjectID,
		Title:     &form.Title,
		Date:      &form.Dates[0],
		StartTime: &form.StartTime,
		EndTime:   &form.EndTime,
		Pay:       &pay,
		Type:      &form.Type,
		Hot:       &form.Hot,
		Published: &form.Published,
	})
}

func (f *ShiftFlow) Delete(ctx context.Context, id string) error {
	return f.backend.DeleteSlot(ctx, id)
}

// clockTime cuts "08:00:00" down to what a time input holds.
func clockTime(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
