package workflow

import (
	"context"
	"slices"
	"strings"

	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/smenuberu/dashboard/internal/utils"
)

type ShiftBackend interface {
	CreateSlot(ctx context.Context, in domain.SlotInput) (string, error)
	GetSlot(ctx context.Context, id string) (*domain.Slot, error)
	UpdateSlot(ctx context.Context, id string, patch domain.SlotPatch) error
	DeleteSlot(ctx context.Context, id string) error
}

// ShiftForm holds the raw form values. Published is only honoured on update.
type ShiftForm struct {
	ObjectID  string          `label:"Объект" validate:"required"`
	Title     string          `label:"Название смены" validate:"required"`
	Dates     []string        `label:"Даты" validate:"required,min=1,dive,datetime=2006-01-02"`
	StartTime string          `label:"Время начала" validate:"required,datetime=15:04"`
	EndTime   string          `label:"Время окончания" validate:"required,datetime=15:04"`
	Pay       string          `label:"Оплата" validate:"positive_amount"`
	Type      domain.SlotType `label:"Тип работы" validate:"oneof=driver picker loader cook waiter cleaner other"`
	Hot       bool
	Published bool
}

func (f *ShiftForm) normalize() {
	f.ObjectID = strings.TrimSpace(f.ObjectID)
	f.Title = strings.TrimSpace(f.Title)
	f.StartTime = strings.TrimSpace(f.StartTime)
	f.EndTime = strings.TrimSpace(f.EndTime)
	if f.Type == "" {
		f.Type = domain.SlotTypeOther
	}

	dates := make([]string, 0, len(f.Dates))
	for _, d := range f.Dates {
		if d = strings.TrimSpace(d); d != "" {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		f.Dates = nil
		return
	}
	slices.Sort(dates)
	f.Dates = slices.Compact(dates)
}

type BatchResult struct {
	CreatedIDs []string
	Dates      []string
}

type ShiftFlow struct {
	backend   ShiftBackend
	validator *utils.Validator
}

func NewShiftFlow(backend ShiftBackend, v *utils.Validator) *ShiftFlow {
	return &ShiftFlow{
		backend:   backend,
		validator: v,
	}
}

// Validate normalizes the form in place and returns the parsed pay.
func (f *ShiftFlow) Validate(form *ShiftForm) (int, error) {
	form.normalize()
	if err := f.validator.Struct(form); err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}

	pay, err := utils.ParsePay(form.Pay)
	if err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}

	return pay, nil
}

// CreateBatch creates one slot per distinct date, in ascending date order,
// one call at a time. It stops at the first failure; slots created before it
// stay in the backend and are reported in the returned *BatchError.
func (f *ShiftFlow) CreateBatch(ctx context.Context, form ShiftForm) (*BatchResult, error) {
	pay, err := f.Validate(&form)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		CreatedIDs: make([]string, 0, len(form.Dates)),
		Dates:      form.Dates,
	}

	for i, date := range form.Dates {
		id, err := f.backend.CreateSlot(ctx, domain.SlotInput{
			ObjectID:  form.ObjectID,
			Title:     form.Title,
			Date:      date,
			StartTime: form.StartTime,
			EndTime:   form.EndTime,
			Pay:       pay,
			Type:      form.Type,
			Hot:       form.Hot,
		})
		if err != nil {
			return result, &BatchError{
				CreatedIDs: slices.Clone(result.CreatedIDs),
				Index:      i,
				Date:       date,
				Total:      len(form.Dates),
				Err:        err,
			}
		}
		result.CreatedIDs = append(result.CreatedIDs, id)
	}

	return result, nil
}
