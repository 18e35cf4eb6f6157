package seed

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/smenuberu/dashboard/internal/utils"
	"github.com/smenuberu/dashboard/internal/workflow"
)

// Seeder fills an employer account with demo objects and shifts through the
// same flows the dashboard forms use.
type Seeder struct {
	objects *workflow.ObjectFlow
	shifts  *workflow.ShiftFlow
	now     func() time.Time
}

func NewSeeder(objects *workflow.ObjectFlow, shifts *workflow.ShiftFlow) *Seeder {
	return &Seeder{
		objects: objects,
		shifts:  shifts,
		now:     time.Now,
	}
}

type Summary struct {
	Objects []string
	Shifts  int
}

// Run creates nObjects objects and for each of them one shift spread over
// the next days days. A failed batch is logged and the run goes on; the
// error returned joins every failure.
func (s *Seeder) Run(ctx context.Context, nObjects, days int) (*Summary, error) {
	summary := &Summary{}
	var errs []error

	for i := 0; i < nObjects; i++ {
		in := utils.GenerateRandomObject()

		d := workflow.NewObjectDraft()
		d.SetFields(in.Name, in.City, in.Address, in.Type)
		if err := s.objects.Save(ctx, d); err != nil {
			slog.Error("failed to create object", "name", in.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		summary.Objects = append(summary.Objects, d.ObjectID)

		slot := utils.GenerateRandomShift(d.ObjectID)
		res, err := s.shifts.CreateBatch(ctx, workflow.ShiftForm{
			ObjectID:  slot.ObjectID,
			Title:     slot.Title,
			Dates:     utils.GenerateDates(s.now(), days),
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Pay:       strconv.Itoa(slot.Pay),
			Type:      slot.Type,
			Hot:       slot.Hot,
		})
		if err != nil {
			var batchErr *workflow.BatchError
			if errors.As(err, &batchErr) {
				summary.Shifts += len(batchErr.CreatedIDs)
			}
			slog.Error("failed to create shifts", "object", d.ObjectID, "error", err)
			errs = append(errs, err)
			continue
		}
		summary.Shifts += len(res.CreatedIDs)
	}

	return summary, errors.Join(errs...)
}
