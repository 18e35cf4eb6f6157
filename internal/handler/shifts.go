package handler

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/smenuberu/dashboard/internal/workflow"
)

type shiftsPageData struct {
	Slots       []domain.Slot
	ObjectNames map[string]string
}

func (h *Handler) ShiftsPage(w http.ResponseWriter, r *http.Request) {
	p := page{Title: "Смены", Nav: "shifts"}
	query := r.URL.Query()
	switch {
	case query.Get("created") != "":
		p.Notice = "Создано смен: " + query.Get("created")
	case query.Get("deleted") != "":
		p.Notice = "Смена удалена"
	}

	slots, err := h.repository.ListCreatedSlots(r.Context())
	if err != nil {
		h.logInternalServerError(r, err)
		p.Error = err.Error()
	}
	slices.SortStableFunc(slots, func(a, b domain.Slot) int {
		return strings.Compare(a.Date+a.StartTime, b.Date+b.StartTime)
	})

	names, _ := h.objectNames(r)
	p.Data = shiftsPageData{Slots: slots, ObjectNames: names}

	h.render(w, r, "shifts", p)
}

type shiftFormData struct {
	Form    workflow.ShiftForm
	Token   string
	Edit    bool
	ID      string
	Slot    *domain.Slot
	Objects []domain.Object
	Types   []domain.SlotType
	// ids and dates created before a batch stopped
	CreatedIDs   []string
	CreatedDates []string
}

func (h *Handler) renderShiftForm(w http.ResponseWriter, r *http.Request, status int, data shiftFormData, p page) {
	p.Nav = "shifts"
	if data.Edit {
		p.Title = "Редактирование смены"
	} else {
		p.Title = "Новая смена"
	}

	_, objects := h.objectNames(r)
	data.Objects = objects
	data.Types = domain.SlotTypes
	if len(data.Form.Dates) == 0 {
		data.Form.Dates = []string{""}
	}
	if data.Form.Type == "" {
		data.Form.Type = domain.SlotTypeOther
	}
	p.Data = data

	h.renderStatus(w, r, status, "shift_form", p)
}

// shiftFormFromRequest reads the shift form; dates come as repeated "date" fields.
func shiftFormFromRequest(r *http.Request) workflow.ShiftForm {
	return workflow.ShiftForm{
		ObjectID:  r.PostForm.Get("objectId"),
		Title:     r.PostForm.Get("title"),
		Dates:     r.PostForm["date"],
		StartTime: r.PostForm.Get("startTime"),
		EndTime:   r.PostForm.Get("endTime"),
		Pay:       r.PostForm.Get("pay"),
		Type:      domain.SlotType(r.PostForm.Get("type")),
		Hot:       r.PostForm.Get("hot") != "",
		Published: r.PostForm.Get("published") != "",
	}
}

func (h *Handler) NewShiftPage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())

	token, err := h.issueFormToken(user.ID, uuid.NewString())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	form := workflow.ShiftForm{ObjectID: r.URL.Query().Get("objectId")}
	h.renderShiftForm(w, r, http.StatusOK, shiftFormData{Form: form, Token: token}, page{})
}

func (h *Handler) CreateShifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)

	if err := r.ParseForm(); err != nil {
		h.renderShiftForm(w, r, http.StatusBadRequest, shiftFormData{}, page{Error: "Не удалось прочитать форму"})
		return
	}
	form := shiftFormFromRequest(r)
	data := shiftFormData{Form: form, Token: r.PostForm.Get("token")}

	formID, err := h.parseFormToken(data.Token, user.ID)
	if err != nil {
		// a fresh token lets the user resubmit what is on screen
		data.Token, _ = h.issueFormToken(user.ID, uuid.NewString())
		h.renderShiftForm(w, r, errorStatus(err), data, page{Error: err.Error()})
		return
	}

	release, err := h.store.AcquireBusy(ctx, user.ID, formID)
	if err != nil {
		h.renderShiftForm(w, r, errorStatus(err), data, page{Error: err.Error()})
		return
	}
	defer release()

	result, err := h.shiftFlow.CreateBatch(ctx, form)
	if err != nil {
		var batchErr *workflow.BatchError
		if errors.As(err, &batchErr) {
			h.notifyShiftsCreated(ctx, user, form.Title, result.Dates, batchErr)

			// only the dates that were not created stay in the form
			data.CreatedIDs = batchErr.CreatedIDs
			data.CreatedDates = result.Dates[:len(batchErr.CreatedIDs)]
			data.Form.Dates = result.Dates[len(batchErr.CreatedIDs):]
		}
		if reportable(err) {
			h.logInternalServerError(r, err)
		}
		h.renderShiftForm(w, r, errorStatus(err), data, page{Error: err.Error()})
		return
	}

	h.notifyShiftsCreated(ctx, user, form.Title, result.Dates, nil)

	http.Redirect(w, r, "/dashboard/shifts?created="+strconv.Itoa(len(result.CreatedIDs)), http.StatusSeeOther)
}

func (h *Handler) EditShiftPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	slot, form, err := h.shiftFlow.Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Redirect(w, r, "/dashboard/shifts", http.StatusSeeOther)
			return
		}
		h.logInternalServerError(r, err)
		h.renderShiftForm(w, r, errorStatus(err), shiftFormData{Edit: true, ID: id}, page{Error: err.Error()})
		return
	}

	token, err := h.issueFormToken(user.ID, "slot-"+id)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	p := page{}
	if r.URL.Query().Get("saved") != "" {
		p.Notice = "Изменения сохранены"
	}
	h.renderShiftForm(w, r, http.StatusOK, shiftFormData{Form: form, Token: token, Edit: true, ID: id, Slot: slot}, p)
}

// editFailed re-renders the edit form with what the user submitted. The slot
// is reloaded only for its bookings.
func (h *Handler) editFailed(w http.ResponseWriter, r *http.Request, id string, data shiftFormData, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Redirect(w, r, "/dashboard/shifts", http.StatusSeeOther)
		return
	}
	if reportable(err) {
		h.logInternalServerError(r, err)
	}

	data.Edit = true
	data.ID = id
	if slot, loadErr := h.repository.GetSlot(r.Context(), id); loadErr == nil {
		data.Slot = slot
	}
	h.renderShiftForm(w, r, errorStatus(err), data, page{Error: err.Error()})
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		h.editFailed(w, r, id, shiftFormData{}, &workflow.ValidationError{Message: "Не удалось прочитать форму"})
		return
	}
	data := shiftFormData{Form: shiftFormFromRequest(r), Token: r.PostForm.Get("token")}

	formID, err := h.parseFormToken(data.Token, user.ID)
	if err != nil || formID != "slot-"+id {
		data.Token, _ = h.issueFormToken(user.ID, "slot-"+id)
		h.editFailed(w, r, id, data, errFormExpired)
		return
	}

	release, err := h.store.AcquireBusy(ctx, user.ID, formID)
	if err != nil {
		h.editFailed(w, r, id, data, err)
		return
	}
	defer release()

	if err := h.shiftFlow.Update(ctx, id, data.Form); err != nil {
		h.editFailed(w, r, id, data, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard/shifts/%s?saved=1", id), http.StatusSeeOther)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	release, err := h.store.AcquireBusy(ctx, user.ID, "slot-"+id)
	if err != nil {
		h.editFailed(w, r, id, h.reloadShiftForm(r, user.ID, id), err)
		return
	}
	defer release()

	if err := h.shiftFlow.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		h.editFailed(w, r, id, h.reloadShiftForm(r, user.ID, id), err)
		return
	}

	http.Redirect(w, r, "/dashboard/shifts?deleted=1", http.StatusSeeOther)
}

// reloadShiftForm prefills the edit form from the backend, best effort.
func (h *Handler) reloadShiftForm(r *http.Request, userID, id string) shiftFormData {
	data := shiftFormData{}
	if _, form, err := h.shiftFlow.Load(r.Context(), id); err == nil {
		data.Form = form
	}
	data.Token, _ = h.issueFormToken(userID, "slot-"+id)
	return data
}
