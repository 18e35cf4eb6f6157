package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/smenuberu/dashboard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shiftValues(token string, dates ...string) url.Values {
	v := url.Values{
		"token":     {token},
		"objectId":  {"obj1"},
		"title":     {"Loader"},
		"startTime": {"08:00"},
		"endTime":   {"16:00"},
		"pay":       {"3500"},
		"type":      {"loader"},
	}
	v["date"] = dates
	return v
}

func TestCreateShifts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/dashboard/shifts/new", shiftValues(env.formToken(t, "f1"), "2024-05-02", "2024-05-01"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/shifts?created=2", rec.Header().Get("Location"))
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, env.backend.slotDates)

	msgs := env.mail.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.MailShiftsCreated, msgs[0].Type)
	assert.Equal(t, "ivan@example.com", msgs[0].To)
}

func TestCreateShifts_Validation(t *testing.T) {
	env := newTestEnv(t)

	for _, pay := range []string{"-5", "abc", ""} {
		values := shiftValues(env.formToken(t, "f1"), "2024-05-01")
		values.Set("pay", pay)

		rec := env.postForm("/dashboard/shifts/new", values)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, pay)
		assert.Contains(t, rec.Body.String(), utils.PayMessage, pay)
	}

	assert.Zero(t, env.backend.count("POST /slots"))
	assert.Empty(t, env.mail.messages())
}

func TestCreateShifts_PartialFailure(t *testing.T) {
	env := newTestEnv(t)
	env.backend.failDate = "2024-05-03"

	rec := env.postForm("/dashboard/shifts/new", shiftValues(env.formToken(t, "f1"), "2024-05-04", "2024-05-03", "2024-05-02", "2024-05-01"))
	body := rec.Body.String()

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, body, "slot limit reached")
	assert.Contains(t, body, "Уже создано смен: 2")
	assert.Contains(t, body, "2024-05-01, 2024-05-02")
	// the created dates are gone from the form, the rest stays
	assert.NotContains(t, body, `name="date" value="2024-05-01"`)
	assert.Contains(t, body, `name="date" value="2024-05-03"`)
	assert.Contains(t, body, `name="date" value="2024-05-04"`)

	assert.Equal(t, 3, env.backend.count("POST /slots"))

	msgs := env.mail.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.MailShiftsPartiallyCreated, msgs[0].Type)
}

func TestCreateShifts_NoMailWhenDisabled(t *testing.T) {
	env := newTestEnv(t)

	settings := domain.DefaultNotificationSettings()
	settings.ShiftChanges = false
	require.NoError(t, env.store.SaveNotificationSettings(context.Background(), testUserID, settings))

	rec := env.postForm("/dashboard/shifts/new", shiftValues(env.formToken(t, "f1"), "2024-05-01"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, env.mail.messages())
}

func TestCreateShifts_Busy(t *testing.T) {
	env := newTestEnv(t)

	release, err := env.store.AcquireBusy(context.Background(), testUserID, "f1")
	require.NoError(t, err)
	defer release()

	rec := env.postForm("/dashboard/shifts/new", shiftValues(env.formToken(t, "f1"), "2024-05-01"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Операция уже выполняется")
	assert.Zero(t, env.backend.count("POST /slots"))
}

func TestCreateShifts_ForeignToken(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.handler.issueFormToken("someone-else", "f1")
	require.NoError(t, err)

	rec := env.postForm("/dashboard/shifts/new", shiftValues(token, "2024-05-01"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Форма устарела")
	assert.Zero(t, env.backend.count("POST /slots"))
}

func TestEditShift(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/dashboard/shifts/missing", nil), false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/shifts", rec.Header().Get("Location"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/dashboard/shifts/s1", nil), false)
	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `name="date" value="2024-05-01"`)
	assert.Contains(t, body, `name="startTime" value="08:00"`)
	assert.Contains(t, body, "Опубликована")
	assert.Contains(t, body, "Пётр")
}

func TestShiftsPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/dashboard/shifts?created=2", nil), false)
	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "Создано смен: 2")
	assert.Contains(t, body, "Грузчик")
	assert.Contains(t, body, "3500 ₽")
	assert.Contains(t, body, "Склад")
}
