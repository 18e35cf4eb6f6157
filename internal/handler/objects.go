package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/smenuberu/dashboard/internal/workflow"
)

type objectsPageData struct {
	Objects []domain.Object
}

func (h *Handler) ObjectsPage(w http.ResponseWriter, r *http.Request) {
	h.renderObjects(w, r, http.StatusOK, nil)
}

func (h *Handler) renderObjects(w http.ResponseWriter, r *http.Request, status int, opErr error) {
	p := page{Title: "Объекты", Nav: "objects"}
	switch {
	case r.URL.Query().Get("deleted") != "":
		p.Notice = "Объект удалён"
	case r.URL.Query().Get("saved") != "":
		p.Notice = "Объект сохранён"
	}

	objects, err := h.repository.ListObjects(r.Context())
	if err != nil {
		h.logInternalServerError(r, err)
		p.Error = err.Error()
	}
	if opErr != nil {
		p.Error = opErr.Error()
	}
	p.Data = objectsPageData{Objects: objects}

	h.renderStatus(w, r, status, "objects", p)
}

func (h *Handler) DeleteObject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	release, err := h.store.AcquireBusy(ctx, user.ID, "object-"+id)
	if err != nil {
		h.renderObjects(w, r, errorStatus(err), err)
		return
	}
	defer release()

	if err := h.repository.DeleteObject(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		if reportable(err) {
			h.logInternalServerError(r, err)
		}
		h.renderObjects(w, r, errorStatus(err), err)
		return
	}

	http.Redirect(w, r, "/dashboard/objects?deleted=1", http.StatusSeeOther)
}

type objectFormData struct {
	Draft     *workflow.ObjectDraft
	Token     string
	Types     []domain.ObjectType
	MaxPhotos int
	CanAdd    bool
	Debounce  int
}

func (h *Handler) renderObjectForm(w http.ResponseWriter, r *http.Request, status int, d *workflow.ObjectDraft, token string, p page) {
	p.Title = "Новый объект"
	p.Nav = "objects"
	p.Data = objectFormData{
		Draft:     d,
		Token:     token,
		Types:     domain.ObjectTypes,
		MaxPhotos: h.objectFlow.MaxPhotos(),
		CanAdd:    len(d.Photos) < h.objectFlow.MaxPhotos(),
		Debounce:  h.config.Suggest.Debounce,
	}
	h.renderStatus(w, r, status, "object_form", p)
}

// startDraft stores an empty draft for a new form instance and signs its id.
func (h *Handler) startDraft(ctx context.Context, userID string) (*workflow.ObjectDraft, string, error) {
	d := workflow.NewObjectDraft()
	if err := h.store.SaveDraft(ctx, userID, d.DraftID, d); err != nil {
		return nil, "", err
	}
	token, err := h.issueFormToken(userID, d.DraftID)
	if err != nil {
		return nil, "", err
	}
	return d, token, nil
}

func (h *Handler) NewObjectPage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())

	d, token, err := h.startDraft(r.Context(), user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.renderObjectForm(w, r, http.StatusOK, d, token, page{})
}

// restartDraft renders a fresh form carrying msg, for requests whose draft
// can no longer be used.
func (h *Handler) restartDraft(w http.ResponseWriter, r *http.Request, status int, msg string) {
	user := currentUser(r.Context())

	d, token, err := h.startDraft(r.Context(), user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.renderObjectForm(w, r, status, d, token, page{Error: msg})
}

type objectOp func(ctx context.Context, r *http.Request, d *workflow.ObjectDraft) (notice string, err error)

// withObjectDraft runs op on the draft named by the form token. The draft is
// stored back even when op fails, so an object created on the way is never
// created twice. With finish set, a successful op drops the draft and leaves
// the form for the objects list.
func (h *Handler) withObjectDraft(w http.ResponseWriter, r *http.Request, finish bool, op objectOp) {
	ctx := r.Context()
	user := currentUser(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, 2*h.config.Upload.MaxFileSize+1<<20)
	if err := h.parseForm(r); err != nil {
		h.restartDraft(w, r, http.StatusBadRequest, "Не удалось прочитать форму: "+err.Error())
		return
	}

	token := r.PostFormValue("draft")
	draftID, err := h.parseFormToken(token, user.ID)
	if err != nil {
		h.restartDraft(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// the draft must be read under the busy flag
	release, err := h.store.AcquireBusy(ctx, user.ID, draftID)
	if err != nil {
		d := &workflow.ObjectDraft{}
		if loadErr := h.store.LoadDraft(ctx, user.ID, draftID, d); loadErr != nil {
			h.restartDraft(w, r, errorStatus(err), err.Error())
			return
		}
		h.renderObjectForm(w, r, errorStatus(err), d, token, page{Error: err.Error()})
		return
	}
	defer release()

	d := &workflow.ObjectDraft{}
	if err := h.store.LoadDraft(ctx, user.ID, draftID, d); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.restartDraft(w, r, http.StatusUnprocessableEntity, errFormExpired.Error())
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	d.SetFields(
		r.PostFormValue("name"),
		r.PostFormValue("city"),
		r.PostFormValue("address"),
		domain.ObjectType(r.PostFormValue("type")),
	)

	notice, opErr := op(ctx, r, d)

	if finish && opErr == nil {
		if err := h.store.DeleteDraft(ctx, user.ID, draftID); err != nil {
			h.logInternalServerError(r, err)
		}
		http.Redirect(w, r, "/dashboard/objects?saved=1", http.StatusSeeOther)
		return
	}

	if err := h.store.SaveDraft(ctx, user.ID, draftID, d); err != nil {
		h.logInternalServerError(r, err)
		if opErr == nil {
			opErr = err
		}
	}

	if opErr != nil {
		if reportable(opErr) {
			h.logInternalServerError(r, opErr)
		}
		h.renderObjectForm(w, r, errorStatus(opErr), d, token, page{Error: opErr.Error()})
		return
	}

	h.renderObjectForm(w, r, http.StatusOK, d, token, page{Notice: notice})
}

func (h *Handler) parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(h.config.Upload.MaxFileSize)
	}
	return r.ParseForm()
}

// readAsset opens the uploaded file in field. The content type comes from the
// part header and is sniffed from the bytes when the browser sent none.
func (h *Handler) readAsset(r *http.Request, field string) (workflow.Asset, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return workflow.Asset{}, nil, &workflow.ValidationError{Message: "Выберите файл"}
		}
		return workflow.Asset{}, nil, err
	}

	if header.Size > h.config.Upload.MaxFileSize {
		_ = file.Close()
		return workflow.Asset{}, nil, &workflow.ValidationError{
			Message: fmt.Sprintf("Файл больше %d МБ", h.config.Upload.MaxFileSize>>20),
		}
	}

	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		mtype, err := mimetype.DetectReader(file)
		if err == nil {
			contentType = mtype.String()
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			_ = file.Close()
			return workflow.Asset{}, nil, err
		}
	}

	closeFile := func() { _ = file.Close() }
	return workflow.Asset{ContentType: contentType, Size: header.Size, Body: file}, closeFile, nil
}

func (h *Handler) SaveObject(w http.ResponseWriter, r *http.Request) {
	h.withObjectDraft(w, r, false, func(ctx context.Context, r *http.Request, d *workflow.ObjectDraft) (string, error) {
		if err := h.objectFlow.Save(ctx, d); err != nil {
			return "", err
		}
		return "Объект сохранён", nil
	})
}

// FinishObject saves the base fields and closes the form.
func (h *Handler) FinishObject(w http.ResponseWriter, r *http.Request) {
	h.withObjectDraft(w, r, true, func(ctx context.Context, r *http.Request, d *workflow.ObjectDraft) (string, error) {
		return "", h.objectFlow.Save(ctx, d)
	})
}

func (h *Handler) UploadObjectPhoto(w http.ResponseWriter, r *http.Request) {
	h.withObjectDraft(w, r, false, func(ctx context.Context, r *http.Request, d *workflow.ObjectDraft) (string, error) {
		asset, closeFile, err := h.readAsset(r, "photo_file")
		if err != nil {
			return "", err
		}
		defer closeFile()

		if err := h.objectFlow.UploadPhoto(ctx, d, asset); err != nil {
			return "", err
		}
		return "Фото загружено", nil
	})
}

func (h *Handler) UploadObjectLogo(w http.ResponseWriter, r *http.Request) {
	h.withObjectDraft(w, r, false, func(ctx context.Context, r *http.Request, d *workflow.ObjectDraft) (string, error) {
		asset, closeFile, err := h.readAsset(r, "logo_file")
		if err != nil {
			return "", err
		}
		defer closeFile()

		if err := h.objectFlow.UploadLogo(ctx, d, asset); err != nil {
			return "", err
		}
		return "Логотип загружен", nil
	})
}

func (h *Handler) RemoveObjectPhoto(w http.ResponseWriter, r *http.Request) {
	h.withObjectDraft(w, r, false, func(ctx context.Context, r *http.Request, d *workflow.ObjectDraft) (string, error) {
		if err := h.objectFlow.RemovePhoto(ctx, d, r.PostFormValue("photo")); err != nil {
			return "", err
		}
		return "Фото удалено", nil
	})
}

func (h *Handler) RemoveObjectLogo(w http.ResponseWriter, r *http.Request) {
	h.withObjectDraft(w, r, false, func(ctx context.Context, r *http.Request, d *workflow.ObjectDraft) (string, error) {
		if err := h.objectFlow.RemoveLogo(ctx, d); err != nil {
			return "", err
		}
		return "Логотип удалён", nil
	})
}
