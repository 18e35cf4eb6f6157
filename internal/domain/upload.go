package domain

type UploadKind string

const (
	UploadObjectLogo  UploadKind = "object-logo"
	UploadObjectPhoto UploadKind = "object-photo"
	UploadDraftLogo   UploadKind = "draft-logo"
	UploadDraftPhoto  UploadKind = "draft-photo"
)

// PresignRequest carries either ObjectID (object-*) or DraftID (draft-*).
type PresignRequest struct {
	ObjectID    string `json:"objectId,omitempty"`
	DraftID     string `json:"draftId,omitempty"`
	ContentType string `json:"contentType"`
}

type Presign struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}
