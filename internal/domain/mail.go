package domain

const (
	MailShiftsCreated          = "shifts_created"
	MailShiftsPartiallyCreated = "shifts_partially_created"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftsCreatedMailData struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Dates      []string `json:"dates"`
	Total      int      `json:"total"`
	FailedDate string   `json:"failedDate,omitempty"`
	Error      string   `json:"error,omitempty"`
}
