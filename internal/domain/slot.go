package domain

type SlotType string

const (
	SlotTypeDriver  SlotType = "driver"
	SlotTypePicker  SlotType = "picker"
	SlotTypeLoader  SlotType = "loader"
	SlotTypeCook    SlotType = "cook"
	SlotTypeWaiter  SlotType = "waiter"
	SlotTypeCleaner SlotType = "cleaner"
	SlotTypeOther   SlotType = "other"
)

var SlotTypes = []SlotType{
	SlotTypeDriver,
	SlotTypePicker,
	SlotTypeLoader,
	SlotTypeCook,
	SlotTypeWaiter,
	SlotTypeCleaner,
	SlotTypeOther,
}

func (t SlotType) Label() string {
	switch t {
	case SlotTypeDriver:
		return "Водитель"
	case SlotTypePicker:
		return "Комплектовщик"
	case SlotTypeLoader:
		return "Грузчик"
	case SlotTypeCook:
		return "Повар"
	case SlotTypeWaiter:
		return "Официант"
	case SlotTypeCleaner:
		return "Уборщик"
	case SlotTypeOther:
		return "Другое"
	default:
		return string(t)
	}
}

type Slot struct {
	ID        string    `json:"id"`
	ObjectID  string    `json:"objectId"`
	Title     string    `json:"title"`
	Company   string    `json:"company,omitempty"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Pay       *int      `json:"pay"`
	Type      SlotType  `json:"type"`
	Hot       bool      `json:"hot"`
	Published bool      `json:"published"`
	Bookings  []Booking `json:"bookings,omitempty"`
}

// SlotInput is the body of POST /slots; one call creates one date.
type SlotInput struct {
	ObjectID  string   `json:"objectId"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Pay       int      `json:"pay"`
	Type      SlotType `json:"type"`
	Hot       bool     `json:"hot"`
}

type SlotPatch struct {
	ObjectID  *string   `json:"objectId,omitempty"`
	Title     *string   `json:"title,omitempty"`
	Date      *string   `json:"date,omitempty"`
	StartTime *string   `json:"startTime,omitempty"`
	EndTime   *string   `json:"endTime,omitempty"`
	Pay       *int      `json:"pay,omitempty"`
	Type      *SlotType `json:"type,omitempty"`
	Hot       *bool     `json:"hot,omitempty"`
	Published *bool     `json:"published,omitempty"`
}

type Booking struct {
	ID     string      `json:"id"`
	Status string      `json:"status"`
	User   BookingUser `json:"user"`
}

type BookingUser struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}
