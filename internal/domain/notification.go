package domain

// NotificationSettings are kept by the dashboard itself, per user.
type NotificationSettings struct {
	NewBookings    bool `json:"newBookings"`
	ShiftChanges   bool `json:"shiftChanges"`
	ShiftReminders bool `json:"shiftReminders"`
	Marketing      bool `json:"marketing"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		NewBookings:    true,
		ShiftChanges:   true,
		ShiftReminders: true,
		Marketing:      true,
	}
}
