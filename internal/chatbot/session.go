package chatbot

// Step names one stage of the booking dialogue.
type Step string

const (
	StepStart           Step = "start"
	StepName            Step = "name"
	StepEmail           Step = "email"
	StepPhone           Step = "phone"
	StepAppointmentDate Step = "appointment_date"
	StepAppointmentTime Step = "appointment_time"
	StepConfirm         Step = "confirm"
	StepMenu            Step = "menu"
)

// EditField marks which field the user is correcting from the confirm screen.
// A field-capturing step that sees a non-empty marker returns straight to
// confirm after a valid answer instead of continuing the linear sequence.
type EditField string

const (
	EditNone     EditField = ""
	EditName     EditField = "name"
	EditEmail    EditField = "email"
	EditPhone    EditField = "phone"
	EditSchedule EditField = "schedule"
)

// TempData accumulates answers for the booking in progress. Fields are only
// added or overwritten; nothing is required to be consistent until the
// confirm step reads them.
type TempData struct {
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Date           string    `json:"date,omitempty"` // YYYY-MM-DD
	Day            string    `json:"day,omitempty"`  // weekday name for Date
	Time           string    `json:"time,omitempty"` // display form, h:mm AM/PM
	AvailableSlots []string  `json:"available_slots,omitempty"`
	Editing        EditField `json:"editing,omitempty"`
}

// Session is the per-phone-number conversation record.
type Session struct {
	Phone       string   `json:"phone"`
	CurrentStep Step     `json:"current_step"`
	TempData    TempData `json:"temp_data"`
}

// NewSession returns a fresh session at the start step.
func NewSession(phone string) *Session {
	return &Session{Phone: phone, CurrentStep: StepStart}
}

// Reset clears accumulated answers and returns the session to start.
// Sessions are reset, never deleted, so returning users keep their record.
func (s *Session) Reset() {
	s.CurrentStep = StepStart
	s.TempData = TempData{}
}
