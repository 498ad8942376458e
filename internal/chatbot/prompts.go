package chatbot

import (
	"github.com/appointly/bookingbot/internal/messaging/templates"
)

// Reply texts. Single-field prompts are plain constants; multi-field replies
// go through the template renderer.
const (
	replyWelcomeNew      = "Welcome to our appointment booking system! Please enter your full name:"
	replyPromptName      = "Please enter your full name:"
	replyPromptEmail     = "Great! Now please enter your email address:"
	replyPromptEmailEdit = "Please enter your email address:"
	replyInvalidEmail    = "Invalid email format. Please enter a valid email address:"
	replyPromptPhone     = "Perfect! Now please enter your phone number including country code:\nExample: +60123456789"
	replyPromptDate      = "Please select your preferred appointment date (YYYY-MM-DD):"
	replyPromptDateFirst = "Great! Now please select your preferred appointment date (YYYY-MM-DD):"
	replyInvalidDate     = "Invalid date format or date is in the past. Please enter a future date (YYYY-MM-DD):"
	replyBooked          = "Perfect! Your appointment has been scheduled.\n\nType 1 to create another appointment\nType 2 to view your appointments"
	replyNoAppointments  = "You don't have any appointments scheduled.\n\nType 1 to create an appointment\nType 2 to view appointments"
	replyMenuInvalid     = "Invalid option. Type 1 to create an appointment or 2 to view your appointments."
	replyMenuNewUser     = "No appointments found. Let's create one!\n\nPlease enter your full name:"
)

const (
	tmplWelcomeBack = "Welcome back {{.Name}}!\n\nType 1 to create an appointment\nType 2 to view appointments"

	tmplPhoneMismatch = "The phone number must match the WhatsApp number you're messaging from ({{.Phone}}).\nPlease enter your phone number again:"

	tmplFullyBooked = "Sorry, all time slots for {{.Day}}, {{.Date}} are fully booked. Please select a different date (YYYY-MM-DD):"

	tmplSlotList = "Available time slots for {{.Day}}, {{.Date}}:\n" +
		"{{range .Slots}}{{.Index}}. {{.Time}}\n{{end}}" +
		"\nPlease select a number from the available slots:"

	tmplInvalidSlot = "Invalid selection. Please choose from:\n" +
		"{{range .Slots}}{{.Index}}. {{.Time}}\n{{end}}"

	tmplSummary = "Please review your information:\n\n" +
		"1. Name: {{.Name}}\n" +
		"2. Email: {{.Email}}\n" +
		"3. Phone: {{.Phone}}\n" +
		"4. Date: {{.Day}}, {{.Date}}\n" +
		"5. Time: {{.Time}}\n\n" +
		"Is this correct? Type 'Yes' to confirm, or type the number (1-5) to modify that information."

	tmplAppointmentList = "Your appointments:\n\n" +
		"{{range .Appointments}}Date: {{.Day}}, {{.Date}}\nTime: {{.Time}}\n\n{{end}}" +
		"Type 1 to create a new appointment\nType 2 to view appointments again"
)

// prompts renders the outbound reply texts of the booking dialogue.
type prompts struct {
	renderer *templates.Renderer
}

func newPrompts() *prompts {
	return &prompts{renderer: templates.New()}
}

type indexedSlot struct {
	Index int
	Time  string
}

type listedAppointment struct {
	Day  string
	Date string
	Time string
}

func (p *prompts) welcomeBack(name string) (string, error) {
	return p.renderer.Render("welcome_back", tmplWelcomeBack, struct{ Name string }{name})
}

func (p *prompts) phoneMismatch(phone string) (string, error) {
	return p.renderer.Render("phone_mismatch", tmplPhoneMismatch, struct{ Phone string }{phone})
}

func (p *prompts) fullyBooked(day, date string) (string, error) {
	return p.renderer.Render("fully_booked", tmplFullyBooked, struct{ Day, Date string }{day, date})
}

func (p *prompts) slotList(day, date string, slots []string) (string, error) {
	return p.renderer.Render("slot_list", tmplSlotList, struct {
		Day   string
		Date  string
		Slots []indexedSlot
	}{day, date, indexSlots(slots)})
}

func (p *prompts) invalidSlot(slots []string) (string, error) {
	return p.renderer.Render("invalid_slot", tmplInvalidSlot, struct {
		Slots []indexedSlot
	}{indexSlots(slots)})
}

func (p *prompts) summary(data TempData) (string, error) {
	return p.renderer.Render("summary", tmplSummary, struct {
		Name, Email, Phone, Day, Date, Time string
	}{data.Name, data.Email, data.Phone, data.Day, data.Date, data.Time})
}

func (p *prompts) appointmentList(appointments []listedAppointment) (string, error) {
	return p.renderer.Render("appointment_list", tmplAppointmentList, struct {
		Appointments []listedAppointment
	}{appointments})
}

func indexSlots(slots []string) []indexedSlot {
	out := make([]indexedSlot, 0, len(slots))
	for i, s := range slots {
		out = append(out, indexedSlot{Index: i + 1, Time: s})
	}
	return out
}
