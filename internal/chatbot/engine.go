package chatbot

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/appointly/bookingbot/internal/appointments"
	"github.com/appointly/bookingbot/internal/directory"
	"github.com/appointly/bookingbot/internal/messaging"
	"github.com/appointly/bookingbot/internal/observability/metrics"
	"github.com/appointly/bookingbot/pkg/logging"
)

// UserDirectory is the user persistence the engine consumes.
type UserDirectory interface {
	FindByPhone(ctx context.Context, phone string) (*directory.User, error)
	Upsert(ctx context.Context, phone, name, email string) (*directory.User, error)
}

// AppointmentBook is the appointment persistence the engine consumes.
type AppointmentBook interface {
	Create(ctx context.Context, userID uuid.UUID, date time.Time, timeOfDay string) (*appointments.Appointment, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]appointments.Appointment, error)
	BookedTimes(ctx context.Context, date time.Time) ([]string, error)
}

// ConfirmationNotifier delivers a booking confirmation outside the chat
// channel. Optional; failures never affect the booking.
type ConfirmationNotifier interface {
	SendBookingConfirmation(ctx context.Context, email, name, day, date, timeOfDay string) error
}

// Config carries the engine's dependencies.
type Config struct {
	Sessions     SessionStore
	Users        UserDirectory
	Appointments AppointmentBook
	Messenger    messaging.Messenger
	Notifier     ConfirmationNotifier
	Metrics      *metrics.BotMetrics
	Logger       *logging.Logger
	Now          func() time.Time
}

// Engine runs the booking conversation: one inbound (phone, text) pair per
// invocation, at most one session read-modify-write, at most one outbound send.
type Engine struct {
	sessions     SessionStore
	users        UserDirectory
	appointments AppointmentBook
	messenger    messaging.Messenger
	notifier     ConfirmationNotifier
	metrics      *metrics.BotMetrics
	logger       *logging.Logger
	prompts      *prompts
	locks        *keyedMutex
	now          func() time.Time
	tracer       trace.Tracer
}

// NewEngine validates dependencies and builds an engine.
func NewEngine(cfg Config) *Engine {
	if cfg.Sessions == nil {
		panic("chatbot: session store required")
	}
	if cfg.Users == nil {
		panic("chatbot: user directory required")
	}
	if cfg.Appointments == nil {
		panic("chatbot: appointment book required")
	}
	if cfg.Messenger == nil {
		panic("chatbot: messenger required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		sessions:     cfg.Sessions,
		users:        cfg.Users,
		appointments: cfg.Appointments,
		messenger:    cfg.Messenger,
		notifier:     cfg.Notifier,
		metrics:      cfg.Metrics,
		logger:       logger,
		prompts:      newPrompts(),
		locks:        newKeyedMutex(),
		now:          now,
		tracer:       otel.Tracer("bookingbot.internal.chatbot"),
	}
}

// HandleInboundMessage advances the sender's conversation by one step and
// sends the resulting reply. Transitions for the same phone number are
// serialized; distinct numbers proceed in parallel. A failed send is reported
// but never rolls back the already-persisted transition.
func (e *Engine) HandleInboundMessage(ctx context.Context, from, text string) error {
	phone := messaging.NormalizePhone(from)
	if phone == "" {
		return errors.New("chatbot: sender phone required")
	}

	ctx, span := e.tracer.Start(ctx, "chatbot.handle_inbound")
	defer span.End()
	span.SetAttributes(attribute.String("bookingbot.phone", phone))

	unlock := e.locks.Lock(phone)
	defer unlock()

	session, err := e.sessions.GetOrCreate(ctx, phone)
	if err != nil {
		span.RecordError(err)
		return err
	}

	user, err := e.users.FindByPhone(ctx, phone)
	if err != nil && !errors.Is(err, directory.ErrUserNotFound) {
		span.RecordError(err)
		return fmt.Errorf("chatbot: look up user: %w", err)
	}

	reply, err := e.transition(ctx, session, user, text)
	if err != nil {
		// Nothing was persisted for this step; the next delivery retries cleanly.
		span.RecordError(err)
		return err
	}

	if err := e.sessions.Save(ctx, session); err != nil {
		span.RecordError(err)
		return err
	}

	if reply == "" {
		return nil
	}
	if err := e.messenger.SendText(ctx, phone, reply); err != nil {
		e.metrics.ObserveOutbound("failed")
		e.logger.Error("reply send failed", "error", err, "phone", phone, "step", session.CurrentStep)
		return fmt.Errorf("chatbot: send reply: %w", err)
	}
	e.metrics.ObserveOutbound("sent")
	return nil
}

// transition applies one state-machine step to the session and returns the
// reply text. It mutates only the passed session; durable writes (user upsert,
// appointment insert) happen solely in the confirm step.
func (e *Engine) transition(ctx context.Context, session *Session, user *directory.User, text string) (string, error) {
	// The EXIT command bypasses the state table entirely.
	if strings.EqualFold(strings.TrimSpace(text), "EXIT") {
		session.Reset()
		if user != nil {
			return e.prompts.welcomeBack(user.Name)
		}
		return replyWelcomeNew, nil
	}

	switch session.CurrentStep {
	case StepStart:
		return e.stepStart(ctx, session, user, text)
	case StepName:
		return e.stepName(session, text)
	case StepEmail:
		return e.stepEmail(session, text)
	case StepPhone:
		return e.stepPhone(session, text)
	case StepAppointmentDate:
		return e.stepDate(ctx, session, text)
	case StepAppointmentTime:
		return e.stepTime(session, text)
	case StepConfirm:
		return e.stepConfirm(ctx, session, text)
	case StepMenu:
		return e.stepMenu(ctx, session, user, text)
	default:
		// Unknown persisted step; recover by restarting the conversation.
		session.Reset()
		if user != nil {
			return e.prompts.welcomeBack(user.Name)
		}
		return replyWelcomeNew, nil
	}
}

func (e *Engine) stepStart(ctx context.Context, session *Session, user *directory.User, text string) (string, error) {
	if user == nil {
		// First contact: the message text is not an answer to anything.
		session.CurrentStep = StepName
		return replyWelcomeNew, nil
	}

	switch strings.TrimSpace(text) {
	case "1":
		session.TempData = TempData{Name: user.Name, Email: user.Email, Phone: session.Phone}
		session.CurrentStep = StepAppointmentDate
		return replyPromptDate, nil
	case "2":
		return e.appointmentListReply(ctx, user)
	default:
		return e.prompts.welcomeBack(user.Name)
	}
}

func (e *Engine) stepName(session *Session, text string) (string, error) {
	session.TempData.Name = strings.TrimSpace(text)
	if session.TempData.Editing != EditNone {
		session.TempData.Editing = EditNone
		session.CurrentStep = StepConfirm
		return e.prompts.summary(session.TempData)
	}
	session.CurrentStep = StepEmail
	return replyPromptEmail, nil
}

func (e *Engine) stepEmail(session *Session, text string) (string, error) {
	email := strings.TrimSpace(text)
	if !validEmail(email) {
		return replyInvalidEmail, nil
	}
	session.TempData.Email = email
	if session.TempData.Editing != EditNone {
		session.TempData.Editing = EditNone
		session.CurrentStep = StepConfirm
		return e.prompts.summary(session.TempData)
	}
	session.CurrentStep = StepPhone
	return replyPromptPhone, nil
}

func (e *Engine) stepPhone(session *Session, text string) (string, error) {
	if messaging.NormalizePhone(text) != session.Phone {
		return e.prompts.phoneMismatch(session.Phone)
	}
	session.TempData.Phone = session.Phone
	if session.TempData.Editing != EditNone {
		session.TempData.Editing = EditNone
		session.CurrentStep = StepConfirm
		return e.prompts.summary(session.TempData)
	}
	session.CurrentStep = StepAppointmentDate
	return replyPromptDateFirst, nil
}

func (e *Engine) stepDate(ctx context.Context, session *Session, text string) (string, error) {
	date, ok := parseFutureDate(text, e.now())
	if !ok {
		return replyInvalidDate, nil
	}
	day := date.Format("Monday")
	dateStr := date.Format("2006-01-02")

	booked, err := e.appointments.BookedTimes(ctx, date)
	if err != nil {
		return "", fmt.Errorf("chatbot: read booked times: %w", err)
	}
	free := AvailableSlots(booked)
	if len(free) == 0 {
		return e.prompts.fullyBooked(day, dateStr)
	}

	displays := make([]string, 0, len(free))
	for _, slot := range free {
		displays = append(displays, slot.Display)
	}
	session.TempData.Date = dateStr
	session.TempData.Day = day
	session.TempData.AvailableSlots = displays
	session.CurrentStep = StepAppointmentTime
	return e.prompts.slotList(day, dateStr, displays)
}

func (e *Engine) stepTime(session *Session, text string) (string, error) {
	slots := session.TempData.AvailableSlots
	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || index < 1 || index > len(slots) {
		return e.prompts.invalidSlot(slots)
	}
	session.TempData.Time = slots[index-1]
	session.TempData.Editing = EditNone
	session.CurrentStep = StepConfirm
	return e.prompts.summary(session.TempData)
}

func (e *Engine) stepConfirm(ctx context.Context, session *Session, text string) (string, error) {
	input := strings.TrimSpace(text)
	if strings.EqualFold(input, "yes") {
		return e.finalize(ctx, session)
	}

	switch input {
	case "1":
		session.TempData.Editing = EditName
		session.CurrentStep = StepName
		return replyPromptName, nil
	case "2":
		session.TempData.Editing = EditEmail
		session.CurrentStep = StepEmail
		return replyPromptEmailEdit, nil
	case "3":
		session.TempData.Editing = EditPhone
		session.CurrentStep = StepPhone
		return replyPromptPhone, nil
	case "4", "5":
		// Date and time are re-captured together: a new date invalidates the
		// stored slot list, so both detours restart at the date step.
		session.TempData.Editing = EditSchedule
		session.CurrentStep = StepAppointmentDate
		return replyPromptDate, nil
	default:
		return e.prompts.summary(session.TempData)
	}
}

// finalize commits the booking: exactly one user upsert and one appointment
// insert, then the session resets to the menu.
func (e *Engine) finalize(ctx context.Context, session *Session) (string, error) {
	data := session.TempData

	user, err := e.users.Upsert(ctx, data.Phone, data.Name, data.Email)
	if err != nil {
		return "", fmt.Errorf("chatbot: upsert user: %w", err)
	}

	date, err := time.Parse("2006-01-02", data.Date)
	if err != nil {
		return "", fmt.Errorf("chatbot: stored date invalid: %w", err)
	}
	timeOfDay, err := DisplayToStorage(data.Time)
	if err != nil {
		return "", err
	}

	if _, err := e.appointments.Create(ctx, user.ID, date, timeOfDay); err != nil {
		return "", fmt.Errorf("chatbot: create appointment: %w", err)
	}
	e.metrics.ObserveBooking()
	e.logger.Info("appointment booked", "phone", data.Phone, "date", data.Date, "time", data.Time)

	if e.notifier != nil {
		if err := e.notifier.SendBookingConfirmation(ctx, data.Email, data.Name, data.Day, data.Date, data.Time); err != nil {
			e.logger.Error("confirmation email failed", "error", err, "email", data.Email)
		}
	}

	session.TempData = TempData{}
	session.CurrentStep = StepMenu
	return replyBooked, nil
}

func (e *Engine) stepMenu(ctx context.Context, session *Session, user *directory.User, text string) (string, error) {
	switch strings.TrimSpace(text) {
	case "1":
		if user != nil {
			session.TempData = TempData{Name: user.Name, Email: user.Email, Phone: session.Phone}
			session.CurrentStep = StepAppointmentDate
			return replyPromptDate, nil
		}
		session.TempData = TempData{}
		session.CurrentStep = StepName
		return replyPromptName, nil
	case "2":
		if user == nil {
			session.CurrentStep = StepName
			return replyMenuNewUser, nil
		}
		return e.appointmentListReply(ctx, user)
	default:
		return replyMenuInvalid, nil
	}
}

func (e *Engine) appointmentListReply(ctx context.Context, user *directory.User) (string, error) {
	appts, err := e.appointments.ListForUser(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("chatbot: list appointments: %w", err)
	}
	if len(appts) == 0 {
		return replyNoAppointments, nil
	}

	listed := make([]listedAppointment, 0, len(appts))
	for _, appt := range appts {
		display, err := StorageToDisplay(appt.Time)
		if err != nil {
			return "", err
		}
		listed = append(listed, listedAppointment{
			Day:  appt.Date.Format("Monday"),
			Date: appt.Date.Format("2006-01-02"),
			Time: display,
		})
	}
	return e.prompts.appointmentList(listed)
}

// parseFutureDate accepts a YYYY-MM-DD date strictly after today.
func parseFutureDate(text string, now time.Time) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !date.After(today) {
		return time.Time{}, false
	}
	return date, true
}

// validEmail checks the address grammar; display names and malformed domains
// are rejected.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	return strings.Contains(domain, ".")
}
