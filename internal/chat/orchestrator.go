package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"fi-dashboard-go/internal/intent"
	"fi-dashboard-go/internal/metrics"
	"fi-dashboard-go/internal/money"
	"fi-dashboard-go/internal/tracker"
	"fi-dashboard-go/internal/voice"

	"go.uber.org/zap"
)

const (
	confirmPrompt = "Should I save this? (Say \"yes\" to confirm or \"no\" to cancel)"
	cancelReply   = "Cancelled. Let me know if you need anything else!"
	welcomeText   = "Hello! I'm your FI Assistant. You can:\n\n" +
		"- Add expenses: \"Spent 500 on groceries\"\n" +
		"- Record income: \"Received 10000 rent\"\n" +
		"- Add FDs: \"Create FD in SBI for 1 lakh at 7%\"\n" +
		"- Ask questions: \"What's my net worth?\"\n\n" +
		"Try voice input to speak instead of typing!"
)

// IntentParser is satisfied by *intent.Parser.
type IntentParser interface {
	Parse(ctx context.Context, text string) intent.Intent
	GenerateResponse(ctx context.Context, summary, question string) string
}

// Voice is satisfied by *voice.Service.
type Voice interface {
	StartListening(ctx context.Context) (string, error)
	Speak(ctx context.Context, text string, rate float64) error
}

type Orchestrator struct {
	parser  IntentParser
	tracker *tracker.Tracker
	money   *money.Formatter
	voice   Voice
	rate    float64
	speak   bool

	mu         sync.Mutex
	messages   []Message
	pending    *PendingAction
	processing int
}

type Option func(*Orchestrator)

// WithVoice enables voice input. When speakReplies is set, assistant replies
// are also spoken at rate.
func WithVoice(v Voice, speakReplies bool, rate float64) Option {
	return func(o *Orchestrator) {
		o.voice = v
		o.speak = speakReplies
		o.rate = rate
	}
}

func WithFormatter(f *money.Formatter) Option {
	return func(o *Orchestrator) {
		if f != nil {
			o.money = f
		}
	}
}

func NewOrchestrator(parser IntentParser, t *tracker.Tracker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		parser:  parser,
		tracker: t,
		money:   money.NewFormatter(money.DefaultSymbol, money.DefaultLocale),
		rate:    1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Initialize adds the welcome message to an empty transcript.
func (o *Orchestrator) Initialize() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.messages) == 0 {
		o.appendLocked(RoleAssistant, welcomeText, nil)
	}
}

// Messages returns a copy of the transcript.
func (o *Orchestrator) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.messages)
}

func (o *Orchestrator) Pending() *PendingAction {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pending == nil {
		return nil
	}
	p := *o.pending
	return &p
}

// Processing reports whether a message is being handled.
func (o *Orchestrator) Processing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.processing > 0
}

func (o *Orchestrator) startProcessing() func() {
	o.mu.Lock()
	o.processing++
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		o.processing--
		o.mu.Unlock()
	}
}

func (o *Orchestrator) appendLocked(role Role, content string, in *intent.Intent) Message {
	msg := Message{
		Id:        newMessageId(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Intent:    in,
	}
	if in != nil {
		msg.Status = StatusPending
	}
	o.messages = append(o.messages, msg)
	return msg
}

func (o *Orchestrator) add(role Role, content string) *Message {
	o.mu.Lock()
	msg := o.appendLocked(role, content, nil)
	o.mu.Unlock()
	if role == RoleAssistant {
		o.speakReply(content)
	}
	return &msg
}

func (o *Orchestrator) setStatus(id string, status Status) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.messages {
		if o.messages[i].Id == id {
			o.messages[i].Status = status
			return
		}
	}
}

// claim takes the pending action and clears the slot in one step.
func (o *Orchestrator) claim() *PendingAction {
	o.mu.Lock()
	defer o.mu.Unlock()
	p := o.pending
	o.pending = nil
	return p
}

func (o *Orchestrator) speakReply(text string) {
	if o.voice == nil || !o.speak {
		return
	}
	go func() {
		err := o.voice.Speak(context.Background(), text, o.rate)
		if err != nil && !errors.Is(err, voice.ErrInterrupted) {
			zap.L().Debug("Failed to speak reply", zap.Error(err))
		}
	}()
}

// SendMessage appends text as a user message and answers it. It returns the
// assistant reply, or nil for blank input.
func (o *Orchestrator) SendMessage(ctx context.Context, text string) *Message {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	defer o.startProcessing()()

	o.mu.Lock()
	o.appendLocked(RoleUser, text, nil)
	o.mu.Unlock()

	in := o.parser.Parse(ctx, text)
	zap.L().Debug("Parsed chat message",
		zap.String("action", string(in.Action)),
		zap.Float64("confidence", in.Confidence),
		zap.Bool("invalid", in.Invalid))

	switch {
	case in.Invalid:
		return o.add(RoleAssistant, in.Message)

	case in.Action == intent.ActionQuery:
		o.refresh(ctx)
		q, _ := in.Query()
		return o.add(RoleAssistant, o.answer(q.QueryType))

	case in.Action.IsAdd():
		restated := in.Message
		if restated == "" {
			restated = o.restate(in)
		}
		o.mu.Lock()
		msg := o.appendLocked(RoleAssistant, restated+"\n\n"+confirmPrompt, &in)
		o.pending = &PendingAction{Intent: in, MessageId: msg.Id}
		o.mu.Unlock()
		o.speakReply(msg.Content)
		return &msg

	default:
		o.refresh(ctx)
		reply := o.parser.GenerateResponse(ctx, o.summary(), text)
		return o.add(RoleAssistant, reply)
	}
}

// refresh reloads the caches; a failure is logged and the answer uses whatever is cached.
func (o *Orchestrator) refresh(ctx context.Context) {
	if err := o.tracker.RefreshAll(ctx); err != nil {
		zap.L().Warn("Failed to refresh financial data", zap.Error(err))
	}
}

// ConfirmAction saves the pending action. The slot is cleared whether or not
// the write succeeds. It returns the outcome message, or nil with nothing pending.
func (o *Orchestrator) ConfirmAction(ctx context.Context) *Message {
	p := o.claim()
	if p == nil {
		return nil
	}

	result, err := o.save(ctx, p.Intent)
	if err != nil {
		zap.L().Warn("Failed to save confirmed action",
			zap.String("action", string(p.Intent.Action)),
			zap.Error(err))
		metrics.ChatActions.WithLabelValues("failed").Inc()
		return o.add(RoleAssistant, "Failed to save: "+err.Error())
	}

	o.setStatus(p.MessageId, StatusConfirmed)
	metrics.ChatActions.WithLabelValues("confirmed").Inc()
	return o.add(RoleAssistant, result)
}

func (o *Orchestrator) save(ctx context.Context, in intent.Intent) (string, error) {
	today := o.tracker.Today()
	switch in.Action {
	case intent.ActionAddExpense:
		d, _ := in.Expense()
		created, err := o.tracker.Expenses.Add(ctx, d.Expense(today))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Expense of %s saved successfully!", o.money.Format(created.Amount)), nil

	case intent.ActionAddIncome:
		d, _ := in.Income()
		created, err := o.tracker.Incomes.Add(ctx, d.Income(today))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Income of %s recorded!", o.money.Format(created.Amount)), nil

	case intent.ActionAddFD:
		d, _ := in.FD()
		created, err := o.tracker.FDs.Add(ctx, d.FD(today))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("FD of %s created!", o.money.Format(created.Principal)), nil

	default:
		return "Action completed.", nil
	}
}

// CancelAction drops the pending action. It returns the acknowledgement, or
// nil with nothing pending.
func (o *Orchestrator) CancelAction() *Message {
	p := o.claim()
	if p == nil {
		return nil
	}
	o.setStatus(p.MessageId, StatusCancelled)
	metrics.ChatActions.WithLabelValues("cancelled").Inc()
	return o.add(RoleAssistant, cancelReply)
}

// HandleVoiceInput listens for one utterance and routes it. Recognition
// errors become a system message.
func (o *Orchestrator) HandleVoiceInput(ctx context.Context) *Message {
	if o.voice == nil {
		return o.add(RoleSystem, "Voice input error: "+voice.ErrRecognitionUnsupported.Error())
	}

	text, err := o.voice.StartListening(ctx)
	if err != nil {
		return o.add(RoleSystem, "Voice input error: "+err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	route := Route(text, o.Pending() != nil)
	zap.L().Debug("Routing voice input", zap.String("route", route.String()))
	switch route {
	case RouteConfirm:
		return o.ConfirmAction(ctx)
	case RouteCancel:
		return o.CancelAction()
	default:
		return o.SendMessage(ctx, text)
	}
}
