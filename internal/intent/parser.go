package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"fi-dashboard-go/internal/gemini"
	"fi-dashboard-go/internal/metrics"
	"fi-dashboard-go/internal/models"

	"go.uber.org/zap"
)

// NotConfiguredMessage is shown instead of calling the model when no key is set.
const NotConfiguredMessage = "Language model not configured. Please set GEMINI_API_KEY."

const defaultConfidence = 0.5

var fencedBlock = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// reply is the JSON envelope the system prompt asks the model for.
type reply struct {
	Action     string          `json:"action"`
	Data       json.RawMessage `json:"data"`
	Confidence *float64        `json:"confidence"`
	Message    string          `json:"message"`
}

type Parser struct {
	gen         gemini.Generator
	categories  []string
	sourceTypes []string
}

type Option func(*Parser)

// WithCategories replaces the accepted expense categories.
func WithCategories(categories []string) Option {
	return func(p *Parser) {
		if len(categories) > 0 {
			p.categories = categories
		}
	}
}

// WithSourceTypes replaces the accepted income source types.
func WithSourceTypes(sourceTypes []string) Option {
	return func(p *Parser) {
		if len(sourceTypes) > 0 {
			p.sourceTypes = sourceTypes
		}
	}
}

// NewParser returns a parser over gen. A nil gen leaves the parser unconfigured.
func NewParser(gen gemini.Generator, opts ...Option) *Parser {
	p := &Parser{
		gen:         gen,
		categories:  models.ExpenseCategories,
		sourceTypes: models.IncomeSourceTypes,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Configured() bool {
	return p.gen != nil
}

// Parse never fails: remote, decode and validation errors all come back as an
// unknown intent with zero confidence and the error text as its message.
func (p *Parser) Parse(ctx context.Context, text string) Intent {
	if !p.Configured() {
		zap.L().Warn("Intent parser called without a language model")
		return unknown(NotConfiguredMessage)
	}

	raw, err := p.gen.Generate(ctx, systemPrompt, "User: "+text)
	if err != nil {
		return p.record(unknown(err.Error()))
	}

	var r reply
	if err := json.Unmarshal([]byte(extractJSON(raw)), &r); err != nil {
		zap.L().Debug("Model reply is not JSON", zap.String("reply", truncate(raw, 200)), zap.Error(err))
		return p.record(unknown(fmt.Sprintf("could not read model reply: %v", err)))
	}

	in := Intent{
		Action:     parseAction(r.Action),
		Confidence: defaultConfidence,
		Message:    r.Message,
	}
	if r.Confidence != nil && *r.Confidence > 0 {
		in.Confidence = min(*r.Confidence, 1)
	}
	if in.Message == "" {
		in.Message = raw
	}

	payload, problems, err := p.decodePayload(in.Action, r.Data)
	if err != nil {
		return p.record(unknown(fmt.Sprintf("could not read model reply: %v", err)))
	}
	if len(problems) > 0 {
		zap.L().Info("Rejected model payload",
			zap.String("action", string(in.Action)),
			zap.Strings("problems", problems))
		return p.record(Intent{
			Action:     ActionUnknown,
			Confidence: 0,
			Message:    "I couldn't use that entry: " + strings.Join(problems, "; ") + ".",
			Invalid:    true,
			Problems:   problems,
		})
	}
	in.Payload = payload

	return p.record(in)
}

// GenerateResponse returns a free-form reply, or an apology when the call fails.
func (p *Parser) GenerateResponse(ctx context.Context, summary, question string) string {
	if !p.Configured() {
		return NotConfiguredMessage
	}
	text, err := p.gen.Generate(ctx, "", responsePrompt(summary, question))
	if err != nil {
		return "Sorry, I encountered an error: " + err.Error()
	}
	return text
}

func (p *Parser) record(in Intent) Intent {
	metrics.IntentsParsed.WithLabelValues(string(in.Action)).Inc()
	return in
}

// extractJSON prefers a fenced code block, then the outermost brace span.
func extractJSON(reply string) string {
	if m := fencedBlock.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start >= 0 && end > start {
		return reply[start : end+1]
	}
	return reply
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
