// Package conversation holds the chat state machine: the transcript, the
// active reasoning method, uploaded document names and the analysis state.
//
// A Controller confines its state to one event loop. Every public method
// runs as a loop task, and the analyzer's result is posted back to the same
// loop, so no state is ever touched from two goroutines.
package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"urbanmind-be/internal/entity"
	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/pkg/analysis"
	"urbanmind-be/pkg/eventloop"
)

const logModule = "Conversation"

const WelcomeMessage = "Hello! I'm UrbanMind AI, your intelligent urban planning assistant. " +
	"I can help you find the optimal location for a new high school in the Waterloo region. " +
	"Please describe your requirements and upload any relevant documents."

type Option func(*Controller)

func WithSessionID(id uuid.UUID) Option {
	return func(c *Controller) { c.id = id }
}

func WithAnalyzer(a analysis.Analyzer) Option {
	return func(c *Controller) { c.analyzer = a }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithLogger(l logger.ILogger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(c *Controller) { c.newID = newID }
}

type Controller struct {
	id       uuid.UUID
	loop     *eventloop.Loop
	analyzer analysis.Analyzer
	notifier Notifier
	logger   logger.ILogger
	now      func() time.Time
	newID    func() uuid.UUID

	// lifetime of in-flight analyses
	ctx    context.Context
	cancel context.CancelFunc

	// loop-confined
	transcript []entity.Message
	method     entity.ReasoningMethod
	documents  []entity.UploadedDocumentRef
	state      entity.AnalysisState
	version    uint64
}

// NewController starts a controller holding only the welcome message.
// Without WithAnalyzer it uses a SimulatedAnalyzer with the default delay.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		id:     uuid.New(),
		now:    time.Now,
		newID:  uuid.New,
		method: entity.DefaultReasoningMethod,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.analyzer == nil {
		c.analyzer = analysis.NewSimulatedAnalyzer(analysis.DefaultSimulatedDelay)
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.logger == nil {
		c.logger = logger.NewNopLogger()
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.loop = eventloop.New(64)

	c.transcript = []entity.Message{c.newMessage(entity.MessageRoleAssistant, WelcomeMessage)}
	c.state.LastCandidates = []entity.LocationCandidate{}
	c.documents = []entity.UploadedDocumentRef{}

	return c
}

func (c *Controller) ID() uuid.UUID {
	return c.id
}

// SetReasoningMethod replaces the active method. Analyses already running
// keep the method they were started with.
func (c *Controller) SetReasoningMethod(ctx context.Context, method entity.ReasoningMethod) error {
	if !method.Valid() {
		return entity.ErrUnknownReasoningMethod
	}
	return c.loop.Do(ctx, func() {
		c.method = method
		c.changed(ChangeReasoningMethodChanged)
	})
}

// ReasoningMethod reads back the active method.
func (c *Controller) ReasoningMethod(ctx context.Context) (entity.ReasoningMethod, error) {
	var method entity.ReasoningMethod
	if err := c.loop.Do(ctx, func() { method = c.method }); err != nil {
		return "", err
	}
	return method, nil
}

// RecordUploadedDocuments appends names in the given order. Duplicates are kept.
func (c *Controller) RecordUploadedDocuments(ctx context.Context, names []string) error {
	refs := make([]entity.UploadedDocumentRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, entity.UploadedDocumentRef{Name: name})
	}
	return c.loop.Do(ctx, func() {
		c.documents = append(c.documents, refs...)
		c.changed(ChangeDocumentsRecorded)
	})
}

// SubmitMessage appends a user message and starts an analysis in the
// background. It returns as soon as the message is in the transcript and
// the analysis is marked running.
func (c *Controller) SubmitMessage(ctx context.Context, text string) (entity.Message, error) {
	if strings.TrimSpace(text) == "" {
		return entity.Message{}, ErrEmptyInput
	}

	var (
		msg       entity.Message
		submitErr error
	)
	err := c.loop.Do(ctx, func() {
		if c.state.Running {
			submitErr = ErrAnalysisInProgress
			return
		}

		msg = c.newMessage(entity.MessageRoleUser, text)
		c.transcript = append(c.transcript, msg)
		c.state.Running = true

		req := analysis.Request{
			Method:    c.method,
			Prompt:    text,
			Documents: append([]entity.UploadedDocumentRef(nil), c.documents...),
		}
		c.changed(ChangeMessageSubmitted)

		go c.runAnalysis(req)
	})
	if err != nil {
		return entity.Message{}, err
	}
	if submitErr != nil {
		return entity.Message{}, submitErr
	}
	return msg, nil
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := c.loop.Do(ctx, func() { snap = c.snapshot() }); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Close cancels any running analysis and stops the loop. It must not be
// called from a Notifier.
func (c *Controller) Close() {
	c.cancel()
	c.loop.Close()
}

func (c *Controller) runAnalysis(req analysis.Request) {
	c.logger.Debug(logModule, "Analysis started", map[string]interface{}{
		"session_id": c.id.String(),
		"method":     string(req.Method),
		"documents":  len(req.Documents),
	})

	res, err := c.analyzer.Analyze(c.ctx, req)

	if postErr := c.loop.Post(func() { c.applyAnalysis(req, res, err) }); postErr != nil {
		c.logger.Debug(logModule, "Analysis result dropped, controller closed", map[string]interface{}{
			"session_id": c.id.String(),
		})
	}
}

func (c *Controller) applyAnalysis(req analysis.Request, res *analysis.Result, err error) {
	c.state.Running = false

	if err == nil && res == nil {
		err = errNoResult
	}
	if err != nil {
		failure := &AnalysisFailedError{Method: req.Method, Err: err}
		c.state.LastError = failure.Error()
		c.logger.Warn(logModule, "Analysis failed", map[string]interface{}{
			"session_id": c.id.String(),
			"method":     string(req.Method),
			"error":      err.Error(),
		})
		c.changed(ChangeAnalysisFailed)
		return
	}

	c.transcript = append(c.transcript, c.newMessage(entity.MessageRoleAssistant, res.Reply))
	narrative := res.Narrative
	c.state.LastNarrative = &narrative
	c.state.LastCandidates = append([]entity.LocationCandidate{}, res.Candidates...)
	c.state.LastError = ""

	c.logger.Info(logModule, "Analysis completed", map[string]interface{}{
		"session_id": c.id.String(),
		"method":     string(req.Method),
		"candidates": len(res.Candidates),
	})
	c.changed(ChangeAnalysisCompleted)
}

func (c *Controller) changed(kind ChangeKind) {
	c.version++
	c.notifier.Notify(Change{Kind: kind, Snapshot: c.snapshot()})
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		SessionId:         c.id,
		Version:           c.version,
		Transcript:        append([]entity.Message{}, c.transcript...),
		ReasoningMethod:   c.method,
		UploadedDocuments: append([]entity.UploadedDocumentRef{}, c.documents...),
		Analysis:          c.state.Clone(),
	}
}

func (c *Controller) newMessage(role entity.MessageRole, text string) entity.Message {
	return entity.Message{
		Id:        c.newID(),
		Role:      role,
		Text:      text,
		CreatedAt: c.now(),
	}
}
