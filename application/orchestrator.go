// Package application composes the reasoning kernel: it is the only
// component that drives the state machine, and it serializes the
// synchronous entry point against the reactive loop.
package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigil-agent/vigil/domain/event"
	"github.com/vigil-agent/vigil/domain/machine"
	"github.com/vigil-agent/vigil/domain/memory"
	"github.com/vigil-agent/vigil/domain/prompt"
	"github.com/vigil-agent/vigil/domain/protocol"
	"github.com/vigil-agent/vigil/domain/tool"
	"github.com/vigil-agent/vigil/infrastructure/assembler"
	"github.com/vigil-agent/vigil/infrastructure/generation"
	"github.com/vigil-agent/vigil/infrastructure/logging"
	inframem "github.com/vigil-agent/vigil/infrastructure/memory"
	"github.com/vigil-agent/vigil/infrastructure/resilience"
	"github.com/vigil-agent/vigil/infrastructure/watchdog"
)

// Orchestrator owns the state machine's current-state pointer. At most
// one of ProcessMessage, a monitoring tick, or ProcessEvent is active
// at a time; the run mutex enforces the single-owner rule.
type Orchestrator struct {
	runMu sync.Mutex

	machine   *machine.Machine
	generator generation.Client
	tools     tool.Registry
	executor  *resilience.Executor
	memory    memory.Manager
	assembler prompt.Assembler
	protocols *protocol.Library
	watchdog  *watchdog.Watchdog

	maxCycles   int
	timeout     time.Duration
	model       string
	temperature float64
	maxTokens   int
}

// Config configures an Orchestrator. Generator is required; every other
// collaborator has a default.
type Config struct {
	Machine   *machine.Machine
	Generator generation.Client
	Tools     tool.Registry
	Executor  *resilience.Executor
	Memory    memory.Manager
	Assembler prompt.Assembler
	Protocols *protocol.Library
	Watchdog  *watchdog.Watchdog

	// MaxCycles bounds generate/tool rounds per call.
	MaxCycles int
	// MaxAttempts bounds generation retries per round.
	MaxAttempts int
	// Timeout is the watchdog deadline for one call.
	Timeout time.Duration

	// Model, Temperature, and MaxTokens are passed through to the
	// generation client.
	Model       string
	Temperature float64
	MaxTokens   int
}

// New creates an orchestrator with the given configuration.
func New(config Config) (*Orchestrator, error) {
	if config.Generator == nil {
		return nil, ErrNoGenerator
	}

	o := &Orchestrator{
		machine:     config.Machine,
		generator:   config.Generator,
		tools:       config.Tools,
		executor:    config.Executor,
		memory:      config.Memory,
		assembler:   config.Assembler,
		protocols:   config.Protocols,
		watchdog:    config.Watchdog,
		maxCycles:   config.MaxCycles,
		timeout:     config.Timeout,
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
	}

	if o.machine == nil {
		o.machine = machine.NewDefault()
	}
	if o.tools == nil {
		o.tools = tool.NewRegistry()
	}
	if o.executor == nil {
		o.executor = resilience.NewDefaultExecutor()
	}
	if o.memory == nil {
		o.memory = inframem.NewInMem(50)
	}
	if o.assembler == nil {
		o.assembler = assembler.New()
	}
	if o.protocols == nil {
		o.protocols = protocol.NewLibrary()
	}
	if o.watchdog == nil {
		o.watchdog = watchdog.New()
	}
	if o.maxCycles <= 0 {
		o.maxCycles = 10
	}
	if o.timeout <= 0 {
		o.timeout = 2 * time.Minute
	}

	attempts := config.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	if attempts > 1 {
		cfg := resilience.DefaultRetrierConfig()
		cfg.MaxAttempts = attempts
		o.generator = resilience.NewRetrier(o.generator, cfg)
	}

	return o, nil
}

// Reply is the result of a synchronous call.
type Reply struct {
	SessionID string
	Text      string
	State     string
	Cycles    int
}

// ProcessMessage handles one synchronous request. The current state is
// left wherever the last transition put it.
func (o *Orchestrator) ProcessMessage(ctx context.Context, input string) (Reply, error) {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	sessionID := uuid.NewString()

	logging.Info().
		Add(logging.Component("orchestrator")).
		Add(logging.Str("session_id", sessionID)).
		Add(logging.State(o.machine.CurrentState())).
		Msg("message received")

	if err := o.fire(machine.TriggerUserMessage, nil); err != nil {
		return Reply{SessionID: sessionID, State: o.machine.CurrentState()}, err
	}
	if err := o.fire(machine.TriggerProcessStart, nil); err != nil {
		return Reply{SessionID: sessionID, State: o.machine.CurrentState()}, err
	}

	if err := o.memory.Append(ctx, "user", input); err != nil {
		logging.Warn().
			Add(logging.Component("orchestrator")).
			Add(logging.ErrorField(err)).
			Msg("history append failed")
	}

	text, cycles, err := o.runCycle(ctx, input, nil)
	if err != nil {
		return Reply{SessionID: sessionID, State: o.machine.CurrentState(), Cycles: cycles}, err
	}

	if err := o.memory.Append(ctx, "assistant", text); err != nil {
		logging.Warn().
			Add(logging.Component("orchestrator")).
			Add(logging.ErrorField(err)).
			Msg("history append failed")
	}
	if err := o.fire(machine.TriggerProcessDone, nil); err != nil {
		return Reply{SessionID: sessionID, Text: text, State: o.machine.CurrentState(), Cycles: cycles}, err
	}

	return Reply{
		SessionID: sessionID,
		Text:      text,
		State:     o.machine.CurrentState(),
		Cycles:    cycles,
	}, nil
}

// StartMonitoring enters the reactive loop. Each tick sleeps the
// watchdog's poll interval, polls every source, and processes the
// returned events strictly in order. The loop observes ctx between
// ticks, never mid-poll, and leaves the monitoring state before
// returning.
func (o *Orchestrator) StartMonitoring(ctx context.Context, sources ...event.Source) error {
	o.runMu.Lock()
	res, err := o.machine.Fire(machine.TriggerMonitoring, nil)
	if err != nil {
		o.runMu.Unlock()
		return o.hookFailure(err)
	}
	if !res.Transitioned && !o.machine.Is(machine.StateMonitoring) {
		o.runMu.Unlock()
		return fmt.Errorf("%w: current state %s", ErrNotMonitorable, res.From)
	}
	o.runMu.Unlock()

	logging.Info().
		Add(logging.Component("orchestrator")).
		Add(logging.Int("sources", len(sources))).
		Msg("monitoring started")

	seen := make(map[string]bool)
	tick := 0
	for {
		select {
		case <-ctx.Done():
			return o.stopMonitoring()
		case <-time.After(o.watchdog.PollInterval()):
		}

		tick++
		o.runMu.Lock()
		o.pollTick(ctx, sources, seen, tick)
		o.runMu.Unlock()
	}
}

// pollTick polls every source and processes the events of this tick in
// arrival order. Caller holds runMu.
func (o *Orchestrator) pollTick(ctx context.Context, sources []event.Source, seen map[string]bool, tick int) {
	var batch []event.Event
	for _, src := range sources {
		events, err := src.Poll(ctx)
		if err != nil {
			logging.Warn().
				Add(logging.Component("orchestrator")).
				Add(logging.Source(src.Name())).
				Add(logging.Tick(tick)).
				Add(logging.ErrorField(err)).
				Msg("poll failed")
			continue
		}
		batch = append(batch, events...)
	}

	for _, ev := range batch {
		if seen[ev.ID()] {
			continue
		}
		seen[ev.ID()] = true

		if err := o.processEvent(ctx, ev); err != nil {
			logging.Error().
				Add(logging.Component("orchestrator")).
				Add(logging.EventID(ev.ID())).
				Add(logging.Tick(tick)).
				Add(logging.ErrorField(err)).
				Msg("event processing failed")
			o.recoverToMonitoring()
		}
	}
}

// stopMonitoring fires the transition out of the monitoring state.
func (o *Orchestrator) stopMonitoring() error {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	if err := o.fire(machine.TriggerStandby, nil); err != nil {
		return err
	}
	logging.Info().
		Add(logging.Component("orchestrator")).
		Add(logging.State(o.machine.CurrentState())).
		Msg("monitoring stopped")
	return nil
}

// recoverToMonitoring returns the machine to the monitoring state after
// a failed event cycle so the loop can continue.
func (o *Orchestrator) recoverToMonitoring() {
	if o.machine.Is(machine.StateMonitoring) {
		return
	}
	if res, err := o.machine.Fire(machine.TriggerEventHandled, nil); err == nil && res.Transitioned {
		return
	}
	if _, err := o.machine.Force(machine.StateMonitoring, nil); err != nil {
		logging.Error().
			Add(logging.Component("orchestrator")).
			Add(logging.ErrorField(err)).
			Msg("recovery to monitoring failed")
	}
}

// ProcessEvent handles one observed event outside the reactive loop.
func (o *Orchestrator) ProcessEvent(ctx context.Context, ev event.Event) error {
	o.runMu.Lock()
	defer o.runMu.Unlock()
	return o.processEvent(ctx, ev)
}

// processEvent runs an event-seeded reasoning cycle. Its observable
// effects are state transitions, tool and generation calls, and memory
// writes; no value is returned to an external caller. Caller holds
// runMu.
func (o *Orchestrator) processEvent(ctx context.Context, ev event.Event) error {
	var trigger string
	switch ev.(type) {
	case *event.Email:
		trigger = machine.TriggerInboxActivity
	case *event.Task:
		trigger = machine.TriggerTaskActivity
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}

	logging.Info().
		Add(logging.Component("orchestrator")).
		Add(logging.EventKind(string(ev.Kind()))).
		Add(logging.EventID(ev.ID())).
		Add(logging.Int("priority", ev.Priority())).
		Msg("event observed")

	if err := o.fire(trigger, map[string]any{"event_id": ev.ID(), "priority": ev.Priority()}); err != nil {
		return err
	}

	text, _, err := o.runCycle(ctx, ev.Describe(), map[string]any{"event_id": ev.ID()})
	if err != nil {
		return err
	}

	summary := text
	if summary == "" {
		summary = "handled: " + ev.Describe()
	}
	if err := o.memory.Write(ctx, "event:"+ev.ID(), summary); err != nil {
		logging.Warn().
			Add(logging.Component("orchestrator")).
			Add(logging.EventID(ev.ID())).
			Add(logging.ErrorField(err)).
			Msg("event summary write failed")
	}

	return o.fire(machine.TriggerEventHandled, nil)
}

// runCycle is the bounded reasoning loop shared by both modes: assemble
// context, generate, execute requested tools, and repeat until a final
// answer, the cycle limit, or the watchdog deadline. The timeout check
// happens only at cycle boundaries, bracketing the suspension points.
// Caller holds runMu.
func (o *Orchestrator) runCycle(ctx context.Context, input string, vars map[string]any) (string, int, error) {
	o.watchdog.StartTimer(o.timeout)
	defer o.watchdog.StopTimer()

	msgs, err := o.historyMessages(ctx)
	if err != nil {
		logging.Warn().
			Add(logging.Component("orchestrator")).
			Add(logging.ErrorField(err)).
			Msg("history unavailable")
	}
	msgs = append(msgs, generation.Message{Role: "user", Content: input})

	for cycle := 1; cycle <= o.maxCycles; cycle++ {
		if o.watchdog.TimedOut() {
			return "", cycle, o.timeoutFailure(cycle, vars)
		}

		system, err := o.assembleContext(ctx, input)
		if err != nil {
			return "", cycle, &CycleError{Kind: FailureGeneration, State: o.machine.CurrentState(), Cycle: cycle, Err: err}
		}

		start := time.Now()
		resp, err := o.generator.Complete(ctx, generation.Request{
			Model:       o.model,
			System:      system,
			Messages:    msgs,
			Temperature: o.temperature,
			MaxTokens:   o.maxTokens,
		})
		if err != nil {
			return "", cycle, &CycleError{Kind: FailureGeneration, State: o.machine.CurrentState(), Cycle: cycle, Err: err}
		}

		logging.Debug().
			Add(logging.Component("orchestrator")).
			Add(logging.Cycle(cycle)).
			Add(logging.Provider(o.generator.Name())).
			Add(logging.Duration(time.Since(start))).
			Add(logging.Int("tool_calls", len(resp.ToolCalls))).
			Add(logging.Int("tokens", resp.Usage.TotalTokens)).
			Msg("generation complete")

		if resp.Final() {
			return resp.Text, cycle, nil
		}

		if resp.Text != "" {
			msgs = append(msgs, generation.Message{Role: "assistant", Content: resp.Text})
		}

		if err := o.fire(machine.TriggerActionExecute, vars); err != nil {
			return "", cycle, err
		}
		for _, call := range resp.ToolCalls {
			output, err := o.invokeTool(ctx, call, cycle)
			if err != nil {
				return "", cycle, err
			}
			msgs = append(msgs, generation.Message{Role: "tool", Content: output, ToolCallID: call.ID})
		}
		if err := o.fire(machine.TriggerActionDone, vars); err != nil {
			return "", cycle, err
		}

		if o.watchdog.TimedOut() {
			return "", cycle, o.timeoutFailure(cycle, vars)
		}
	}

	return "", o.maxCycles, &CycleError{Kind: FailureExhausted, State: o.machine.CurrentState(), Cycle: o.maxCycles}
}

// invokeTool resolves and executes one requested tool call.
func (o *Orchestrator) invokeTool(ctx context.Context, call generation.ToolCall, cycle int) (string, error) {
	t, ok := o.tools.Get(call.Name)
	if !ok {
		return "", &CycleError{
			Kind:  FailureTool,
			State: o.machine.CurrentState(),
			Cycle: cycle,
			Err:   fmt.Errorf("%w: %s", tool.ErrNotFound, call.Name),
		}
	}

	start := time.Now()
	result, err := o.executor.Execute(ctx, t, call.Arguments)
	if err != nil {
		return "", &CycleError{
			Kind:  FailureTool,
			State: o.machine.CurrentState(),
			Cycle: cycle,
			Err:   fmt.Errorf("tool %s: %w", call.Name, err),
		}
	}

	logging.Debug().
		Add(logging.Component("orchestrator")).
		Add(logging.ToolName(call.Name)).
		Add(logging.Cycle(cycle)).
		Add(logging.Duration(time.Since(start))).
		Msg("tool executed")

	return result.OutputString(), nil
}

// timeoutFailure fires the timeout trigger and builds the failure.
func (o *Orchestrator) timeoutFailure(cycle int, vars map[string]any) error {
	state := o.machine.CurrentState()
	if _, err := o.machine.Fire(machine.TriggerTimeout, vars); err != nil {
		logging.Error().
			Add(logging.Component("orchestrator")).
			Add(logging.Trigger(machine.TriggerTimeout)).
			Add(logging.ErrorField(err)).
			Msg("timeout transition failed")
	}
	return &CycleError{Kind: FailureTimeout, State: state, Cycle: cycle}
}

// assembleContext builds the system prompt from the active state and
// the collaborators.
func (o *Orchestrator) assembleContext(ctx context.Context, input string) (string, error) {
	def := o.machine.Current()

	snap, err := o.memory.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("memory snapshot: %w", err)
	}

	pc := prompt.Context{
		State:       def.Name,
		Instruction: def.Instruction,
		Input:       input,
		Protocols:   o.protocols.Query(def.ProtocolQuery),
		Tools:       o.tools.Descriptors(),
		Memory:      snap,
	}
	if len(def.Requires) > 0 {
		pc.Set("requires", fmt.Sprintf("%v", def.Requires))
	}

	return o.assembler.Assemble(pc)
}

// historyMessages converts recent memory into conversation turns.
func (o *Orchestrator) historyMessages(ctx context.Context) ([]generation.Message, error) {
	recent, err := o.memory.Recent(ctx, 20)
	if err != nil {
		return nil, err
	}
	msgs := make([]generation.Message, 0, len(recent))
	for _, m := range recent {
		msgs = append(msgs, generation.Message{Role: m.Role, Content: m.Content})
	}
	return msgs, nil
}

// fire drives the machine and translates hook failures. A trigger with
// no matching rule is a logged no-op.
func (o *Orchestrator) fire(trigger string, vars map[string]any) error {
	res, err := o.machine.Fire(trigger, vars)
	if err != nil {
		return o.hookFailure(err)
	}

	if res.Transitioned {
		logging.Info().
			Add(logging.Component("machine")).
			Add(logging.FromState(res.From)).
			Add(logging.ToState(res.To)).
			Add(logging.Trigger(trigger)).
			Msg("transition")
	} else {
		logging.Trace().
			Add(logging.Component("machine")).
			Add(logging.State(res.From)).
			Add(logging.Trigger(trigger)).
			Msg("no matching transition")
	}
	return nil
}

func (o *Orchestrator) hookFailure(err error) error {
	var hookErr *machine.HookError
	if errors.As(err, &hookErr) {
		return &CycleError{Kind: FailureHook, State: o.machine.CurrentState(), Err: err}
	}
	return err
}

// Machine exposes the state machine for configuration and tests.
func (o *Orchestrator) Machine() *machine.Machine { return o.machine }

// Protocols exposes the protocol library for configuration.
func (o *Orchestrator) Protocols() *protocol.Library { return o.protocols }

// Tools exposes the tool registry for configuration.
func (o *Orchestrator) Tools() tool.Registry { return o.tools }

// Status is a point-in-time view of the orchestrator.
type Status struct {
	State        string
	Previous     string
	TimerArmed   bool
	PollInterval time.Duration
	History      []machine.Record
}

// Status reports the current state without disturbing a running cycle.
func (o *Orchestrator) Status() Status {
	return Status{
		State:        o.machine.CurrentState(),
		Previous:     o.machine.Previous(),
		TimerArmed:   o.watchdog.Armed(),
		PollInterval: o.watchdog.PollInterval(),
		History:      o.machine.History(10),
	}
}
