// Package memory provides an in-process approval core. Executions are
// triggered in WAITING_FOR_HUMAN, decided to APPROVED or REJECTED and
// completed from APPROVED.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/hibernator/internal/clock"
	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/approval"
	"github.com/viant/hibernator/service/dao"
	"github.com/viant/hibernator/service/dao/store"
	"github.com/viant/hibernator/service/messaging"
	qmem "github.com/viant/hibernator/service/messaging/memory"
)

// ErrInvalidTransition is returned when a decision or completion does not
// apply to the current execution state.
var ErrInvalidTransition = errors.New("invalid state transition")

type service struct {
	mu           sync.Mutex
	instanceDAO  dao.Service[string, execution.Instance]
	decisionDAO  dao.Service[string, approval.Decision]
	requestDAO   dao.Service[string, approval.Request]
	events       *qmem.Queue[approval.Event]
	initialState execution.State
}

// Option customises the memory core.
type Option func(*service)

// WithInitialState sets the state given to triggered executions.
func WithInitialState(state execution.State) Option {
	return func(s *service) { s.initialState = state }
}

// WithQueueConfig sets the event queue configuration.
func WithQueueConfig(config qmem.Config) Option {
	return func(s *service) { s.events = qmem.NewQueue[approval.Event](config) }
}

func instanceKey(i *execution.Instance) string { return i.ID }
func instanceState(i *execution.Instance) string {
	return string(i.State)
}
func decisionKey(d *approval.Decision) string { return d.ExecutionID }
func requestKey(r *approval.Request) string   { return r.ExecutionID }

// New creates an in-memory core.
func New(options ...Option) approval.Core {
	ret := &service{
		instanceDAO: store.NewMemoryStore[string, execution.Instance](instanceKey,
			store.WithStateSelector[string, execution.Instance](instanceState)),
		decisionDAO:  store.NewMemoryStore[string, approval.Decision](decisionKey),
		requestDAO:   store.NewMemoryStore[string, approval.Request](requestKey),
		initialState: execution.StateWaitingForHuman,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.events == nil {
		config := qmem.DefaultConfig()
		ret.events = qmem.NewQueue[approval.Event](config)
	}
	return ret
}

func (s *service) Instances(ctx context.Context) ([]*execution.Instance, error) {
	instances, err := s.instanceDAO.List(ctx)
	if err != nil {
		return nil, err
	}
	sortByID(instances)
	return instances, nil
}

// RequestDecision gates the execution on a human, creating it if unknown.
func (s *service) RequestDecision(ctx context.Context, request *approval.Request) error {
	if request == nil || request.ExecutionID == "" {
		return fmt.Errorf("invalid decision request: %w", dao.ErrInvalidID)
	}
	if request.Decision != approval.DecisionRequestApproval {
		return fmt.Errorf("unsupported decision: %q", request.Decision)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	instance, err := s.instanceDAO.Load(ctx, request.ExecutionID)
	switch {
	case dao.IsNotFound(err):
		instance = &execution.Instance{ID: request.ExecutionID}
	case err != nil:
		return err
	}
	switch instance.State {
	case execution.StateApproved, execution.StateRejected, execution.StateCompleted:
		return fmt.Errorf("execution %s already %s: %w", instance.ID, instance.State, ErrInvalidTransition)
	}
	instance.State = execution.StateWaitingForHuman
	if err = s.instanceDAO.Save(ctx, instance); err != nil {
		return err
	}
	if err = s.requestDAO.Save(ctx, request); err != nil {
		return err
	}
	s.publish(ctx, approval.TopicDecisionRequested, instance.ID, request)
	return nil
}

// Trigger registers a new execution.
func (s *service) Trigger(ctx context.Context, id string, triggerContext map[string]interface{}) (*execution.Instance, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.instanceDAO.Load(ctx, id); err == nil {
		return nil, fmt.Errorf("execution %s already exists", id)
	}
	instance := &execution.Instance{ID: id, State: s.initialState, TriggerContext: triggerContext}
	if err := s.instanceDAO.Save(ctx, instance); err != nil {
		return nil, err
	}
	s.publish(ctx, approval.TopicInstanceCreated, id, instance)
	return instance, nil
}

// ListPending returns executions waiting for a human.
func (s *service) ListPending(ctx context.Context) ([]*execution.Instance, error) {
	instances, err := s.instanceDAO.List(ctx, dao.NewParameter(dao.StateParameter, string(execution.StateWaitingForHuman)))
	if err != nil {
		return nil, err
	}
	sortByID(instances)
	return instances, nil
}

func (s *service) Decide(ctx context.Context, id string, approved bool, reason string) (*approval.Decision, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	instance, err := s.instanceDAO.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("execution %s: %w", id, err)
	}
	if instance.State != execution.StateWaitingForHuman {
		return nil, fmt.Errorf("execution %s is %s: %w", id, instance.State, ErrInvalidTransition)
	}
	instance.State = execution.StateRejected
	if approved {
		instance.State = execution.StateApproved
	}
	if err = s.instanceDAO.Save(ctx, instance); err != nil {
		return nil, err
	}
	decision := &approval.Decision{ExecutionID: id, Approved: approved, Reason: reason, DecidedAt: clock.Now()}
	if err = s.decisionDAO.Save(ctx, decision); err != nil {
		return nil, err
	}
	s.publish(ctx, approval.TopicDecisionCreated, id, decision)
	return decision, nil
}

func (s *service) Complete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	instance, err := s.instanceDAO.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("execution %s: %w", id, err)
	}
	if instance.State != execution.StateApproved {
		return fmt.Errorf("execution %s is %s: %w", id, instance.State, ErrInvalidTransition)
	}
	instance.State = execution.StateCompleted
	if err = s.instanceDAO.Save(ctx, instance); err != nil {
		return err
	}
	s.publish(ctx, approval.TopicInstanceCompleted, id, instance)
	return nil
}

func (s *service) Queue() messaging.Queue[approval.Event] { return s.events }

// publish never blocks the core; events are dropped when nobody drains the
// queue.
func (s *service) publish(_ context.Context, topic, id string, data interface{}) {
	_ = s.events.TryPublish(&approval.Event{Topic: topic, ExecutionID: id, Data: data})
}

func sortByID(instances []*execution.Instance) {
	sort.Slice(instances, func(i, j int) bool { return instances[i].ID < instances[j].ID })
}

var _ approval.Core = (*service)(nil)
