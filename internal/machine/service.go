// Package machine runs a coffee maker as a long-lived service: it serialises
// access to the core, persists committed state and emits purchase events.
package machine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/catalog"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/coffee"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/obs"
)

var (
	// ErrRecipeRejected is returned when the book refuses a valid recipe:
	// the name is taken or every slot is occupied.
	ErrRecipeRejected = errors.New("recipe rejected")
	ErrSlotEmpty      = errors.New("slot is empty")
)

// StateStore keeps the latest committed snapshot.
type StateStore interface {
	Load(ctx context.Context) (model.Snapshot, bool, error)
	Save(ctx context.Context, snap model.Snapshot) error
}

// EventSink accepts purchase events for asynchronous delivery.
type EventSink interface {
	Enqueue(ev model.PurchaseEvent) bool
	NextSequence() uint64
}

type Service struct {
	mu      sync.Mutex
	maker   *coffee.Maker
	version uint64

	store  StateStore
	sink   EventSink
	tracer trace.Tracer
	now    func() time.Time

	outcomes [4]atomic.Uint64
}

// New wraps a fresh maker. store, sink and tp may be nil.
func New(store StateStore, sink EventSink, tp trace.TracerProvider) *Service {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Service{
		maker:  coffee.NewMaker(),
		store:  store,
		sink:   sink,
		tracer: tp.Tracer(obs.TracerName),
		now:    time.Now,
	}
}

// Restore replaces the maker with the stored snapshot, if there is one.
func (s *Service) Restore(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	ctx, span := s.tracer.Start(ctx, "machine.restore")
	defer span.End()
	snap, ok, err := s.store.Load(ctx)
	if err != nil {
		fail(span, err)
		return false, err
	}
	if !ok {
		return false, nil
	}
	maker, err := fromSnapshot(snap)
	if err != nil {
		fail(span, err)
		return false, err
	}
	s.mu.Lock()
	s.maker = maker
	s.version = snap.Version
	s.mu.Unlock()
	span.SetAttributes(attribute.Int64("machine.version", int64(snap.Version)))
	obs.Logger.Info("state_restored", "version", snap.Version)
	return true, nil
}

// Seed loads c into a fresh maker and persists the result.
func (s *Service) Seed(ctx context.Context, c *catalog.Catalog) error {
	ctx, span := s.tracer.Start(ctx, "machine.seed")
	defer span.End()
	maker := coffee.NewMaker()
	if err := c.Apply(maker); err != nil {
		fail(span, err)
		return err
	}
	s.mu.Lock()
	s.maker = maker
	snap := s.commitLocked()
	s.mu.Unlock()
	s.save(ctx, snap)
	obs.Logger.Info("catalog_seeded", "recipes", len(c.Recipes))
	return nil
}

func (s *Service) Recipes() []model.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slots(s.maker.Recipes())
}

// AddRecipe validates in and stores it in the lowest free slot.
func (s *Service) AddRecipe(ctx context.Context, in model.RecipeInput) (int, error) {
	ctx, span := s.tracer.Start(ctx, "machine.add_recipe", trace.WithAttributes(attribute.String("recipe.name", in.Name)))
	defer span.End()
	r, err := build(in)
	if err != nil {
		fail(span, err)
		return -1, err
	}
	s.mu.Lock()
	if !s.maker.AddRecipe(r) {
		s.mu.Unlock()
		err := fmt.Errorf("%w: %q is already present or the book is full", ErrRecipeRejected, in.Name)
		fail(span, err)
		return -1, err
	}
	index := slotOf(s.maker.Recipes(), r)
	snap := s.commitLocked()
	s.mu.Unlock()
	s.save(ctx, snap)
	span.SetAttributes(attribute.Int("recipe.slot", index))
	obs.Logger.Info("recipe_added", "slot", index, "recipe", in.Name)
	return index, nil
}

// EditRecipe replaces the recipe at index and returns the previous name.
func (s *Service) EditRecipe(ctx context.Context, index int, in model.RecipeInput) (string, error) {
	ctx, span := s.tracer.Start(ctx, "machine.edit_recipe", trace.WithAttributes(
		attribute.Int("recipe.slot", index),
		attribute.String("recipe.name", in.Name),
	))
	defer span.End()
	r, err := build(in)
	if err != nil {
		fail(span, err)
		return "", err
	}
	s.mu.Lock()
	prev, ok, err := s.maker.EditRecipe(index, r)
	if err != nil || !ok {
		s.mu.Unlock()
		if err == nil {
			err = fmt.Errorf("%w: %d", ErrSlotEmpty, index)
		}
		fail(span, err)
		return "", err
	}
	snap := s.commitLocked()
	s.mu.Unlock()
	s.save(ctx, snap)
	obs.Logger.Info("recipe_edited", "slot", index, "previous", prev, "recipe", in.Name)
	return prev, nil
}

// DeleteRecipe empties the slot at index and returns the removed name.
func (s *Service) DeleteRecipe(ctx context.Context, index int) (string, error) {
	ctx, span := s.tracer.Start(ctx, "machine.delete_recipe", trace.WithAttributes(attribute.Int("recipe.slot", index)))
	defer span.End()
	s.mu.Lock()
	name, ok, err := s.maker.DeleteRecipe(index)
	if err != nil || !ok {
		s.mu.Unlock()
		if err == nil {
			err = fmt.Errorf("%w: %d", ErrSlotEmpty, index)
		}
		fail(span, err)
		return "", err
	}
	snap := s.commitLocked()
	s.mu.Unlock()
	s.save(ctx, snap)
	obs.Logger.Info("recipe_deleted", "slot", index, "recipe", name)
	return name, nil
}

func (s *Service) Inventory() model.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stock(s.maker.Inventory())
}

// Report returns the four-line inventory report.
func (s *Service) Report() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maker.CheckInventory()
}

// AddInventory adds all four quantities or none of them.
func (s *Service) AddInventory(ctx context.Context, in model.InventoryInput) (model.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "machine.add_inventory")
	defer span.End()
	s.mu.Lock()
	if err := s.maker.AddInventory(string(in.Coffee), string(in.Milk), string(in.Sugar), string(in.Chocolate)); err != nil {
		s.mu.Unlock()
		fail(span, err)
		return model.Inventory{}, err
	}
	inv := stock(s.maker.Inventory())
	snap := s.commitLocked()
	s.mu.Unlock()
	s.save(ctx, snap)
	obs.Logger.Info("inventory_added", "coffee", inv.Coffee, "milk", inv.Milk, "sugar", inv.Sugar, "chocolate", inv.Chocolate)
	return inv, nil
}

// MakeCoffee sells the recipe at index for paid. Every attempt, successful
// or not, produces a purchase event.
func (s *Service) MakeCoffee(ctx context.Context, index, paid int, requestID string) model.PurchaseEvent {
	ctx, span := s.tracer.Start(ctx, "machine.make_coffee", trace.WithAttributes(
		attribute.Int("purchase.slot", index),
		attribute.Int("purchase.paid", paid),
	))
	defer span.End()

	s.mu.Lock()
	p := s.maker.Purchase(index, paid)
	ev := model.PurchaseEvent{
		TransactionID: uuid.NewString(),
		RequestID:     requestID,
		RecipeIndex:   index,
		Recipe:        p.Recipe,
		Price:         p.Price,
		AmountPaid:    paid,
		Change:        p.Change,
		Outcome:       p.Outcome.String(),
		Inventory:     stock(s.maker.Inventory()),
		OccurredAt:    s.now().UTC(),
	}
	if s.sink != nil {
		ev.Sequence = s.sink.NextSequence()
	}
	var snap model.Snapshot
	if p.Outcome == coffee.Dispensed {
		snap = s.commitLocked()
	}
	s.mu.Unlock()

	if int(p.Outcome) < len(s.outcomes) {
		s.outcomes[p.Outcome].Add(1)
	}
	if p.Outcome == coffee.Dispensed {
		s.save(ctx, snap)
	}
	span.SetAttributes(
		attribute.String("purchase.recipe", p.Recipe),
		attribute.Int("purchase.price", p.Price),
		attribute.Int("purchase.change", p.Change),
		attribute.String("purchase.outcome", ev.Outcome),
		attribute.String("purchase.transaction_id", ev.TransactionID),
	)
	if s.sink != nil && !s.sink.Enqueue(ev) {
		obs.Logger.Warn("purchase_event_dropped", "transaction_id", ev.TransactionID, "reason", "intake closed")
	}
	obs.Logger.Info("purchase_completed",
		"transaction_id", ev.TransactionID,
		"request_id", requestID,
		"slot", index,
		"recipe", p.Recipe,
		"paid", paid,
		"change", p.Change,
		"outcome", ev.Outcome,
	)
	return ev
}

// Outcomes returns purchase counts keyed by outcome name.
func (s *Service) Outcomes() map[string]uint64 {
	out := make(map[string]uint64, len(s.outcomes))
	for i := range s.outcomes {
		out[coffee.Outcome(i).String()] = s.outcomes[i].Load()
	}
	return out
}

// Snapshot returns the current committed state.
func (s *Service) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) commitLocked() model.Snapshot {
	s.version++
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() model.Snapshot {
	snap := model.Snapshot{Version: s.version, Inventory: stock(s.maker.Inventory())}
	for i, r := range s.maker.Recipes() {
		snap.Recipes[i] = recipe(r)
	}
	return snap
}

// save persists snap. The mutation has already committed in memory, so a
// failure is only logged.
func (s *Service) save(ctx context.Context, snap model.Snapshot) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, snap); err != nil {
		obs.Logger.Error("state_save_failed", "version", snap.Version, "error", err.Error())
	}
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func build(in model.RecipeInput) (*coffee.Recipe, error) {
	return coffee.BuildRecipe(in.Name, string(in.Price), string(in.Coffee), string(in.Milk), string(in.Sugar), string(in.Chocolate))
}

func slotOf(book [coffee.Capacity]*coffee.Recipe, r *coffee.Recipe) int {
	for i, existing := range book {
		if existing == r {
			return i
		}
	}
	return -1
}

func slots(book [coffee.Capacity]*coffee.Recipe) []model.Slot {
	out := make([]model.Slot, 0, coffee.Capacity)
	for i, r := range book {
		out = append(out, model.Slot{Index: i, Recipe: recipe(r)})
	}
	return out
}

func recipe(r *coffee.Recipe) *model.Recipe {
	if r == nil {
		return nil
	}
	return &model.Recipe{
		Name:      r.Name(),
		Price:     r.Price(),
		Coffee:    r.AmtCoffee(),
		Milk:      r.AmtMilk(),
		Sugar:     r.AmtSugar(),
		Chocolate: r.AmtChocolate(),
	}
}

func stock(inv *coffee.Inventory) model.Inventory {
	return model.Inventory{
		Coffee:    inv.Coffee(),
		Milk:      inv.Milk(),
		Sugar:     inv.Sugar(),
		Chocolate: inv.Chocolate(),
	}
}

func fromSnapshot(snap model.Snapshot) (*coffee.Maker, error) {
	var book [coffee.Capacity]*coffee.Recipe
	for i, r := range snap.Recipes {
		if r == nil {
			continue
		}
		built, err := coffee.BuildRecipe(r.Name, itoa(r.Price), itoa(r.Coffee), itoa(r.Milk), itoa(r.Sugar), itoa(r.Chocolate))
		if err != nil {
			return nil, fmt.Errorf("restore slot %d: %w", i, err)
		}
		book[i] = built
	}
	rb := coffee.NewRecipeBookFrom(book)
	inv := coffee.NewInventory()
	inv.SetCoffee(snap.Inventory.Coffee)
	inv.SetMilk(snap.Inventory.Milk)
	inv.SetSugar(snap.Inventory.Sugar)
	inv.SetChocolate(snap.Inventory.Chocolate)
	return coffee.NewMakerWith(rb, inv), nil
}

func itoa(n int) string { return strconv.Itoa(n) }
