package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/domain/models"
	"github.com/agrovista/agrovista/internal/repository/localstore"
)

const dateLayout = "2006-01-02"

// ErrNotFound indicates the requested item does not exist in the collection.
var ErrNotFound = errors.New("inventory item not found")

// ErrFormClosed indicates a draft operation was attempted without an open form.
var ErrFormClosed = errors.New("form is not open")

// ErrUnknownField indicates a draft update referenced a field that does not exist.
var ErrUnknownField = errors.New("unknown draft field")

// ValidationError reports which draft fields failed the save-time checks.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Draft is the transient item being edited. Numeric fields are pointers so an
// explicit zero is distinguishable from unset.
type Draft struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
	Quantity *float64        `json:"quantity"`
	Unit     string          `json:"unit"`
	MinStock *float64        `json:"minStock"`
	Supplier string          `json:"supplier"`
	Cost     *float64        `json:"cost"`
}

func defaultDraft() Draft {
	return Draft{Category: models.CategorySeeds}
}

func draftOf(item models.InventoryItem) Draft {
	quantity := item.Quantity
	minStock := item.MinStock
	return Draft{
		Name:     item.Name,
		Category: item.Category,
		Quantity: &quantity,
		Unit:     item.Unit,
		MinStock: &minStock,
		Supplier: item.Supplier,
		Cost:     item.Cost,
	}
}

// FormView exposes the current edit session to the HTTP layer.
type FormView struct {
	Open      bool   `json:"open"`
	Mode      string `json:"mode,omitempty"`
	EditingID string `json:"editing_id,omitempty"`
	Draft     Draft  `json:"draft"`
}

// Service owns the inventory collection, its search view and its single edit
// session. Every mutation is written through to the store before returning.
type Service struct {
	store  localstore.Repository
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	items     []models.InventoryItem
	formOpen  bool
	editingID string
	draft     Draft
}

// NewService loads the persisted collection, falling back to the injected
// seed when nothing usable is stored, and registers for external reloads.
func NewService(ctx context.Context, store localstore.Repository, seed []models.InventoryItem, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		draft:  defaultDraft(),
	}

	var loaded []models.InventoryItem
	switch err := store.Load(ctx, localstore.KeyInventory, &loaded); {
	case err == nil:
		s.items = loaded
	case errors.Is(err, localstore.ErrNoData):
		s.items = append([]models.InventoryItem(nil), seed...)
		if err := store.Save(ctx, localstore.KeyInventory, s.items); err != nil {
			return nil, fmt.Errorf("persist seed inventory: %w", err)
		}
		logger.Info("inventory initialized from seed data", zap.Int("count", len(s.items)))
	default:
		return nil, fmt.Errorf("load inventory: %w", err)
	}

	store.Subscribe(s.reload)

	return s, nil
}

// List returns a snapshot of the collection in load order.
func (s *Service) List() []models.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.InventoryItem(nil), s.items...)
}

// Search returns the filtered view for a term: a case-insensitive substring
// match ORed across name, category key, localized category label, supplier,
// unit and the stringified quantity, min stock and cost. The collection
// itself is never mutated by searching.
func (s *Service) Search(term string) []models.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if term == "" {
		return append([]models.InventoryItem(nil), s.items...)
	}

	needle := strings.ToLower(term)
	var matched []models.InventoryItem
	for _, item := range s.items {
		if itemMatches(item, needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

func itemMatches(item models.InventoryItem, needle string) bool {
	for _, field := range []string{
		item.Name,
		string(item.Category),
		item.Category.Label(),
		item.Supplier,
		item.Unit,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}

	if strings.Contains(formatNumber(item.Quantity), needle) {
		return true
	}
	if strings.Contains(formatNumber(item.MinStock), needle) {
		return true
	}
	if item.Cost != nil && strings.Contains(formatNumber(*item.Cost), needle) {
		return true
	}
	return false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OpenCreate starts a create session with type defaults in the draft.
func (s *Service) OpenCreate() FormView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editingID = ""
	s.draft = defaultDraft()
	s.formOpen = true
	return s.formViewLocked()
}

// OpenEdit starts an edit session for the item with the given id. An unknown
// id fails closed: the form does not open.
func (s *Service) OpenEdit(id string) (FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			s.editingID = id
			s.draft = draftOf(item)
			s.formOpen = true
			return s.formViewLocked(), nil
		}
	}

	return FormView{}, fmt.Errorf("open edit %s: %w", id, ErrNotFound)
}

// SetField parses raw input for one draft field and merges it in. Malformed
// numeric input is rejected rather than coerced to zero.
func (s *Service) SetField(field, raw string) error {
	return s.SetFields(map[string]string{field: raw})
}

// SetFields merges a batch of raw field edits atomically: every entry is
// parsed against a scratch copy of the draft, and the draft is only replaced
// when all of them are valid. A rejected batch leaves the draft untouched.
func (s *Service) SetFields(fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.formOpen {
		return ErrFormClosed
	}

	next := s.draft
	for field, raw := range fields {
		if err := applyField(&next, field, raw); err != nil {
			if errors.Is(err, ErrUnknownField) {
				return err
			}
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	s.draft = next

	return nil
}

func applyField(draft *Draft, field, raw string) error {
	switch field {
	case "name":
		draft.Name = raw
	case "unit":
		draft.Unit = raw
	case "supplier":
		draft.Supplier = raw
	case "category":
		category := models.Category(raw)
		if !category.Valid() {
			return fmt.Errorf("invalid category %q", raw)
		}
		draft.Category = category
	case "quantity":
		value, err := parseOptionalNumber(raw)
		if err != nil {
			return err
		}
		draft.Quantity = value
	case "minStock":
		value, err := parseOptionalNumber(raw)
		if err != nil {
			return err
		}
		draft.MinStock = value
	case "cost":
		value, err := parseOptionalNumber(raw)
		if err != nil {
			return err
		}
		draft.Cost = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	return nil
}

// Save validates the draft and commits it, stamping LastUpdated with today's
// date on both create and edit. The full collection is persisted before the
// form closes; on validation failure the form stays open.
func (s *Service) Save(ctx context.Context) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.formOpen {
		return models.InventoryItem{}, ErrFormClosed
	}

	if err := s.validateLocked(); err != nil {
		return models.InventoryItem{}, err
	}

	item := models.InventoryItem{
		Name:        s.draft.Name,
		Category:    s.draft.Category,
		Quantity:    *s.draft.Quantity,
		Unit:        s.draft.Unit,
		MinStock:    *s.draft.MinStock,
		LastUpdated: s.now().Format(dateLayout),
		Supplier:    s.draft.Supplier,
		Cost:        s.draft.Cost,
	}

	if s.editingID != "" {
		item.ID = s.editingID
		found := false
		for i := range s.items {
			if s.items[i].ID == s.editingID {
				s.items[i] = item
				found = true
				break
			}
		}
		if !found {
			return models.InventoryItem{}, fmt.Errorf("save edit %s: %w", s.editingID, ErrNotFound)
		}
	} else {
		item.ID = s.newIDLocked()
		s.items = append(s.items, item)
	}

	if err := s.store.Save(ctx, localstore.KeyInventory, s.items); err != nil {
		return models.InventoryItem{}, fmt.Errorf("persist inventory: %w", err)
	}

	s.logger.Info("inventory item saved",
		zap.String("id", item.ID),
		zap.String("name", item.Name),
		zap.Bool("created", s.editingID == ""))

	s.formOpen = false
	s.editingID = ""
	s.draft = defaultDraft()

	return item, nil
}

// Cancel discards the draft unconditionally and closes the form.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.formOpen = false
	s.editingID = ""
	s.draft = defaultDraft()
}

// Form returns the current edit session state.
func (s *Service) Form() FormView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formViewLocked()
}

func (s *Service) formViewLocked() FormView {
	view := FormView{Open: s.formOpen, Draft: s.draft}
	if !s.formOpen {
		return view
	}
	if s.editingID != "" {
		view.Mode = "edit"
		view.EditingID = s.editingID
	} else {
		view.Mode = "create"
	}
	return view
}

// validateLocked enforces the required-field set. Name and unit must be
// non-empty; quantity and min stock must be set (an explicit 0 is accepted)
// and non-negative; cost, when set, must be non-negative.
func (s *Service) validateLocked() error {
	var bad []string

	if strings.TrimSpace(s.draft.Name) == "" {
		bad = append(bad, "name")
	}
	if strings.TrimSpace(s.draft.Unit) == "" {
		bad = append(bad, "unit")
	}
	if s.draft.Quantity == nil || *s.draft.Quantity < 0 {
		bad = append(bad, "quantity")
	}
	if s.draft.MinStock == nil || *s.draft.MinStock < 0 {
		bad = append(bad, "minStock")
	}
	if s.draft.Cost != nil && *s.draft.Cost < 0 {
		bad = append(bad, "cost")
	}

	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

func (s *Service) newIDLocked() string {
	ms := s.now().UnixMilli()
	for {
		id := fmt.Sprintf("item-%d", ms)
		if !s.idExistsLocked(id) {
			return id
		}
		ms++
	}
}

func (s *Service) idExistsLocked(id string) bool {
	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Replace swaps the collection wholesale. There is no merge; callers hand in
// the authoritative copy and it wins over any in-memory state.
func (s *Service) Replace(items []models.InventoryItem) {
	s.mu.Lock()
	s.items = append([]models.InventoryItem(nil), items...)
	s.mu.Unlock()
}

// reload pulls the persisted collection back in after an external store change.
func (s *Service) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var loaded []models.InventoryItem
	if err := s.store.Load(ctx, localstore.KeyInventory, &loaded); err != nil {
		if !errors.Is(err, localstore.ErrNoData) {
			s.logger.Warn("reload inventory failed", zap.Error(err))
		}
		return
	}

	s.Replace(loaded)
}

func parseOptionalNumber(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", raw)
	}
	return &value, nil
}
