package crops

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

// ErrNotFound indicates the requested crop does not exist in the collection.
var ErrNotFound = errors.New("crop not found")

// ErrFormClosed indicates a draft operation was attempted without an open form.
var ErrFormClosed = errors.New("form is not open")

// ErrUnknownField indicates a draft update referenced a field that does not exist.
var ErrUnknownField = errors.New("unknown draft field")

// ValidationError reports which draft fields failed the save-time checks.
// The form stays open so the user can correct them.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Draft is the transient record being edited. Numeric fields are pointers so
// an explicit zero is distinguishable from unset.
type Draft struct {
	Name                string              `json:"name"`
	Variety             string              `json:"variety"`
	PlantingDate        string              `json:"plantingDate"`
	ExpectedHarvestDate string              `json:"expectedHarvestDate"`
	Area                *float64            `json:"area"`
	Status              models.CropStatus   `json:"status"`
	HealthStatus        models.HealthStatus `json:"healthStatus"`
	YieldEstimate       *float64            `json:"yieldEstimate"`
}

func defaultDraft() Draft {
	return Draft{Status: models.CropPlanted, HealthStatus: models.HealthGood}
}

func draftOf(c models.Crop) Draft {
	area := c.Area
	return Draft{
		Name:                c.Name,
		Variety:             c.Variety,
		PlantingDate:        c.PlantingDate,
		ExpectedHarvestDate: c.ExpectedHarvestDate,
		Area:                &area,
		Status:              c.Status,
		HealthStatus:        c.HealthStatus,
		YieldEstimate:       c.YieldEstimate,
	}
}

// FormView exposes the current edit session to the HTTP layer.
type FormView struct {
	Open      bool   `json:"open"`
	Mode      string `json:"mode,omitempty"`
	EditingID string `json:"editing_id,omitempty"`
	Draft     Draft  `json:"draft"`
}

// Service owns the crop collection and its single edit session. The screen is
// the only component that mutates the collection; every mutation is written
// through to the store before returning.
type Service struct {
	store  localstore.Repository
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	crops     []models.Crop
	formOpen  bool
	editingID string
	draft     Draft
}

// NewService loads the persisted collection, falling back to the injected
// seed when nothing usable is stored, and registers for external reloads.
func NewService(ctx context.Context, store localstore.Repository, seed []models.Crop, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		draft:  defaultDraft(),
	}

	var loaded []models.Crop
	switch err := store.Load(ctx, localstore.KeyCrops, &loaded); {
	case err == nil:
		s.crops = loaded
	case errors.Is(err, localstore.ErrNoData):
		s.crops = append([]models.Crop(nil), seed...)
		if err := store.Save(ctx, localstore.KeyCrops, s.crops); err != nil {
			return nil, fmt.Errorf("persist seed crops: %w", err)
		}
		logger.Info("crops initialized from seed data", zap.Int("count", len(s.crops)))
	default:
		return nil, fmt.Errorf("load crops: %w", err)
	}

	store.Subscribe(s.reload)

	return s, nil
}

// List returns a snapshot of the collection in load order.
func (s *Service) List() []models.Crop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Crop(nil), s.crops...)
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

// OpenEdit starts an edit session for the crop with the given id, copying its
// fields into the draft. An unknown id fails closed: the form does not open.
func (s *Service) OpenEdit(id string) (FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.crops {
		if c.ID == id {
			s.editingID = id
			s.draft = draftOf(c)
			s.formOpen = true
			return s.formViewLocked(), nil
		}
	}

	return FormView{}, fmt.Errorf("open edit %s: %w", id, ErrNotFound)
}

// SetField parses raw input for one draft field and merges it in. Malformed
// numeric or date input is rejected rather than coerced; an empty raw value
// clears optional fields.
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
	case "variety":
		draft.Variety = raw
	case "plantingDate":
		date, err := parseDate(raw)
		if err != nil {
			return err
		}
		draft.PlantingDate = date
	case "expectedHarvestDate":
		date, err := parseDate(raw)
		if err != nil {
			return err
		}
		draft.ExpectedHarvestDate = date
	case "area":
		value, err := parseOptionalNumber(raw)
		if err != nil {
			return err
		}
		draft.Area = value
	case "yieldEstimate":
		value, err := parseOptionalNumber(raw)
		if err != nil {
			return err
		}
		draft.YieldEstimate = value
	case "status":
		status := models.CropStatus(raw)
		if !status.Valid() {
			return fmt.Errorf("invalid status %q", raw)
		}
		draft.Status = status
	case "healthStatus":
		health := models.HealthStatus(raw)
		if !health.Valid() {
			return fmt.Errorf("invalid health status %q", raw)
		}
		draft.HealthStatus = health
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	return nil
}

// Save validates the draft and commits it: edits replace every field except
// the id, creates append a freshly identified record. The full collection is
// persisted before the form closes. On validation failure the form stays open.
func (s *Service) Save(ctx context.Context) (models.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.formOpen {
		return models.Crop{}, ErrFormClosed
	}

	if err := s.validateLocked(); err != nil {
		return models.Crop{}, err
	}

	crop := models.Crop{
		Name:                s.draft.Name,
		Variety:             s.draft.Variety,
		PlantingDate:        s.draft.PlantingDate,
		ExpectedHarvestDate: s.draft.ExpectedHarvestDate,
		Area:                *s.draft.Area,
		Status:              s.draft.Status,
		HealthStatus:        s.draft.HealthStatus,
		YieldEstimate:       s.draft.YieldEstimate,
	}

	if s.editingID != "" {
		crop.ID = s.editingID
		found := false
		for i := range s.crops {
			if s.crops[i].ID == s.editingID {
				s.crops[i] = crop
				found = true
				break
			}
		}
		if !found {
			return models.Crop{}, fmt.Errorf("save edit %s: %w", s.editingID, ErrNotFound)
		}
	} else {
		crop.ID = s.newIDLocked()
		s.crops = append(s.crops, crop)
	}

	if err := s.store.Save(ctx, localstore.KeyCrops, s.crops); err != nil {
		return models.Crop{}, fmt.Errorf("persist crops: %w", err)
	}

	s.logger.Info("crop saved",
		zap.String("id", crop.ID),
		zap.String("name", crop.Name),
		zap.Bool("created", s.editingID == ""))

	s.formOpen = false
	s.editingID = ""
	s.draft = defaultDraft()

	return crop, nil
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

// validateLocked enforces the required-field set. Name, variety and both
// dates must be present; area must be set (an explicit 0 is accepted) and
// non-negative; the harvest date may not precede the planting date.
func (s *Service) validateLocked() error {
	var bad []string

	if strings.TrimSpace(s.draft.Name) == "" {
		bad = append(bad, "name")
	}
	if strings.TrimSpace(s.draft.Variety) == "" {
		bad = append(bad, "variety")
	}
	if s.draft.PlantingDate == "" {
		bad = append(bad, "plantingDate")
	}
	if s.draft.ExpectedHarvestDate == "" {
		bad = append(bad, "expectedHarvestDate")
	}
	if s.draft.Area == nil || *s.draft.Area < 0 {
		bad = append(bad, "area")
	}
	if s.draft.YieldEstimate != nil && *s.draft.YieldEstimate < 0 {
		bad = append(bad, "yieldEstimate")
	}
	if s.draft.PlantingDate != "" && s.draft.ExpectedHarvestDate != "" &&
		s.draft.ExpectedHarvestDate < s.draft.PlantingDate {
		bad = append(bad, "expectedHarvestDate")
	}

	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

// newIDLocked derives a unique identifier from the current timestamp,
// stepping forward on the rare millisecond collision.
func (s *Service) newIDLocked() string {
	ms := s.now().UnixMilli()
	for {
		id := fmt.Sprintf("crop-%d", ms)
		if !s.idExistsLocked(id) {
			return id
		}
		ms++
	}
}

func (s *Service) idExistsLocked(id string) bool {
	for _, c := range s.crops {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Replace swaps the collection wholesale. There is no merge; callers hand in
// the authoritative copy and it wins over any in-memory state.
func (s *Service) Replace(crops []models.Crop) {
	s.mu.Lock()
	s.crops = append([]models.Crop(nil), crops...)
	s.mu.Unlock()
}

// reload pulls the persisted collection back in after an external store change.
func (s *Service) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var loaded []models.Crop
	if err := s.store.Load(ctx, localstore.KeyCrops, &loaded); err != nil {
		if !errors.Is(err, localstore.ErrNoData) {
			s.logger.Warn("reload crops failed", zap.Error(err))
		}
		return
	}

	s.Replace(loaded)
}

func parseDate(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return date.Format(dateLayout), nil
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
