package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/rudylameme/bvp-planning-sub000/internal/cache"
	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/handoff"
	"github.com/rudylameme/bvp-planning-sub000/internal/importer"
	"github.com/rudylameme/bvp-planning-sub000/internal/planning"
	"github.com/rudylameme/bvp-planning-sub000/internal/printout"
	"github.com/rudylameme/bvp-planning-sub000/internal/reference"
	"github.com/rudylameme/bvp-planning-sub000/internal/repository"
)

// customPrefix marks the ids of products added by hand.
const customPrefix = "custom:"

// Defaults are the wizard choices of a new session.
type Defaults struct {
	Profile domain.WeightingProfile
	Mode    domain.EstimationMode
}

// SessionService runs the planning wizard: imports, product edits, closures,
// plan computation and exports. Every change bumps the session revision and
// drops the cached plans of the session.
type SessionService struct {
	repo     repository.SessionRepository
	resolver *reference.Resolver
	cache    cache.PlanCache
	drive    *driveImporter
	defaults Defaults

	mu    sync.Mutex
	group singleflight.Group
	now   func() time.Time
}

func NewSessionService(repo repository.SessionRepository, resolver *reference.Resolver, planCache cache.PlanCache, defaults Defaults) *SessionService {
	if resolver == nil {
		resolver = reference.NewResolver(nil, nil)
	}
	if planCache == nil {
		planCache = cache.NewNoopPlanCache()
	}
	if defaults.Profile == "" {
		defaults.Profile = domain.ProfileStandard
	}
	if defaults.Mode == "" {
		defaults.Mode = domain.ModeMathematical
	}
	return &SessionService{
		repo:     repo,
		resolver: resolver,
		cache:    planCache,
		defaults: defaults,
		now:      time.Now,
	}
}

// CreateSessionInput opens a new wizard.
type CreateSessionInput struct {
	StoreName string `json:"store_name"`
	StoreCode string `json:"store_code"`
	WeekStart string `json:"week_start"`
	Profile   string `json:"profile"`
	Mode      string `json:"mode"`
}

func (s *SessionService) CreateSession(ctx context.Context, in CreateSessionInput) (*domain.Session, error) {
	var errs domain.ValidationErrors

	profile := s.defaults.Profile
	if in.Profile != "" {
		p, err := domain.ParseWeightingProfile(in.Profile)
		if err != nil {
			errs = append(errs, domain.ValidationError{Field: "profile", Message: err.Error()})
		}
		profile = p
	}
	mode := s.defaults.Mode
	if in.Mode != "" {
		m, err := domain.ParseEstimationMode(in.Mode)
		if err != nil {
			errs = append(errs, domain.ValidationError{Field: "mode", Message: err.Error()})
		}
		mode = m
	}
	var weekStart domain.Date
	if strings.TrimSpace(in.WeekStart) != "" {
		d, err := importer.ParseFlexibleDate(in.WeekStart)
		if err != nil {
			errs = append(errs, domain.ValidationError{Field: "week_start", Message: err.Error()})
		}
		weekStart = d
	}
	if len(errs) > 0 {
		return nil, errs
	}

	now := s.now().UTC()
	sess := &domain.Session{
		ID:    uuid.NewString(),
		Store: domain.StoreInfo{Name: strings.TrimSpace(in.StoreName), Code: strings.TrimSpace(in.StoreCode)},
		Week: domain.WeekConfig{
			WeekStart: weekStart,
			Profile:   profile,
			Mode:      mode,
		},
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.refresh(sess)

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	log.Info().Str("session", sess.ID).Str("store", sess.Store.Name).Msg("session created")
	return sess, nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.repo.Get(ctx, id)
}

func (s *SessionService) ListSessions(ctx context.Context) ([]repository.SessionSummary, error) {
	return s.repo.List(ctx)
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("session: cache invalidate failed")
	}
	return nil
}

// update loads a session, applies fn and stores the result under a new
// revision. Nothing is stored when fn fails.
func (s *SessionService) update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, id, fn)
}

func (s *SessionService) updateLocked(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.Revision++
	sess.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("session: cache invalidate failed")
	}
	return sess, nil
}

// ImportSales replaces the sales history of the session with the content of
// a sales export. Products keep the edits made on them by their id; products
// missing from the new export are dropped unless they were added by hand.
func (s *SessionService) ImportSales(ctx context.Context, id, name string, r io.Reader) (*domain.Session, error) {
	imp, err := importer.ParseSales(name, r)
	if err != nil {
		return nil, err
	}

	return s.update(ctx, id, func(sess *domain.Session) error {
		existing := make(map[string]domain.Product, len(sess.Products))
		var custom []domain.Product
		for _, p := range sess.Products {
			if p.IsCustom {
				custom = append(custom, p)
				continue
			}
			existing[p.ID] = p
		}

		keys := make([]string, 0, len(imp.Series))
		for key := range imp.Series {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		products := make([]domain.Product, 0, len(keys)+len(custom))
		for _, key := range keys {
			series := imp.Series[key]
			p, ok := existing[key]
			if !ok {
				p = domain.Product{ID: key, Label: series.Label, ReferenceCode: series.ReferenceCode, Active: true}
				s.resolver.Apply(ctx, &p)
			}
			p.Sales = series.Records
			products = append(products, p)
		}
		sess.Products = append(products, custom...)
		sortProducts(sess.Products)
		pruneOverrides(sess)
		s.refresh(sess)

		log.Info().
			Str("session", sess.ID).
			Str("file", name).
			Int("rows", imp.Rows).
			Int("products", len(keys)).
			Msg("sales imported")
		return nil
	})
}

// ImportTraffic stores the ticket counts of one comparison week, recomputes
// the traffic weights and re-estimates every potential. An empty profile
// keeps the current one.
func (s *SessionService) ImportTraffic(ctx context.Context, id string, week domain.WeekOffset, profile domain.WeightingProfile, name string, r io.Reader) (*domain.Session, error) {
	records, err := importer.ParseTraffic(name, r, week)
	if err != nil {
		return nil, err
	}

	return s.update(ctx, id, func(sess *domain.Session) error {
		if sess.Traffic == nil {
			sess.Traffic = make(map[domain.WeekOffset][]domain.TrafficRecord)
		}
		sess.Traffic[week] = records
		if profile != "" {
			sess.Week.Profile = profile
		}
		s.refresh(sess)

		log.Info().
			Str("session", sess.ID).
			Str("file", name).
			Str("week", string(week)).
			Int("records", len(records)).
			Msg("traffic imported")
		return nil
	})
}

// SetProfile changes the weighting profile and recomputes the weights.
func (s *SessionService) SetProfile(ctx context.Context, id string, profile domain.WeightingProfile) (*domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) error {
		sess.Week.Profile = profile
		s.refresh(sess)
		return nil
	})
}

// SetMode changes the estimation mode and re-estimates every potential that
// was not edited by hand.
func (s *SessionService) SetMode(ctx context.Context, id string, mode domain.EstimationMode) (*domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) error {
		sess.Week.Mode = mode
		s.refresh(sess)
		return nil
	})
}

// ProductUpdate carries the fields of a product edit. Nil fields are left
// untouched.
type ProductUpdate struct {
	Label           *string `json:"label"`
	Potential       *int    `json:"potential"`
	ResetPotential  bool    `json:"reset_potential"`
	Shelf           *string `json:"shelf"`
	Program         *string `json:"program"`
	UnitsPerSaleLot *int    `json:"units_per_sale_lot"`
	UnitsPerTray    *int    `json:"units_per_tray"`
	Active          *bool   `json:"active"`
}

func (u ProductUpdate) validate() (domain.ShelfCategory, error) {
	var errs domain.ValidationErrors
	var shelf domain.ShelfCategory
	if u.Potential != nil && *u.Potential < 0 {
		errs = append(errs, domain.ValidationError{Field: "potential", Message: "must not be negative"})
	}
	if u.Shelf != nil {
		var ok bool
		if shelf, ok = domain.ParseShelf(*u.Shelf); !ok {
			errs = append(errs, domain.ValidationError{Field: "shelf", Message: fmt.Sprintf("unknown shelf %q", *u.Shelf)})
		}
	}
	if u.UnitsPerSaleLot != nil && *u.UnitsPerSaleLot < 0 {
		errs = append(errs, domain.ValidationError{Field: "units_per_sale_lot", Message: "must not be negative"})
	}
	if u.UnitsPerTray != nil && *u.UnitsPerTray < 0 {
		errs = append(errs, domain.ValidationError{Field: "units_per_tray", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return "", errs
	}
	return shelf, nil
}

// UpdateProduct applies a product edit. An edited potential is kept over
// every later estimate until ResetPotential is sent.
func (s *SessionService) UpdateProduct(ctx context.Context, id, productID string, u ProductUpdate) (*domain.Session, error) {
	shelf, err := u.validate()
	if err != nil {
		return nil, err
	}

	return s.update(ctx, id, func(sess *domain.Session) error {
		p, _ := sess.Product(productID)
		if p == nil {
			return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}

		if u.Label != nil {
			p.CustomLabel = strings.TrimSpace(*u.Label)
			if p.IsCustom && p.CustomLabel != "" {
				p.Label = p.CustomLabel
			}
		}
		if u.Shelf != nil {
			p.ShelfCategory = shelf
		}
		if u.Program != nil {
			p.BakingProgram = strings.TrimSpace(*u.Program)
		}
		if u.UnitsPerSaleLot != nil {
			p.UnitsPerSaleLot = *u.UnitsPerSaleLot
		}
		if u.UnitsPerTray != nil {
			p.UnitsPerTray = *u.UnitsPerTray
		}
		if u.Active != nil {
			p.Active = *u.Active
		}

		switch {
		case u.Potential != nil:
			p.WeeklyPotential = *u.Potential
			p.PotentialEdited = true
			p.NeedsPotential = *u.Potential <= 0
		case u.ResetPotential && !p.IsCustom:
			p.PotentialEdited = false
		}

		pruneOverrides(sess)
		sortProducts(sess.Products)
		s.refresh(sess)
		return nil
	})
}

// CustomProductInput describes a product added by hand.
type CustomProductInput struct {
	Label           string `json:"label"`
	ReferenceCode   string `json:"reference_code"`
	Shelf           string `json:"shelf"`
	Program         string `json:"program"`
	UnitsPerSaleLot int    `json:"units_per_sale_lot"`
	UnitsPerTray    int    `json:"units_per_tray"`
	Potential       int    `json:"potential"`
}

// AddCustomProduct adds a product without sales history. Shelf and program
// come from the reference data when they are not given.
func (s *SessionService) AddCustomProduct(ctx context.Context, id string, in CustomProductInput) (*domain.Session, *domain.Product, error) {
	var errs domain.ValidationErrors
	label := strings.Join(strings.Fields(in.Label), " ")
	if label == "" {
		errs = append(errs, domain.ValidationError{Field: "label", Message: "is required"})
	}
	if in.Potential < 0 {
		errs = append(errs, domain.ValidationError{Field: "potential", Message: "must not be negative"})
	}
	if in.UnitsPerSaleLot < 0 || in.UnitsPerTray < 0 {
		errs = append(errs, domain.ValidationError{Field: "units", Message: "must not be negative"})
	}
	var shelf domain.ShelfCategory
	if in.Shelf != "" {
		var ok bool
		if shelf, ok = domain.ParseShelf(in.Shelf); !ok {
			errs = append(errs, domain.ValidationError{Field: "shelf", Message: fmt.Sprintf("unknown shelf %q", in.Shelf)})
		}
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}

	p := domain.Product{
		ID:              customPrefix + uuid.NewString(),
		Label:           label,
		CustomLabel:     label,
		ReferenceCode:   reference.NormalizeCode(in.ReferenceCode),
		ShelfCategory:   shelf,
		Active:          true,
		IsCustom:        true,
		WeeklyPotential: in.Potential,
		PotentialEdited: true,
		NeedsPotential:  in.Potential <= 0,
	}
	s.resolver.Apply(ctx, &p)
	p.Label = label
	if shelf != "" {
		p.BakingProgram = strings.TrimSpace(in.Program)
		if p.BakingProgram == "" {
			p.BakingProgram = shelf.Label()
		}
		p.UnitsPerSaleLot = in.UnitsPerSaleLot
		p.UnitsPerTray = in.UnitsPerTray
	} else {
		if strings.TrimSpace(in.Program) != "" {
			p.BakingProgram = strings.TrimSpace(in.Program)
		}
		if in.UnitsPerSaleLot > 0 {
			p.UnitsPerSaleLot = in.UnitsPerSaleLot
		}
		if in.UnitsPerTray > 0 {
			p.UnitsPerTray = in.UnitsPerTray
		}
	}

	sess, err := s.update(ctx, id, func(sess *domain.Session) error {
		sess.Products = append(sess.Products, p)
		sortProducts(sess.Products)
		s.refresh(sess)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	added, _ := sess.Product(p.ID)
	return sess, added, nil
}

// DeleteProduct removes a product added by hand together with its overrides.
func (s *SessionService) DeleteProduct(ctx context.Context, id, productID string) (*domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) error {
		p, idx := sess.Product(productID)
		if p == nil {
			return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		if !p.IsCustom {
			return domain.ErrNotCustomProduct
		}
		sess.Products = append(sess.Products[:idx], sess.Products[idx+1:]...)
		pruneOverrides(sess)
		s.refresh(sess)
		return nil
	})
}

// SetClosures replaces the closures of the week. Invalid redistributions are
// reported and nothing is stored.
func (s *SessionService) SetClosures(ctx context.Context, id string, closures domain.ClosureConfig) (*domain.Session, error) {
	if err := closures.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(sess *domain.Session) error {
		sess.Week.Closures = closures.Clone()
		pruneOverrides(sess)
		return nil
	})
}

// Plan returns the production plan of the current session revision.
func (s *SessionService) Plan(ctx context.Context, id string) (*domain.Plan, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.planFor(ctx, sess)
}

func (s *SessionService) planFor(ctx context.Context, sess *domain.Session) (*domain.Plan, error) {
	if plan, ok, err := s.cache.Get(ctx, sess.ID, sess.Revision); err == nil && ok {
		plan.Input = sess.PlanInput()
		return plan, nil
	} else if err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("session: cache get plan failed")
	}

	key := fmt.Sprintf("%s@%d", sess.ID, sess.Revision)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		plan, err := planning.ComputePlan(sess.PlanInput())
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, sess.ID, sess.Revision, &plan); err != nil {
			log.Warn().Err(err).Str("session", sess.ID).Msg("session: cache set plan failed")
		}
		return &plan, nil
	})
	if err != nil {
		return nil, err
	}

	// shared with other callers of the same revision
	plan := *v.(*domain.Plan)
	return &plan, nil
}

// SetVariant applies a variant to one shelf on one day and returns the
// recomputed plan. Only the cells of that shelf on that day and the next one
// change.
func (s *SessionService) SetVariant(ctx context.Context, id string, shelf domain.ShelfCategory, day domain.Day, v domain.Variant) (*domain.Plan, error) {
	if err := validateScope(shelf, day); err != nil {
		return nil, err
	}

	var next domain.Plan
	sess, err := s.update(ctx, id, func(sess *domain.Session) error {
		current, err := s.planFor(ctx, sess)
		if err != nil {
			return err
		}
		next, err = planning.ApplyVariant(*current, shelf, day, v)
		if err != nil {
			return err
		}
		sess.Variants = domain.VariantSettings(next.Input.Variants)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.storePlan(ctx, sess, &next)
	return &next, nil
}

// SetOverride sets the quantity of one product cell, or clears it when
// quantity is nil so the cell is derived again.
func (s *SessionService) SetOverride(ctx context.Context, id string, shelf domain.ShelfCategory, day domain.Day, productID string, quantity *int) (*domain.Plan, error) {
	if err := validateScope(shelf, day); err != nil {
		return nil, err
	}

	var next domain.Plan
	sess, err := s.update(ctx, id, func(sess *domain.Session) error {
		if p, _ := sess.Product(productID); p == nil {
			return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		current, err := s.planFor(ctx, sess)
		if err != nil {
			return err
		}
		if quantity == nil {
			next = planning.ClearOverride(*current, shelf, day, productID)
		} else {
			next, err = planning.ApplyOverride(*current, shelf, day, productID, *quantity)
			if err != nil {
				return err
			}
		}
		sess.Overrides = domain.OverrideSettings(next.Input.Overrides)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.storePlan(ctx, sess, &next)
	return &next, nil
}

func (s *SessionService) storePlan(ctx context.Context, sess *domain.Session, plan *domain.Plan) {
	if err := s.cache.Set(ctx, sess.ID, sess.Revision, plan); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("session: cache set plan failed")
	}
}

// ExportHandoff encodes the session as a hand-off file, stores a copy under
// the session exports and returns the bytes with the stored key.
func (s *SessionService) ExportHandoff(ctx context.Context, id string) ([]byte, string, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	now := s.now().UTC()
	var buf bytes.Buffer
	if err := handoff.Encode(&buf, sess, now); err != nil {
		return nil, "", err
	}

	key, err := s.repo.SaveExport(ctx, sess.ID, HandoffFileName(sess, now), buf.Bytes())
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), key, nil
}

// HandoffFileName names the hand-off file of a session.
func HandoffFileName(sess *domain.Session, at time.Time) string {
	week := at.Format("2006-01-02")
	if !sess.Week.WeekStart.IsZero() {
		week = sess.Week.WeekStart.String()
	}
	return fmt.Sprintf("planning-%s-%s.json", slug(sess.Store.Name), week)
}

func slug(s string) string {
	s = importer.FoldLabel(s)
	if s == "" {
		return "magasin"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, s)
}

// ImportHandoff creates a new session from a teammate's hand-off file.
func (s *SessionService) ImportHandoff(ctx context.Context, r io.Reader) (*domain.Session, error) {
	f, err := handoff.Decode(r)
	if err != nil {
		return nil, err
	}

	sess := f.Session()
	now := s.now().UTC()
	sess.ID = uuid.NewString()
	sess.Revision = 1
	sess.CreatedAt = now
	sess.UpdatedAt = now
	if sess.Week.Profile == "" {
		sess.Week.Profile = s.defaults.Profile
	}
	if sess.Week.Mode == "" {
		sess.Week.Mode = s.defaults.Mode
	}
	s.refresh(sess)

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	log.Info().Str("session", sess.ID).Int("products", len(sess.Products)).Msg("hand-off imported")
	return sess, nil
}

// Workbook renders the print workbook of the current plan.
func (s *SessionService) Workbook(ctx context.Context, id string) ([]byte, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	plan, err := s.planFor(ctx, sess)
	if err != nil {
		return nil, err
	}
	return printout.Workbook(*plan, printout.Options{StoreName: sess.Store.Name, WeekStart: sess.Week.WeekStart})
}

// refresh recomputes the traffic weights, the statistics and potentials of
// products with sales, and the data-sufficiency warnings. A session without
// traffic keeps the weights it has, so hand-off sessions are left alone.
func (s *SessionService) refresh(sess *domain.Session) {
	var warnings []domain.Warning

	if len(sess.Traffic) > 0 || sess.Weights.DayWeight == nil {
		weights, ww := planning.ComputeWeights(trafficRecords(sess.Traffic), sess.Week.Profile)
		sess.Weights = weights
		warnings = append(warnings, ww...)
	}

	for i := range sess.Products {
		p := &sess.Products[i]
		if len(p.Sales) > 0 {
			planning.RefreshProduct(p, sess.Weights, sess.Week.Mode)
		}
		if p.Active && p.WeeklyPotential <= 0 {
			warnings = append(warnings, domain.Warning{
				Kind:      domain.WarnZeroSales,
				ProductID: p.ID,
				Message:   fmt.Sprintf("%s: no sales history, weekly potential must be set", p.DisplayLabel()),
			})
		}
	}

	sess.Warnings = warnings
	if len(warnings) > 0 {
		log.Debug().Str("session", sess.ID).Int("warnings", len(warnings)).Msg("session has data warnings")
	}
}

func trafficRecords(traffic map[domain.WeekOffset][]domain.TrafficRecord) []domain.TrafficRecord {
	var out []domain.TrafficRecord
	for _, w := range domain.WeekOffsets {
		out = append(out, traffic[w]...)
	}
	return out
}

// pruneOverrides drops the overrides of products that no longer exist or
// moved shelf, and those on days that are now closed all day.
func pruneOverrides(sess *domain.Session) {
	closures := sess.Week.Closures
	kept := sess.Overrides[:0]
	for _, o := range sess.Overrides {
		if closures.ClosedAllDay(o.Day) {
			continue
		}
		if p, _ := sess.Product(o.ProductID); p != nil && p.ShelfCategory == o.Shelf {
			kept = append(kept, o)
		}
	}
	sess.Overrides = kept
}

// sortProducts orders products as they are printed: shelf, program, label.
func sortProducts(products []domain.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.ShelfCategory.Rank() != b.ShelfCategory.Rank() {
			return a.ShelfCategory.Rank() < b.ShelfCategory.Rank()
		}
		if a.BakingProgram != b.BakingProgram {
			return a.BakingProgram < b.BakingProgram
		}
		return importer.FoldLabel(a.DisplayLabel()) < importer.FoldLabel(b.DisplayLabel())
	})
}

func validateScope(shelf domain.ShelfCategory, day domain.Day) error {
	var errs domain.ValidationErrors
	if shelf.Rank() >= len(domain.ShelfOrder) {
		errs = append(errs, domain.ValidationError{Field: "shelf", Message: fmt.Sprintf("unknown shelf %q", shelf)})
	}
	if !day.Valid() {
		errs = append(errs, domain.ValidationError{Field: "day", Message: "unknown day"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsNotFound reports whether err means a session or product does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
