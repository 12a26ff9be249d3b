package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	businesserrors "github.com/Ruthreshjp/tour-app-sub001/internal/businesses/errors"
	"github.com/Ruthreshjp/tour-app-sub001/internal/businesses/repository"
	"github.com/Ruthreshjp/tour-app-sub001/internal/businesses/validator"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/config"
	apperrors "github.com/Ruthreshjp/tour-app-sub001/pkg/errors"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/sanitizer"
)

type BusinessService interface {
	Create(ctx context.Context, business *model.Business) error
	GetByID(ctx context.Context, id string) (*model.Business, error)
	Search(ctx context.Context, city string, businessType model.BusinessType, limit int, offset int64) ([]*model.Business, int64, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*model.Business, error)
	Update(ctx context.Context, id string, actor model.Actor, updates *model.BusinessUpdate) (*model.Business, error)

	// Resolve implements the directory view the bookings domain depends on.
	Resolve(ctx context.Context, businessID string) (*model.Business, error)
}

type businessService struct {
	repo      repository.BusinessRepository
	validator *validator.BusinessValidator
	cfg       *config.Config
}

func NewBusinessService(
	repo repository.BusinessRepository,
	validator *validator.BusinessValidator,
	cfg *config.Config,
) BusinessService {
	return &businessService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *businessService) Create(ctx context.Context, business *model.Business) error {
	s.sanitize(business)
	business.ID = ""
	business.Active = true

	if err := s.validator.Validate(business); err != nil {
		s.cfg.Log.Warn("Business validation failed", "error", err)
		return apperrors.Validation("Business validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, business); err != nil {
		s.cfg.Log.Error("Failed to create business", "error", err)
		return apperrors.Internal("Failed to create business", err)
	}

	s.cfg.Log.Info("Business created successfully",
		"id", business.ID,
		"business_type", business.BusinessType,
		"city", business.City,
	)
	return nil
}

func (s *businessService) GetByID(ctx context.Context, id string) (*model.Business, error) {
	return s.Resolve(ctx, id)
}

func (s *businessService) Resolve(ctx context.Context, businessID string) (*model.Business, error) {
	if businessID == "" {
		return nil, apperrors.InvalidInput("Business ID cannot be empty")
	}

	business, err := s.repo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businesserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Business", businessID)
		}
		if errors.Is(err, businesserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid business ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve business", err)
	}

	return business, nil
}

func (s *businessService) Search(ctx context.Context, city string, businessType model.BusinessType, limit int, offset int64) ([]*model.Business, int64, error) {
	city = sanitizer.NormalizeCity(city)
	if city == "" {
		return nil, 0, apperrors.InvalidInput("City is required")
	}
	if businessType != "" {
		if _, err := parseBusinessType(string(businessType)); err != nil {
			return nil, 0, apperrors.InvalidInput(err.Error())
		}
	}

	var total int64
	var businesses []*model.Business
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.CountByCity(ctx, city, businessType)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count businesses", "city", city, "error", errCount)
			errCount = apperrors.Internal("Failed to count businesses", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		businesses, errFind = s.repo.FindByCity(ctx, city, businessType, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search businesses", "city", city, "error", errFind)
			errFind = apperrors.Internal("Failed to search businesses", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return businesses, total, nil
}

func (s *businessService) GetByOwner(ctx context.Context, ownerID string) ([]*model.Business, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	businesses, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list businesses by owner", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve businesses", err)
	}
	return businesses, nil
}

func (s *businessService) Update(ctx context.Context, id string, actor model.Actor, updates *model.BusinessUpdate) (*model.Business, error) {
	existing, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role != model.RoleAdmin && existing.OwnerID != actor.ID {
		return nil, apperrors.Forbidden("You do not own this listing")
	}

	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Business update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	set := buildUpdateSet(updates)
	if len(set) == 0 {
		return existing, nil
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, businesserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Business", id)
		}
		s.cfg.Log.Error("Failed to update business", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update business", err)
	}

	s.cfg.Log.Info("Business updated successfully", "id", id)
	return updated, nil
}

// --- Helpers ---

func (s *businessService) sanitize(b *model.Business) {
	b.Name = sanitizer.NormalizeName(b.Name)
	b.City = sanitizer.NormalizeCity(b.City)
	b.Address = sanitizer.NormalizeFreeText(b.Address)
	b.UPIID = sanitizer.SanitizeUPIID(b.UPIID)
}

func (s *businessService) sanitizeUpdate(u *model.BusinessUpdate) {
	u.Name = sanitizer.NormalizeName(u.Name)
	u.City = sanitizer.NormalizeCity(u.City)
	u.Address = sanitizer.NormalizeFreeText(u.Address)
	u.UPIID = sanitizer.SanitizeUPIID(u.UPIID)
}

func buildUpdateSet(u *model.BusinessUpdate) bson.M {
	set := bson.M{}
	if u.Name != "" {
		set["name"] = u.Name
	}
	if u.UPIID != "" {
		set["upi_id"] = u.UPIID
	}
	if u.Phone != "" {
		set["phone"] = u.Phone
	}
	if u.Email != "" {
		set["email"] = u.Email
	}
	if u.City != "" {
		set["city"] = u.City
	}
	if u.Address != "" {
		set["address"] = u.Address
	}
	if u.Active != nil {
		set["active"] = *u.Active
	}
	return set
}

func parseBusinessType(s string) (model.BusinessType, error) {
	t := model.BusinessType(strings.ToLower(s))
	switch t {
	case model.TypeHotel, model.TypeRestaurant, model.TypeCafe, model.TypeCab, model.TypeShopping:
		return t, nil
	}
	return "", errors.New("unknown business type: " + s)
}
