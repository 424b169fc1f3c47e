package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/you/marketsvc/domain"
)

// PackageServiceImpl implements domain.PackageService
type PackageServiceImpl struct {
	repo domain.PackageRepository
	now  func() time.Time
}

// NewPackageService creates a new package service
func NewPackageService(repo domain.PackageRepository) domain.PackageService {
	return &PackageServiceImpl{repo: repo, now: time.Now}
}

// Get implements domain.PackageService
func (s *PackageServiceImpl) Get(ctx context.Context, id string) (*domain.Package, error) {
	return s.repo.FindByID(ctx, id)
}

// List implements domain.PackageService
func (s *PackageServiceImpl) List(ctx context.Context, filter domain.PackageFilter) ([]*domain.Package, error) {
	return s.repo.List(ctx, filter)
}

// Add implements domain.PackageService. A zero remaining quantity on input
// means "all of it".
func (s *PackageServiceImpl) Add(ctx context.Context, pkg *domain.Package) (*domain.Package, error) {
	now := s.now()
	pkg.ID = uuid.NewString()
	if pkg.RemainingQuantity == 0 {
		pkg.RemainingQuantity = pkg.Quantity
	}
	if pkg.Status == "" {
		pkg.Status = domain.PackageActive
	}
	if pkg.AvailableFrom.IsZero() {
		pkg.AvailableFrom = now
	}
	pkg.CreatedAt = now
	pkg.UpdatedAt = now
	normalizeStock(pkg)

	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// updateAttempts bounds how often Update re-reads a package whose stock moved
const updateAttempts = 3

// Update implements domain.PackageService. The patch is re-applied to a fresh
// read when an order reserved or released stock in between.
func (s *PackageServiceImpl) Update(ctx context.Context, id string, patch domain.PackagePatch) (*domain.Package, error) {
	var err error
	for attempt := 0; attempt < updateAttempts; attempt++ {
		var pkg *domain.Package
		pkg, err = s.tryUpdate(ctx, id, patch)
		if !errors.Is(err, domain.ErrPackageChanged) {
			return pkg, err
		}
	}
	return nil, err
}

func (s *PackageServiceImpl) tryUpdate(ctx context.Context, id string, patch domain.PackagePatch) (*domain.Package, error) {
	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	readRemaining := pkg.RemainingQuantity

	if patch.Name != nil {
		pkg.Name = *patch.Name
	}
	if patch.Description != nil {
		pkg.Description = *patch.Description
	}
	if patch.OriginalPrice != nil {
		pkg.OriginalPrice = *patch.OriginalPrice
	}
	if patch.DiscountedPrice != nil {
		pkg.DiscountedPrice = *patch.DiscountedPrice
	}
	if patch.Quantity != nil {
		pkg.Quantity = *patch.Quantity
	}
	if patch.RemainingQuantity != nil {
		pkg.RemainingQuantity = *patch.RemainingQuantity
	}
	if patch.AvailableFrom != nil {
		pkg.AvailableFrom = *patch.AvailableFrom
	}
	if patch.AvailableUntil != nil {
		pkg.AvailableUntil = *patch.AvailableUntil
	}
	if patch.Status != nil {
		if *patch.Status == domain.PackageDeleted {
			return nil, domain.ErrPackageInvalid
		}
		pkg.Status = *patch.Status
	}
	pkg.UpdatedAt = s.now()
	normalizeStock(pkg)

	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, pkg, readRemaining); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Delete implements domain.PackageService
func (s *PackageServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id, s.now())
}

// normalizeStock keeps the sold_out status in step with remaining stock
func normalizeStock(pkg *domain.Package) {
	switch {
	case pkg.RemainingQuantity == 0 && pkg.Status == domain.PackageActive:
		pkg.Status = domain.PackageSoldOut
	case pkg.RemainingQuantity > 0 && pkg.Status == domain.PackageSoldOut:
		pkg.Status = domain.PackageActive
	}
}
