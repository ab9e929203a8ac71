package service

import (
	"context"

	"jewel-erp/internal/model"
	"jewel-erp/internal/repository"
)

// Record is satisfied by pointers to master-data models.
type Record[T any] interface {
	*T
	Touch(actor string)
}

// MasterDataService validates and stores one kind of master-data record:
// vendors, catalog products, company details or bank details.
type MasterDataService[T any, P Record[T]] struct {
	repo repository.CrudRepository[T]
	name string
}

func NewMasterDataService[T any, P Record[T]](repo repository.CrudRepository[T], name string) *MasterDataService[T, P] {
	return &MasterDataService[T, P]{repo: repo, name: name}
}

func (s *MasterDataService[T, P]) List(ctx context.Context) ([]T, error) {
	return s.repo.FindAll(ctx)
}

func (s *MasterDataService[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "%s not found with id: %d", s.name, id)
	}
	return rec, nil
}

func (s *MasterDataService[T, P]) Create(ctx context.Context, rec *T, actor Actor) (*T, error) {
	if err := validate(rec); err != nil {
		return nil, err
	}
	P(rec).Touch(actor.ID)
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update replaces every editable column of record id with rec.
func (s *MasterDataService[T, P]) Update(ctx context.Context, id uint, rec *T, actor Actor) (*T, error) {
	if err := validate(rec); err != nil {
		return nil, err
	}
	P(rec).Touch(actor.ID)
	if err := s.repo.Update(ctx, id, rec); err != nil {
		return nil, lookupErr(err, "%s not found with id: %d", s.name, id)
	}
	return s.Get(ctx, id)
}

func (s *MasterDataService[T, P]) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupErr(err, "%s not found with id: %d", s.name, id)
	}
	return nil
}

type (
	VendorService  = MasterDataService[model.Vendor, *model.Vendor]
	ProductService = MasterDataService[model.ProductCatalog, *model.ProductCatalog]
	CompanyService = MasterDataService[model.CompanyDetails, *model.CompanyDetails]
)

func NewVendorService(repo repository.CrudRepository[model.Vendor]) *VendorService {
	return NewMasterDataService[model.Vendor, *model.Vendor](repo, "vendor")
}

func NewProductService(repo repository.CrudRepository[model.ProductCatalog]) *ProductService {
	return NewMasterDataService[model.ProductCatalog, *model.ProductCatalog](repo, "product")
}

func NewCompanyService(repo repository.CrudRepository[model.CompanyDetails]) *CompanyService {
	return NewMasterDataService[model.CompanyDetails, *model.CompanyDetails](repo, "company details")
}
