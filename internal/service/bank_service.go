package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/model"
	"jewel-erp/internal/repository"
	"jewel-erp/pkg/logger"
	"jewel-erp/pkg/storage"
)

const (
	qrCodePrefix    = "bank-qr/"
	qrCodeURLExpiry = time.Hour
	maxQRCodeSize   = 5 << 20
)

var ErrStorageDisabled = apperr.New(apperr.ErrProcessing, "QR code storage is not configured")

// Upload is a file received with a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// BankService manages bank details whose QR-code image lives in object storage.
type BankService struct {
	records *MasterDataService[model.BankDetails, *model.BankDetails]
	store   storage.ObjectStore
	log     zerolog.Logger
}

// NewBankService accepts a nil store; uploads then fail with ErrStorageDisabled.
func NewBankService(repo repository.CrudRepository[model.BankDetails], store storage.ObjectStore) *BankService {
	return &BankService{
		records: NewMasterDataService[model.BankDetails, *model.BankDetails](repo, "bank details"),
		store:   store,
		log:     logger.WithComponent("bank"),
	}
}

func (s *BankService) List(ctx context.Context) ([]model.BankDetails, error) {
	list, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.presign(ctx, &list[i])
	}
	return list, nil
}

func (s *BankService) Get(ctx context.Context, id uint) (*model.BankDetails, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.presign(ctx, rec)
	return rec, nil
}

func (s *BankService) Create(ctx context.Context, rec *model.BankDetails, qr *Upload, actor Actor) (*model.BankDetails, error) {
	rec.QRCodeKey = ""
	if qr != nil {
		key, err := s.upload(ctx, qr)
		if err != nil {
			return nil, err
		}
		rec.QRCodeKey = key
	}
	created, err := s.records.Create(ctx, rec, actor)
	if err != nil {
		s.discard(ctx, rec.QRCodeKey)
		return nil, err
	}
	s.presign(ctx, created)
	return created, nil
}

// Update keeps the stored QR code unless a new image is uploaded.
func (s *BankService) Update(ctx context.Context, id uint, rec *model.BankDetails, qr *Upload, actor Actor) (*model.BankDetails, error) {
	existing, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.QRCodeKey = existing.QRCodeKey
	if qr != nil {
		key, err := s.upload(ctx, qr)
		if err != nil {
			return nil, err
		}
		rec.QRCodeKey = key
	}

	updated, err := s.records.Update(ctx, id, rec, actor)
	if err != nil {
		if rec.QRCodeKey != existing.QRCodeKey {
			s.discard(ctx, rec.QRCodeKey)
		}
		return nil, err
	}
	if rec.QRCodeKey != existing.QRCodeKey {
		s.discard(ctx, existing.QRCodeKey)
	}
	s.presign(ctx, updated)
	return updated, nil
}

func (s *BankService) Delete(ctx context.Context, id uint) error {
	existing, err := s.records.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}
	s.discard(ctx, existing.QRCodeKey)
	return nil
}

func (s *BankService) upload(ctx context.Context, qr *Upload) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	if qr.Size > maxQRCodeSize {
		return "", apperr.InvalidArgument("QR code image exceeds %d bytes", maxQRCodeSize)
	}
	if qr.ContentType != "" && !strings.HasPrefix(qr.ContentType, "image/") {
		return "", apperr.InvalidArgument("QR code must be an image, got %s", qr.ContentType)
	}

	key := qrCodePrefix + uuid.New().String() + strings.ToLower(filepath.Ext(qr.Filename))
	if err := s.store.Put(ctx, key, qr.ContentType, qr.Reader, qr.Size); err != nil {
		return "", apperr.Processing(err, "failed to store QR code")
	}
	return key, nil
}

// discard removes an object; failures are logged only.
func (s *BankService) discard(ctx context.Context, key string) {
	if key == "" || s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to delete QR code")
	}
}

func (s *BankService) presign(ctx context.Context, rec *model.BankDetails) {
	if rec.QRCodeKey == "" || s.store == nil {
		return
	}
	url, err := s.store.PresignedURL(ctx, rec.QRCodeKey, qrCodeURLExpiry)
	if err != nil {
		s.log.Warn().Err(err).Str("key", rec.QRCodeKey).Msg("failed to presign QR code")
		return
	}
	rec.QRCodeURL = url
}
