package approval

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/internal/pkg/apperrors"
)

// ListPendingKycDocuments returns PENDING documents, newest first.
func (s *Service) ListPendingKycDocuments(ctx context.Context) ([]models.KycDocument, error) {
	_ = ctx
	docs, err := s.repos.Kyc.GetPending()
	if err != nil {
		return nil, apperrors.NewStorage("list pending kyc documents", err)
	}
	return docs, nil
}

// VerifyKycDocument moves a document from PENDING to VERIFIED.
func (s *Service) VerifyKycDocument(ctx context.Context, id uint, verifierAddress string) (*models.KycDocument, error) {
	_ = ctx
	doc, err := s.getKycDocument(id)
	if err != nil {
		return nil, err
	}

	next, err := NextKycStatus(doc.Status, ActionVerify)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc.Status = next
	doc.VerifiedBy = verifierAddress
	doc.VerifiedAt = &now
	if err := s.repos.Kyc.Update(doc); err != nil {
		return nil, apperrors.NewStorage("verify kyc document", err)
	}

	log.Infof("[Approval] KYC document %d verified by %s", doc.ID, verifierAddress)
	return doc, nil
}

// RejectKycDocument moves a document from PENDING to REJECTED.
func (s *Service) RejectKycDocument(ctx context.Context, id uint, reason, verifierAddress string) (*models.KycDocument, error) {
	_ = ctx
	doc, err := s.getKycDocument(id)
	if err != nil {
		return nil, err
	}

	next, err := NextKycStatus(doc.Status, ActionReject)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc.Status = next
	doc.RejectionReason = reason
	doc.VerifiedBy = verifierAddress
	doc.VerifiedAt = &now
	if err := s.repos.Kyc.Update(doc); err != nil {
		return nil, apperrors.NewStorage("reject kyc document", err)
	}

	log.Infof("[Approval] KYC document %d rejected: %s", doc.ID, reason)
	return doc, nil
}

func (s *Service) getKycDocument(id uint) (*models.KycDocument, error) {
	doc, err := s.repos.Kyc.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("kyc_document", id)
		}
		return nil, apperrors.NewStorage("get kyc document", err)
	}
	return doc, nil
}
