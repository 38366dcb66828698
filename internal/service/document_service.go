package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/ocr"
	"github.com/uncoded/onboarding-api/internal/storage"
	"go.uber.org/zap"
)

// DocumentService stores uploaded cheque images and extracts banking
// details from them
type DocumentService struct {
	storage    storage.Storage
	recognizer ocr.Recognizer
	logger     *zap.Logger
}

func NewDocumentService(st storage.Storage, recognizer ocr.Recognizer, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		storage:    st,
		recognizer: recognizer,
		logger:     logger,
	}
}

// ProcessCheque stores the upload and runs text extraction over it. The
// stored path is returned even when extraction finds nothing, so the
// partner can still attach the document manually.
func (s *DocumentService) ProcessCheque(ctx context.Context, filename, contentType string, data io.Reader) (*domain.ChequeExtractionDTO, error) {
	// the image is read twice: once for storage, once for recognition
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(data); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, contentType, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to store cheque: %w", err)
	}

	s.logger.Info("Cheque stored",
		zap.String("path", storagePath),
		zap.Int64("size", size))

	text, err := s.recognizer.Recognize(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		// keep the stored file; report an empty extraction
		s.logger.Warn("Cheque recognition failed",
			zap.String("path", storagePath),
			zap.Error(err))
		return &domain.ChequeExtractionDTO{FileURL: storagePath}, nil
	}

	details := ocr.ParseBankingDetails(text)
	return &domain.ChequeExtractionDTO{
		AccountNumber: details.AccountNumber,
		IFSCCode:      details.IFSCCode,
		BankName:      details.BankName,
		Confidence:    details.Confidence,
		FileURL:       storagePath,
	}, nil
}
