package qrcode

import (
	"net/url"
	"path"
	"strings"

	"rentalhub/config"
	"rentalhub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.QRCodeConfig) service.QRCodeService {
	return &qrcodeService{
		size:                 cfg.Size,
		errorCorrectionLevel: recoveryLevel(cfg.ErrorCorrectionLevel),
		baseURL:              strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToLower(level) {
	case "l", "low":
		return qrcode.Low
	case "q", "high":
		return qrcode.High
	case "h", "highest":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// GeneratePropertyQR encodes the property's share URL as a PNG
func (s *qrcodeService) GeneratePropertyQR(propertyID uuid.UUID) ([]byte, error) {
	qrCode, err := qrcode.New(s.shareURL(propertyID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParsePropertyQR accepts a scanned share URL or a bare property ID
func (s *qrcodeService) ParsePropertyQR(qrData string) (uuid.UUID, error) {
	qrData = strings.TrimSpace(qrData)
	if id, err := uuid.Parse(qrData); err == nil {
		return id, nil
	}

	if !strings.HasPrefix(qrData, s.baseURL+"/") {
		return uuid.Nil, errors.Errorf("QR code does not point at a property: %s", qrData)
	}

	u, err := url.Parse(qrData)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse QR code URL")
	}

	propertyID, err := uuid.Parse(path.Base(u.Path))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse property ID")
	}

	return propertyID, nil
}

func (s *qrcodeService) shareURL(propertyID uuid.UUID) string {
	return s.baseURL + "/" + propertyID.String()
}
