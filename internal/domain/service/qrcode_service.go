package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GeneratePropertyQR renders a PNG QR code linking to the property's share URL.
	GeneratePropertyQR(propertyID uuid.UUID) ([]byte, error)

	// ParsePropertyQR extracts the property ID from scanned QR data.
	ParsePropertyQR(qrData string) (uuid.UUID, error)
}
