// Package qr renders event registration links as QR badge images.
package qr

import (
	"bytes"
	"context"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"expoevents-backend/internal/storage"
)

const imageSize = 512

// Generator renders registration links into PNG images and persists them
// through the asset store.
type Generator struct {
	store storage.Store
}

func NewGenerator(store storage.Store) *Generator {
	return &Generator{store: store}
}

// Encode renders the content as a PNG. Medium error correction keeps the
// code scannable when printed on badges.
func Encode(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR content: %w", err)
	}
	return png, nil
}

// GenerateForEvent renders the event's registration link and stores the
// image under a key derived from the event ID. Returns the public URL.
func (g *Generator) GenerateForEvent(ctx context.Context, eventID int64, registrationLink string) (string, error) {
	png, err := Encode(registrationLink)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("qrcodes/event-%d.png", eventID)
	url, err := g.store.Save(ctx, key, bytes.NewReader(png))
	if err != nil {
		return "", fmt.Errorf("failed to store QR image for event %d: %w", eventID, err)
	}
	return url, nil
}

// GenerateForVisitor renders a visitor's unique code for the badge wallet.
func (g *Generator) GenerateForVisitor(ctx context.Context, visitorID int64, uniqueCode string) (string, error) {
	png, err := Encode(uniqueCode)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("qrcodes/visitor-%d.png", visitorID)
	url, err := g.store.Save(ctx, key, bytes.NewReader(png))
	if err != nil {
		return "", fmt.Errorf("failed to store QR image for visitor %d: %w", visitorID, err)
	}
	return url, nil
}
