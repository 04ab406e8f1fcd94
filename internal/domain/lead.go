package domain

import "time"

// Lead is a capture record created by an exhibitor scanning a visitor badge
// or a business card. Duplicates are allowed by design (repeated scans).
type Lead struct {
	ID             int64      `json:"id"`
	ExhibitorID    *int64     `json:"exhibitorId,omitempty"`
	EventID        *int64     `json:"eventId,omitempty"`
	OrganizationID *int64     `json:"organizationId,omitempty"`
	Name           string     `json:"name,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Company        string     `json:"company,omitempty"`
	Designation    string     `json:"designation,omitempty"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	Country        string     `json:"country,omitempty"`
	Industry       string     `json:"industry,omitempty"`
	Source         string     `json:"source"`
	Notes          string     `json:"notes,omitempty"`
	Rating         *int32     `json:"rating,omitempty"`
	Status         string     `json:"status"`
	FollowUpDate   *time.Time `json:"followUpDate,omitempty"`
	AdditionalData JSONMap    `json:"additionalData"`
	ScannedAt      time.Time  `json:"scannedAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	// Joined fields
	ExhibitorName string `json:"exhibitorName,omitempty"`
	EventName     string `json:"eventName,omitempty"`
}

type ScanType string

const (
	ScanTypeQR  ScanType = "QR_SCAN"
	ScanTypeOCR ScanType = "OCR"
)

// ScannedVisitor records an exhibitor scanning a visitor QR badge or a
// business card via OCR. No uniqueness constraint applies.
type ScannedVisitor struct {
	ID                 int64     `json:"id"`
	ExhibitorID        *int64    `json:"exhibitorId,omitempty"`
	EventID            *int64    `json:"eventId,omitempty"`
	VisitorID          *int64    `json:"visitorId,omitempty"`
	ScanType           ScanType  `json:"scanType"`
	VisitorName        string    `json:"visitorName,omitempty"`
	VisitorEmail       string    `json:"visitorEmail,omitempty"`
	VisitorPhone       string    `json:"visitorPhone,omitempty"`
	VisitorCompany     string    `json:"visitorCompany,omitempty"`
	VisitorDesignation string    `json:"visitorDesignation,omitempty"`
	VisitorUniqueCode  string    `json:"visitorUniqueCode,omitempty"`
	OCRRawText         string    `json:"ocrRawText,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	InterestLevel      string    `json:"interestLevel,omitempty"`
	ScannedAt          time.Time `json:"scannedAt"`
}
