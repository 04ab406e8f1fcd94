// Package gst verifies Indian GST identification numbers: format
// validation, a demo-mode sentinel, a sliding-window rate budget, a
// time-boxed result cache, and normalization of the upstream lookup.
package gst

import (
	"context"
	"regexp"
	"strings"

	"expoevents-backend/internal/logger"
)

// SentinelGSTIN bypasses format validation entirely and always verifies
// with a fixed demo record. Checked before the format gate so it works even
// though it does not match the standard pattern.
const SentinelGSTIN = "36AAACH7409R116"

// Error codes returned in Result.ErrorCode.
const (
	ErrCodeInvalidFormat = "INVALID_FORMAT"
	ErrCodeDemoMode      = "DEMO_MODE"
	ErrCodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	ErrCodeNotFound      = "GSTIN_NOT_FOUND"
	ErrCodeInactive      = "GSTIN_INACTIVE"
	ErrCodeAPIError      = "API_ERROR"
	ErrCodeSystemError   = "SYSTEM_ERROR"
)

// 2 digits state code + 5 letters + 4 digits + 1 letter + 1 entity code +
// literal Z + 1 checksum character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Details is the normalized company record for a verified GSTIN.
type Details struct {
	GSTIN            string `json:"gstin"`
	LegalName        string `json:"legalName"`
	TradeName        string `json:"tradeName"`
	Status           string `json:"status"`
	State            string `json:"state"`
	District         string `json:"district"`
	RegistrationDate string `json:"registrationDate"`
	PANNumber        string `json:"panNumber"`
	StateCode        string `json:"stateCode"`
	BusinessType     string `json:"businessType"`
	Address          string `json:"address"`
}

// Result is the uniform success/failure shape every verification returns.
type Result struct {
	Success   bool     `json:"success"`
	Data      *Details `json:"data,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorCode string   `json:"errorCode,omitempty"`
}

var sentinelDetails = Details{
	GSTIN:            SentinelGSTIN,
	LegalName:        "Demo Company Pvt Ltd",
	TradeName:        "Demo Company",
	Status:           "Active",
	State:            "Telangana",
	District:         "Hyderabad",
	RegistrationDate: "2020-01-01",
	PANNumber:        "AAACH7409R",
	StateCode:        "36",
	BusinessType:     "Private Limited Company",
	Address:          "Demo Address, Hyderabad, Telangana - 500001",
}

// ValidFormat reports whether the input matches the 15-character GSTIN
// pattern. The sentinel is not special-cased here; Verify handles it first.
func ValidFormat(gstin string) bool {
	if len(gstin) != 15 {
		return false
	}
	return gstinPattern.MatchString(gstin)
}

// ExtractStateCode returns the first two digits of a GSTIN.
func ExtractStateCode(gstin string) string {
	if len(gstin) < 2 {
		return ""
	}
	return gstin[:2]
}

// ExtractPAN returns the PAN embedded in characters 3-12 of a GSTIN.
func ExtractPAN(gstin string) string {
	if len(gstin) < 12 {
		return ""
	}
	return gstin[2:12]
}

// Service runs the verification gates. Cache and limiter are injected so
// their lifecycle (and sweeping) is owned by the caller, not hidden in
// package state.
type Service struct {
	apiKey  string
	lookup  Lookup
	cache   *Cache
	limiter *RateLimiter
}

// NewService creates a verification service. A nil lookup or empty apiKey
// puts the service in demo mode: only the sentinel verifies.
func NewService(apiKey string, lookup Lookup, cache *Cache, limiter *RateLimiter) *Service {
	return &Service{
		apiKey:  apiKey,
		lookup:  lookup,
		cache:   cache,
		limiter: limiter,
	}
}

// Cache exposes the result cache for maintenance sweeps.
func (s *Service) Cache() *Cache { return s.cache }

// Limiter exposes the rate tracker for maintenance sweeps.
func (s *Service) Limiter() *RateLimiter { return s.limiter }

// Verify runs the full gate sequence for one GSTIN. identifier scopes the
// rate budget (an empty identifier shares the global bucket). Every failure
// mode maps to a distinct error code; upstream faults never escape as
// errors.
func (s *Service) Verify(ctx context.Context, gstin, identifier string) Result {
	normalized := strings.ToUpper(strings.TrimSpace(gstin))

	// Sentinel first, before format validation, so the demo GSTIN works
	// even though it does not match the standard pattern.
	if normalized == SentinelGSTIN {
		logger.Debug("Using demo GST record", "gstin", normalized)
		data := sentinelDetails
		return Result{Success: true, Data: &data}
	}

	if !ValidFormat(normalized) {
		return Result{
			Success:   false,
			Error:     "Invalid GSTIN format. Please enter a valid 15-digit GSTIN.",
			ErrorCode: ErrCodeInvalidFormat,
		}
	}

	if s.apiKey == "" || s.lookup == nil {
		logger.Debug("GST API key not configured, demo mode active")
		return Result{
			Success:   false,
			Error:     "GST verification is currently in demo mode. Please use the demo GST number: " + SentinelGSTIN,
			ErrorCode: ErrCodeDemoMode,
		}
	}

	if !s.limiter.Allow(identifier) {
		return Result{
			Success:   false,
			Error:     "Too many requests. Please try again later.",
			ErrorCode: ErrCodeRateLimit,
		}
	}

	if cached, ok := s.cache.Get(normalized); ok {
		logger.Debug("Using cached GSTIN result", "gstin", normalized)
		return cached
	}

	resp, err := s.lookup.Check(ctx, normalized)
	if err != nil {
		logger.Error("GSTIN verification failed", "gstin", normalized, "error", err)
		return Result{
			Success:   false,
			Error:     "Unable to verify GSTIN. Please try again later.",
			ErrorCode: ErrCodeSystemError,
		}
	}

	result := s.normalize(normalized, resp)

	// Cache failures too, so a known-bad GSTIN never re-triggers the
	// upstream call within the TTL.
	s.cache.Put(normalized, result)
	return result
}

func (s *Service) normalize(gstin string, resp *UpstreamResponse) Result {
	switch {
	case (resp.Flag != nil && !*resp.Flag):
		msg := resp.Message
		if msg == "" {
			msg = "GSTIN not found or verification failed."
		}
		return Result{Success: false, Error: msg, ErrorCode: ErrCodeNotFound}

	case resp.Data != nil && resp.Data.Sts == "Inactive":
		return Result{
			Success:   false,
			Error:     "This GSTIN is inactive or cancelled. Please verify your GSTIN.",
			ErrorCode: ErrCodeInactive,
		}

	case resp.Data != nil:
		data := resp.Data
		stateCode := ExtractStateCode(gstin)
		info := StateForCode(stateCode)

		details := Details{
			GSTIN:            gstin,
			LegalName:        firstNonEmpty(data.Lgnm, data.TradeNam),
			TradeName:        firstNonEmpty(data.TradeNam, data.Lgnm),
			Status:           firstNonEmpty(data.Sts, "Active"),
			State:            info.State,
			District:         info.District,
			RegistrationDate: data.Rgdt,
			PANNumber:        ExtractPAN(gstin),
			StateCode:        stateCode,
			BusinessType:     data.Ctb,
		}
		if data.Pradr != nil && data.Pradr.Addr != nil {
			details.Address = data.Pradr.Addr.FormatAddress()
			if details.State == "" {
				details.State = data.Pradr.Addr.Stcd
			}
		}
		return Result{Success: true, Data: &details}

	default:
		return Result{
			Success:   false,
			Error:     "Unable to verify GSTIN. Please try again later.",
			ErrorCode: ErrCodeAPIError,
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
