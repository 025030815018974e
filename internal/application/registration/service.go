package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shared"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/telemetry"
)

// StatusPendingApproval is the onboarding state every new registration
// lands in; an operator promotes the account after vetting.
const StatusPendingApproval = "PENDING_WHOLESALE_APPROVAL"

// pendingMessage is reported to the client while the account awaits review.
const pendingMessage = "Registration received and pending wholesale approval"

// passwordHashCost matches the storefront's own password hashing.
const passwordHashCost = 10

// maxSyncResponseSize caps how much of a sync response is read.
const maxSyncResponseSize = 1 << 20

// Input is a validated registration request.
type Input struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Company       string
	VATNumber     string
	IBAN          string
	Phone         string
	Street        string
	City          string
	PostalCode    string
	CountryISO    string
	Newsletter    bool
	PartnerOffers bool
}

// Result reports the accepted registration. The receiver may override the
// customer id, status and message; otherwise the normalized email and the
// pending defaults are reported.
type Result struct {
	CustomerID string `json:"customerId"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// syncPayload is the document posted to the storefront sync module. The
// external customer and address ids are derived from the normalized email;
// the receiver upserts by them, which makes the submission idempotent.
// Field names follow the receiver's contract and must not change.
type syncPayload struct {
	ExternalCustomerID string        `json:"externalCustomerId"`
	Customer           syncCustomer  `json:"customer"`
	Groups             syncGroups    `json:"groups"`
	Addresses          []syncAddress `json:"addresses"`
}

type syncCustomer struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Password   string `json:"password"`
	Company    string `json:"company,omitempty"`
	Newsletter int    `json:"newsletter"`
	Optin      int    `json:"optin"`
	Active     int    `json:"active"`
}

type syncGroups struct {
	Default int64   `json:"default"`
	List    []int64 `json:"list"`
}

type syncAddress struct {
	ExternalAddressID string `json:"externalAddressId"`
	Alias             string `json:"alias"`
	Address1          string `json:"address1"`
	PostCode          string `json:"postcode"`
	City              string `json:"city"`
	CountryISO        string `json:"countryIso"`
	VATNumber         string `json:"vat_number,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Other             string `json:"other,omitempty"`
	Company           string `json:"company,omitempty"`
}

// receiverAck is what a cooperative sync module answers on success. Every
// field is optional; older module versions answer an empty body.
type receiverAck struct {
	CustomerID string `json:"customerId"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// Service submits wholesale registrations to the storefront. Submissions
// are signed, idempotent, and never retried.
type Service struct {
	signer         *Signer
	httpClient     *http.Client
	dir            *shop.Directory
	syncPath       string
	pendingGroupID int64
	countryGroups  map[string]int64
	countryShops   map[string]int64
	enabled        bool
	now            func() time.Time
	logger         *zap.Logger
}

// Options configures the registration service.
type Options struct {
	Secret         string
	SyncPath       string
	PendingGroupID int64            // group every registration is parked in
	CountryGroups  map[string]int64 // optional country ISO -> extra group
	CountryShops   map[string]int64 // optional country ISO -> shop id
	AliasHost      string
	AliasTarget    string
	Timeout        time.Duration
	HTTPClient     *http.Client // overrides the alias dialer client, used by tests
	Logger         *zap.Logger
}

// NewService creates the registration service. An empty secret disables
// registration; Register then fails with a configuration error instead of
// submitting unsigned requests.
func NewService(dir *shop.Directory, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = NewSyncHTTPClient(opts.AliasHost, opts.AliasTarget, timeout)
	}
	syncPath := opts.SyncPath
	if syncPath == "" {
		syncPath = "/module/grifonsync/customer"
	}
	return &Service{
		signer:         NewSigner(opts.Secret),
		httpClient:     httpClient,
		dir:            dir,
		syncPath:       syncPath,
		pendingGroupID: opts.PendingGroupID,
		countryGroups:  opts.CountryGroups,
		countryShops:   opts.CountryShops,
		enabled:        opts.Secret != "",
		now:            time.Now,
		logger:         logger,
	}
}

// Register hashes the credentials, builds the idempotent sync document and
// submits it signed to the storefront serving the customer's country.
func (s *Service) Register(ctx context.Context, in Input) (*Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "registration", "register")
	defer span.End()

	if !s.enabled {
		return nil, shared.ErrSyncSecretMissing
	}

	email := NormalizeEmail(in.Email)
	iso := strings.ToUpper(strings.TrimSpace(in.CountryISO))
	shopID := s.shopFor(iso)

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordHashCost)
	if err != nil {
		return nil, shared.NewGatewayError(shared.CodeConfig, "Failed to hash password").WithCause(err)
	}

	payload := syncPayload{
		ExternalCustomerID: email,
		Customer: syncCustomer{
			Email:      email,
			FirstName:  strings.TrimSpace(in.FirstName),
			LastName:   strings.TrimSpace(in.LastName),
			Password:   string(hash),
			Company:    strings.TrimSpace(in.Company),
			Newsletter: boolFlag(in.Newsletter),
			Optin:      boolFlag(in.PartnerOffers),
			Active:     0,
		},
		Groups: s.groupsFor(iso),
		Addresses: []syncAddress{{
			ExternalAddressID: AddressID(email),
			Alias:             "Default",
			Address1:          strings.TrimSpace(in.Street),
			PostCode:          strings.TrimSpace(in.PostalCode),
			City:              strings.TrimSpace(in.City),
			CountryISO:        iso,
			VATNumber:         strings.TrimSpace(in.VATNumber),
			Phone:             strings.TrimSpace(in.Phone),
			Other:             ibanNote(in.IBAN),
			Company:           strings.TrimSpace(in.Company),
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, shared.NewGatewayError(shared.CodeConfig, "Failed to encode sync payload").WithCause(err)
	}

	endpoint, err := SyncEndpoint(s.dir.BaseURL(shopID), s.syncPath)
	if err != nil {
		return nil, shared.NewGatewayError(shared.CodeConfig, "Sync endpoint misconfigured").WithCause(err)
	}

	ack, err := s.submit(ctx, endpoint, body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &Result{CustomerID: email, Status: StatusPendingApproval, Message: pendingMessage}
	if ack.CustomerID != "" {
		result.CustomerID = ack.CustomerID
	}
	if ack.Status != "" {
		result.Status = ack.Status
	}
	if ack.Message != "" {
		result.Message = ack.Message
	}

	s.logger.Info("registration submitted",
		zap.String("email", email),
		zap.Int64("shop_id", shopID))
	return result, nil
}

// shopFor routes a registration by country, falling back to the default
// shop for unmapped countries.
func (s *Service) shopFor(iso string) int64 {
	if id, ok := s.countryShops[iso]; ok && id > 0 {
		return id
	}
	return s.dir.DefaultID()
}

// groupsFor assigns the pending approval group plus any country-mapped
// group, de-duplicated; the pending group stays the default.
func (s *Service) groupsFor(iso string) syncGroups {
	groups := syncGroups{Default: s.pendingGroupID}
	if s.pendingGroupID > 0 {
		groups.List = append(groups.List, s.pendingGroupID)
	}
	if extra, ok := s.countryGroups[iso]; ok && extra > 0 && extra != s.pendingGroupID {
		groups.List = append(groups.List, extra)
	}
	if groups.Default == 0 && len(groups.List) > 0 {
		groups.Default = groups.List[0]
	}
	return groups
}

// ibanNote folds an optional IBAN into the free-form address note the
// receiver persists.
func ibanNote(iban string) string {
	iban = strings.TrimSpace(iban)
	if iban == "" {
		return ""
	}
	return "IBAN: " + iban
}

// submit performs the single signed POST. Writes are never retried: the
// document is idempotent but a duplicate submission still costs the
// storefront a conflict round trip.
func (s *Service) submit(ctx context.Context, endpoint string, body []byte) (*receiverAck, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, shared.ErrUpstreamUnreachable.WithCause(err)
	}
	timestamp := s.now().Unix()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	req.Header.Set(HeaderSignature, s.signer.Sign(timestamp, body))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, shared.ErrUpstreamTimeout.WithCause(err)
		}
		return nil, shared.ErrUpstreamUnreachable.WithCause(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxSyncResponseSize))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		ack := &receiverAck{}
		_ = json.Unmarshal(raw, ack)
		return ack, nil
	}
	if resp.StatusCode == http.StatusConflict || looksLikeEmailConflict(raw) {
		return nil, shared.ErrEmailExists
	}
	return nil, shared.ErrUpstreamUnreachable.
		WithDetail("sync endpoint returned status %d", resp.StatusCode)
}

// looksLikeEmailConflict applies the storefront's loosely specified
// duplicate response: any message mentioning an existing email counts.
func looksLikeEmailConflict(body []byte) bool {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		msg = envelope.Message
		if msg == "" {
			msg = envelope.Error
		}
	}
	if msg == "" {
		msg = string(body)
	}
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "email") && strings.Contains(msg, "exists")
}

// NormalizeEmail lowercases and trims an email; this normalized form keys
// the idempotent sync document.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AddressID derives the deterministic default-address id for a customer.
func AddressID(normalizedEmail string) string {
	return normalizedEmail + "::default"
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
