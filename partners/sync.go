package partners

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"promo-backoffice/dtos"
	"promo-backoffice/embedded"
	"promo-backoffice/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ErrNotFound is returned when the partner id does not exist locally.
var ErrNotFound = errors.New("partner not found")

// ValidationError marks failures detected before any network or database
// call. Handlers report these as client errors.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Service keeps each local partner row and its remote analytics account in
// step. The remote API is the system of record for identity (email); the
// local row owns the business metadata. Every remote failure is surfaced to
// the caller in the same request; nothing is retried automatically.
type Service struct {
	DB       *gorm.DB
	Embedded embedded.Client
}

func NewService(db *gorm.DB, client embedded.Client) *Service {
	return &Service{DB: db, Embedded: client}
}

// buildRemoteUser maps partner form fields onto the remote account payload.
// Email and trade name are mandatory for the remote API; their absence is a
// validation error raised before any network call.
func buildRemoteUser(req dtos.PartnerRequest, remoteID string) (embedded.User, error) {
	if req.ManagerEmail == "" {
		return embedded.User{}, validationErrorf("manager email is required for the remote account")
	}
	if req.TradeName == "" {
		return embedded.User{}, validationErrorf("trade name is required for the remote account")
	}

	var expiration *string
	if req.ExitDate != "" {
		exit, err := time.Parse(dateLayout, req.ExitDate)
		if err != nil {
			return embedded.User{}, validationErrorf("invalid exit date %q: use YYYY-MM-DD", req.ExitDate)
		}
		iso := exit.Format("2006-01-02T00:00:00Z")
		expiration = &iso
	}

	return embedded.User{
		ID:                      remoteID,
		Name:                    req.TradeName,
		Email:                   req.ManagerEmail,
		Role:                    1,
		Department:              req.Type,
		ExpirationDate:          expiration,
		CanDisplayVisualHeaders: true,
		AccessReportAnyTime:     true,
		SendWelcomeEmail:        true,
	}, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, validationErrorf("invalid date %q: use YYYY-MM-DD", value)
	}
	return &t, nil
}

func applyFields(partner *models.Partner, req dtos.PartnerRequest) error {
	entry, err := parseDate(req.EntryDate)
	if err != nil {
		return err
	}
	exit, err := parseDate(req.ExitDate)
	if err != nil {
		return err
	}

	partner.AdjustedName = req.AdjustedName
	partner.Type = req.Type
	partner.TaxID = req.TaxID
	partner.TradeName = req.TradeName
	partner.LegalName = req.LegalName
	partner.ManagerName = req.ManagerName
	partner.ManagerPhone = req.ManagerPhone
	partner.ManagerEmail = req.ManagerEmail
	partner.EntryDate = entry
	partner.ExitDate = exit
	if req.ContractFile != "" {
		contract := req.ContractFile
		partner.ContractFile = &contract
	}
	return nil
}

// Create provisions the remote account first and inserts the local row only
// after the remote side succeeded. When the local insert then fails, a
// best-effort compensating remote delete is issued so no orphan account is
// left behind.
//
// The creation response does not reliably echo the new account's id, so the
// account is looked up again by email. An undiscoverable id degrades to a
// warning: the partner is saved locally, unlinked from the remote account.
func (s *Service) Create(ctx context.Context, req dtos.PartnerRequest) (*models.Partner, string, error) {
	user, err := buildRemoteUser(req, "")
	if err != nil {
		return nil, "", err
	}

	if err := s.Embedded.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("remote account creation failed: %w", err)
	}

	var warning string
	var remoteID *string
	found, err := s.Embedded.FindUserByEmail(ctx, user.Email)
	switch {
	case err != nil:
		warning = fmt.Sprintf("remote account created, but looking it up failed: %v; partner saved without a remote link", err)
	case found == nil || found.ID == "":
		warning = fmt.Sprintf("remote account created, but no account with email %q could be found; partner saved without a remote link", user.Email)
	default:
		id := found.ID
		remoteID = &id
	}

	partner := models.Partner{IsActive: true, RemoteUserID: remoteID}
	if err := applyFields(&partner, req); err != nil {
		// Field validation happened before the remote call; a failure here
		// means the dates were already accepted by buildRemoteUser.
		return nil, "", err
	}

	if dbErr := s.DB.WithContext(ctx).Create(&partner).Error; dbErr != nil {
		if delErr := s.Embedded.DeleteUserByEmail(ctx, user.Email); delErr != nil {
			log.Printf("Compensating remote delete for %s failed: %v", user.Email, delErr)
			return nil, "", fmt.Errorf("local save failed after remote account creation (%v), and the compensating remote delete also failed: %v", dbErr, delErr)
		}
		return nil, "", fmt.Errorf("local save failed after remote account creation; the remote account was rolled back: %v", dbErr)
	}

	return &partner, warning, nil
}

// Update pushes the edit to the remote account before touching the local row;
// a remote failure leaves the local row unchanged. Partners never linked to a
// remote account skip the remote half entirely.
//
// The manager email is immutable: a changed value is discarded, the stored
// one restored, and a warning surfaced. The remote account is keyed by that
// email and is never re-keyed through this path.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req dtos.PartnerRequest) (*models.Partner, string, error) {
	var partner models.Partner
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	var warning string
	if req.ManagerEmail != partner.ManagerEmail {
		warning = fmt.Sprintf("manager email cannot be changed; keeping %q", partner.ManagerEmail)
		req.ManagerEmail = partner.ManagerEmail
	}

	if partner.RemoteUserID == nil {
		log.Printf("Partner %s has no remote account id, skipping remote update", partner.ID)
	} else {
		user, err := buildRemoteUser(req, *partner.RemoteUserID)
		if err != nil {
			return nil, warning, err
		}
		if err := s.Embedded.UpdateUser(ctx, user); err != nil {
			return nil, warning, fmt.Errorf("remote account update failed: %w", err)
		}
	}

	if err := applyFields(&partner, req); err != nil {
		return nil, warning, err
	}
	if err := s.DB.WithContext(ctx).Save(&partner).Error; err != nil {
		return nil, warning, fmt.Errorf("partner updated remotely but local save failed: %v", err)
	}

	return &partner, warning, nil
}

// Delete removes the remote account first, keyed by email because that is the
// only identifier the deletion endpoint accepts. A remote "not found" is the
// desired end state and counts as success; partners without an email on file
// skip the remote half. The local row is removed only after the remote side
// succeeded.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	var partner models.Partner
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if partner.ManagerEmail == "" {
		log.Printf("Partner %s has no manager email, skipping remote delete", partner.ID)
	} else if err := s.Embedded.DeleteUserByEmail(ctx, partner.ManagerEmail); err != nil {
		return fmt.Errorf("remote account deletion failed: %w", err)
	}

	if err := s.DB.WithContext(ctx).Delete(&models.Partner{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("partner deleted remotely but local delete failed: %v", err)
	}
	return nil
}

// SetPassword submits a new password for the partner's remote account and
// raises the local password-set flag only after the remote call succeeded.
// The flag is display-only; authentication is owned by the remote platform.
func (s *Service) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	var partner models.Partner
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if partner.ManagerEmail == "" {
		return validationErrorf("partner has no manager email; the remote account cannot be addressed")
	}

	if err := s.Embedded.SetPassword(ctx, partner.ManagerEmail, password); err != nil {
		return fmt.Errorf("remote password update failed: %w", err)
	}

	if err := s.DB.WithContext(ctx).Model(&partner).Update("password_set", true).Error; err != nil {
		return fmt.Errorf("password set remotely but local flag update failed: %v", err)
	}
	return nil
}
