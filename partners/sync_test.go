package partners

import (
	"context"
	"errors"
	"strings"
	"testing"

	"promo-backoffice/dtos"
	"promo-backoffice/embedded"
	"promo-backoffice/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// mockClient scripts the remote user API per test via function fields.
type mockClient struct {
	CreateUserFn        func(ctx context.Context, user embedded.User) error
	FindUserByEmailFn   func(ctx context.Context, email string) (*embedded.User, error)
	UpdateUserFn        func(ctx context.Context, user embedded.User) error
	DeleteUserByEmailFn func(ctx context.Context, email string) error
	SetPasswordFn       func(ctx context.Context, email, password string) error

	deleteCalls []string
}

func (m *mockClient) CreateUser(ctx context.Context, user embedded.User) error {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, user)
	}
	return nil
}

func (m *mockClient) FindUserByEmail(ctx context.Context, email string) (*embedded.User, error) {
	if m.FindUserByEmailFn != nil {
		return m.FindUserByEmailFn(ctx, email)
	}
	return &embedded.User{ID: "remote-1", Email: email}, nil
}

func (m *mockClient) UpdateUser(ctx context.Context, user embedded.User) error {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, user)
	}
	return nil
}

func (m *mockClient) DeleteUserByEmail(ctx context.Context, email string) error {
	m.deleteCalls = append(m.deleteCalls, email)
	if m.DeleteUserByEmailFn != nil {
		return m.DeleteUserByEmailFn(ctx, email)
	}
	return nil
}

func (m *mockClient) SetPassword(ctx context.Context, email, password string) error {
	if m.SetPasswordFn != nil {
		return m.SetPasswordFn(ctx, email, password)
	}
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.Exec(`CREATE TABLE IF NOT EXISTS "partners" (
		"id" TEXT PRIMARY KEY,
		"adjusted_name" TEXT NOT NULL UNIQUE,
		"type" TEXT,
		"tax_id" TEXT,
		"trade_name" TEXT,
		"legal_name" TEXT,
		"manager_name" TEXT,
		"manager_phone" TEXT,
		"manager_email" TEXT,
		"entry_date" DATETIME,
		"exit_date" DATETIME,
		"is_active" INTEGER DEFAULT 1,
		"remote_user_id" TEXT,
		"password_set" INTEGER DEFAULT 0,
		"contract_file" TEXT,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`).Error; err != nil {
		t.Fatal(err)
	}
	return db
}

func validRequest() dtos.PartnerRequest {
	return dtos.PartnerRequest{
		AdjustedName: "lab-x",
		Type:         models.PartnerTypeIndustry,
		TradeName:    "Lab X",
		ManagerEmail: "manager@labx.com",
		EntryDate:    "2026-01-15",
	}
}

func TestCreateHappyPath(t *testing.T) {
	db := setupTestDB(t)
	remote := &mockClient{}
	svc := NewService(db, remote)

	partner, warning, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatal(err)
	}
	if warning != "" {
		t.Fatalf("unexpected warning: %s", warning)
	}
	if partner.RemoteUserID == nil || *partner.RemoteUserID != "remote-1" {
		t.Fatalf("expected remote id to be linked, got %v", partner.RemoteUserID)
	}
	if !partner.IsActive {
		t.Error("new partner should be active")
	}
	if partner.EntryDate == nil {
		t.Error("entry date should be set")
	}

	var stored models.Partner
	if err := db.Where("adjusted_name = ?", "lab-x").First(&stored).Error; err != nil {
		t.Fatal("partner not persisted")
	}
}

func TestCreateRequiresEmailBeforeNetwork(t *testing.T) {
	db := setupTestDB(t)
	remoteCalled := false
	remote := &mockClient{
		CreateUserFn: func(ctx context.Context, user embedded.User) error {
			remoteCalled = true
			return nil
		},
	}
	svc := NewService(db, remote)

	req := validRequest()
	req.ManagerEmail = ""
	_, _, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if remoteCalled {
		t.Error("validation must happen before any remote call")
	}
}

func TestCreateRemoteFailureSkipsLocal(t *testing.T) {
	db := setupTestDB(t)
	remote := &mockClient{
		CreateUserFn: func(ctx context.Context, user embedded.User) error {
			return errors.New("boom")
		},
	}
	svc := NewService(db, remote)

	_, _, err := svc.Create(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error")
	}

	var count int64
	db.Model(&models.Partner{}).Count(&count)
	if count != 0 {
		t.Fatalf("no partner should be saved after remote failure, got %d", count)
	}
}

func TestCreateLookupFailureDegradesToWarning(t *testing.T) {
	db := setupTestDB(t)
	remote := &mockClient{
		FindUserByEmailFn: func(ctx context.Context, email string) (*embedded.User, error) {
			return nil, errors.New("list endpoint down")
		},
	}
	svc := NewService(db, remote)

	partner, warning, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatal(err)
	}
	if warning == "" {
		t.Fatal("expected a warning about the unrecoverable remote id")
	}
	if partner.RemoteUserID != nil {
		t.Fatalf("remote id should be absent, got %q", *partner.RemoteUserID)
	}
}

func TestCreateCompensatesOnLocalFailure(t *testing.T) {
	db := setupTestDB(t)
	remote := &mockClient{}
	svc := NewService(db, remote)

	// First create occupies the unique adjusted name.
	if _, _, err := svc.Create(context.Background(), validRequest()); err != nil {
		t.Fatal(err)
	}

	// Second create with the same adjusted name fails the local insert.
	req := validRequest()
	req.ManagerEmail = "other@labx.com"
	_, _, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected error from duplicate adjusted name")
	}

	// The just-created remote account must have been rolled back.
	found := false
	for _, email := range remote.deleteCalls {
		if email == "other@labx.com" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected compensating remote delete for other@labx.com, got %v", remote.deleteCalls)
	}
}

func seedPartner(t *testing.T, db *gorm.DB, email string, remoteID *string) models.Partner {
	t.Helper()
	partner := models.Partner{
		ID:           uuid.New(),
		AdjustedName: "seeded-" + uuid.NewString()[:8],
		Type:         models.PartnerTypeDistributor,
		TradeName:    "Seeded Partner",
		ManagerEmail: email,
		IsActive:     true,
		RemoteUserID: remoteID,
	}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatal(err)
	}
	return partner
}

func TestUpdateEmailImmutable(t *testing.T) {
	db := setupTestDB(t)
	remoteID := "remote-1"
	partner := seedPartner(t, db, "original@partner.com", &remoteID)

	var pushedEmail string
	remote := &mockClient{
		UpdateUserFn: func(ctx context.Context, user embedded.User) error {
			pushedEmail = user.Email
			return nil
		},
	}
	svc := NewService(db, remote)

	req := dtos.PartnerRequest{
		AdjustedName: partner.AdjustedName,
		TradeName:    "Seeded Partner",
		ManagerEmail: "changed@partner.com",
	}
	updated, warning, err := svc.Update(context.Background(), partner.ID, req)
	if err != nil {
		t.Fatal(err)
	}
	if warning == "" {
		t.Fatal("expected a warning about the discarded email change")
	}
	if updated.ManagerEmail != "original@partner.com" {
		t.Fatalf("stored email must be kept, got %q", updated.ManagerEmail)
	}
	if pushedEmail != "original@partner.com" {
		t.Fatalf("remote update must use the stored email, got %q", pushedEmail)
	}
}

func TestUpdateWithoutRemoteIDSkipsRemote(t *testing.T) {
	db := setupTestDB(t)
	partner := seedPartner(t, db, "local@partner.com", nil)

	remoteCalled := false
	remote := &mockClient{
		UpdateUserFn: func(ctx context.Context, user embedded.User) error {
			remoteCalled = true
			return nil
		},
	}
	svc := NewService(db, remote)

	req := dtos.PartnerRequest{
		AdjustedName: partner.AdjustedName,
		TradeName:    "Renamed Partner",
		ManagerEmail: "local@partner.com",
	}
	updated, _, err := svc.Update(context.Background(), partner.ID, req)
	if err != nil {
		t.Fatal(err)
	}
	if remoteCalled {
		t.Error("partners without a remote id must skip the remote update")
	}
	if updated.TradeName != "Renamed Partner" {
		t.Errorf("local update should apply, got %q", updated.TradeName)
	}
}

func TestUpdateRemoteFailureLeavesLocalUnchanged(t *testing.T) {
	db := setupTestDB(t)
	remoteID := "remote-1"
	partner := seedPartner(t, db, "x@partner.com", &remoteID)

	remote := &mockClient{
		UpdateUserFn: func(ctx context.Context, user embedded.User) error {
			return errors.New("remote down")
		},
	}
	svc := NewService(db, remote)

	req := dtos.PartnerRequest{
		AdjustedName: partner.AdjustedName,
		TradeName:    "Should Not Stick",
		ManagerEmail: "x@partner.com",
	}
	_, _, err := svc.Update(context.Background(), partner.ID, req)
	if err == nil {
		t.Fatal("expected error")
	}

	var stored models.Partner
	db.Where("id = ?", partner.ID).First(&stored)
	if stored.TradeName == "Should Not Stick" {
		t.Error("local row must not change when the remote update fails")
	}
}

func TestUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &mockClient{})

	_, _, err := svc.Update(context.Background(), uuid.New(), validRequest())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesRemoteThenLocal(t *testing.T) {
	db := setupTestDB(t)
	remoteID := "remote-1"
	partner := seedPartner(t, db, "x@partner.com", &remoteID)

	remote := &mockClient{}
	svc := NewService(db, remote)

	if err := svc.Delete(context.Background(), partner.ID); err != nil {
		t.Fatal(err)
	}
	if len(remote.deleteCalls) != 1 || remote.deleteCalls[0] != "x@partner.com" {
		t.Fatalf("expected remote delete by email, got %v", remote.deleteCalls)
	}

	var count int64
	db.Model(&models.Partner{}).Where("id = ?", partner.ID).Count(&count)
	if count != 0 {
		t.Fatal("local row should be deleted")
	}
}

func TestDeleteWithoutEmailSkipsRemote(t *testing.T) {
	db := setupTestDB(t)
	partner := seedPartner(t, db, "", nil)

	remote := &mockClient{}
	svc := NewService(db, remote)

	if err := svc.Delete(context.Background(), partner.ID); err != nil {
		t.Fatal(err)
	}
	if len(remote.deleteCalls) != 0 {
		t.Fatalf("no remote call expected, got %v", remote.deleteCalls)
	}

	var count int64
	db.Model(&models.Partner{}).Where("id = ?", partner.ID).Count(&count)
	if count != 0 {
		t.Fatal("local row should be deleted")
	}
}

func TestDeleteRemoteFailureBlocksLocal(t *testing.T) {
	db := setupTestDB(t)
	partner := seedPartner(t, db, "x@partner.com", nil)

	remote := &mockClient{
		DeleteUserByEmailFn: func(ctx context.Context, email string) error {
			return errors.New("remote down")
		},
	}
	svc := NewService(db, remote)

	err := svc.Delete(context.Background(), partner.ID)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "remote account deletion failed") {
		t.Errorf("unexpected error text: %q", err.Error())
	}

	var count int64
	db.Model(&models.Partner{}).Where("id = ?", partner.ID).Count(&count)
	if count != 1 {
		t.Fatal("local row must survive a failed remote delete")
	}
}

func TestSetPasswordRaisesFlagOnSuccess(t *testing.T) {
	db := setupTestDB(t)
	partner := seedPartner(t, db, "x@partner.com", nil)
	svc := NewService(db, &mockClient{})

	if err := svc.SetPassword(context.Background(), partner.ID, "new-password-1"); err != nil {
		t.Fatal(err)
	}

	var stored models.Partner
	db.Where("id = ?", partner.ID).First(&stored)
	if !stored.PasswordSet {
		t.Fatal("password flag should be raised after remote success")
	}
}

func TestSetPasswordRemoteFailureKeepsFlagDown(t *testing.T) {
	db := setupTestDB(t)
	partner := seedPartner(t, db, "x@partner.com", nil)

	remote := &mockClient{
		SetPasswordFn: func(ctx context.Context, email, password string) error {
			return errors.New("remote down")
		},
	}
	svc := NewService(db, remote)

	if err := svc.SetPassword(context.Background(), partner.ID, "new-password-1"); err == nil {
		t.Fatal("expected error")
	}

	var stored models.Partner
	db.Where("id = ?", partner.ID).First(&stored)
	if stored.PasswordSet {
		t.Fatal("password flag must stay down after remote failure")
	}
}

func TestSetPasswordRequiresEmail(t *testing.T) {
	db := setupTestDB(t)
	partner := seedPartner(t, db, "", nil)
	svc := NewService(db, &mockClient{})

	err := svc.SetPassword(context.Background(), partner.ID, "new-password-1")
	if err == nil {
		t.Fatal("expected error for partner without email")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestCreateExitDateBecomesExpiration(t *testing.T) {
	db := setupTestDB(t)
	var sent embedded.User
	remote := &mockClient{
		CreateUserFn: func(ctx context.Context, user embedded.User) error {
			sent = user
			return nil
		},
	}
	svc := NewService(db, remote)

	req := validRequest()
	req.ExitDate = "2026-12-31"
	if _, _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if sent.ExpirationDate == nil || !strings.HasPrefix(*sent.ExpirationDate, "2026-12-31") {
		t.Fatalf("unexpected expiration date: %v", sent.ExpirationDate)
	}
	if sent.Department != models.PartnerTypeIndustry {
		t.Errorf("partner type should map to department, got %q", sent.Department)
	}
}
