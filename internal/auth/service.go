package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voyage/server/internal/mail"
	"github.com/voyage/server/internal/repo"
)

// otpExpiry mirrors the ledger TTL on the client record's pending fields.
const otpExpiry = 10 * time.Minute

// OTPLedger is the single-use code store consumed by the registration flow.
// Implemented by otp.Ledger.
type OTPLedger interface {
	Issue(ctx context.Context, email string, width int) (string, error)
	Consume(ctx context.Context, email, candidate string) error
}

// Service orchestrates the registration, login, and password-reset flows.
type Service struct {
	clients repo.ClientRepo
	admins  repo.AdminRepo
	ledger  OTPLedger
	jwt     *JWTService
	mailer  mail.Mailer
	now     func() time.Time
}

// NewService creates the auth service.
func NewService(clients repo.ClientRepo, admins repo.AdminRepo, ledger OTPLedger, jwt *JWTService, mailer mail.Mailer) *Service {
	return &Service{
		clients: clients,
		admins:  admins,
		ledger:  ledger,
		jwt:     jwt,
		mailer:  mailer,
		now:     time.Now,
	}
}

// RegisterResult reports the outcome of a registration request.
type RegisterResult struct {
	Email  string
	Resent bool
}

// Register starts or refreshes a registration. A brand-new email gets an
// account in the pending-verification state plus a mailed OTP. An existing
// unverified account gets a fresh code (overwriting the old one, never a
// second account). An existing verified account fails with ErrAlreadyExists.
//
// The OTP mail failure fails the whole request: without the code the
// account would be unusable.
func (s *Service) Register(ctx context.Context, name, email, password string) (RegisterResult, error) {
	existing, err := s.clients.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Verified() {
			return RegisterResult{}, ErrAlreadyExists
		}
		// Pending account: re-issue, overwriting the previous code in both
		// the ledger and the account record.
		code, err := s.ledger.Issue(ctx, email, OTPWidthRegistration)
		if err != nil {
			return RegisterResult{}, fmt.Errorf("issue otp: %w", err)
		}
		if err := s.clients.RefreshOTP(ctx, existing.ID, code, s.now().Add(otpExpiry)); err != nil {
			return RegisterResult{}, fmt.Errorf("refresh otp: %w", err)
		}
		if err := s.mailer.SendOTP(email, code); err != nil {
			return RegisterResult{}, fmt.Errorf("send otp mail: %w", err)
		}
		return RegisterResult{Email: email, Resent: true}, nil

	case errors.Is(err, repo.ErrNotFound):
		// Fall through to create.

	default:
		return RegisterResult{}, fmt.Errorf("look up client: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return RegisterResult{}, err
	}

	code, err := s.ledger.Issue(ctx, email, OTPWidthRegistration)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("issue otp: %w", err)
	}

	_, err = s.clients.Create(ctx, name, email, hash, code, s.now().Add(otpExpiry))
	if err != nil {
		// A concurrent registration won the insert race at the unique index.
		if errors.Is(err, repo.ErrDuplicate) {
			return RegisterResult{}, ErrAlreadyExists
		}
		return RegisterResult{}, fmt.Errorf("create client: %w", err)
	}

	if err := s.mailer.SendOTP(email, code); err != nil {
		return RegisterResult{}, fmt.Errorf("send otp mail: %w", err)
	}
	return RegisterResult{Email: email}, nil
}

// VerifyRegistration completes a pending registration. On success the
// pending fields are cleared permanently; a repeat call fails with
// ErrOTPNotFound because neither the pending marker nor the ledger entry
// exists any longer.
func (s *Service) VerifyRegistration(ctx context.Context, email, code string) error {
	client, err := s.clients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOTPNotFound
		}
		return fmt.Errorf("look up client: %w", err)
	}
	if client.Verified() {
		return ErrOTPNotFound
	}
	if client.OTPExpires != nil && s.now().After(*client.OTPExpires) {
		return ErrOTPExpired
	}

	if err := s.ledger.Consume(ctx, email, code); err != nil {
		return err
	}

	if err := s.clients.ClearOTP(ctx, client.ID); err != nil {
		return fmt.Errorf("clear otp: %w", err)
	}
	return nil
}

// Login authenticates a verified client and issues a session token. An
// unknown email and a wrong password return the same ErrInvalidCredentials
// so responses do not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	client, err := s.clients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up client: %w", err)
	}
	if !client.Verified() {
		return "", ErrNotVerified
	}
	if client.IsBlocked {
		return "", ErrBlocked
	}
	if !CheckPassword(password, client.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.SignClientToken(client.ID, client.Name, client.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// AdminLogin authenticates an administrator. No OTP gate; admins are
// provisioned out-of-band.
func (s *Service) AdminLogin(ctx context.Context, username, password string) (string, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up admin: %w", err)
	}
	if !CheckPassword(password, admin.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.SignAdminToken(admin.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// RequestAdminReset issues a reset code tied to the admin record itself
// (its own column pair, not the shared OTP ledger) and mails it. Any
// previous code is overwritten.
func (s *Service) RequestAdminReset(ctx context.Context, username string) error {
	if _, err := s.admins.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("look up admin: %w", err)
	}

	code, err := GenerateOTPCode(OTPWidthAdminReset)
	if err != nil {
		return err
	}
	if err := s.admins.SetResetCode(ctx, username, code, s.now().Add(otpExpiry)); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	if err := s.mailer.SendAdminResetCode(username, code); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetAdminPassword validates code + expiry + username in one conditional
// update that also replaces the hash and clears both reset fields together.
// A cleared or expired code fails with ErrOTPMismatch.
func (s *Service) ResetAdminPassword(ctx context.Context, username, code, newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.admins.ResetPassword(ctx, username, code, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOTPMismatch
		}
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// ChangePassword replaces a client's password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, clientID uuid.UUID, currentPassword, newPassword string) error {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("look up client: %w", err)
	}
	if !CheckPassword(currentPassword, client.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.clients.UpdatePassword(ctx, clientID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
