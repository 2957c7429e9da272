package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage/server/internal/model"
	"github.com/voyage/server/internal/repo"
)

// fakeClientRepo is an in-memory ClientRepo with the same duplicate-email
// behavior as the Postgres implementation.
type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[uuid.UUID]model.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uuid.UUID]model.Client)}
}

func (f *fakeClientRepo) Create(_ context.Context, name, email, passwordHash, otpCode string, otpExpires time.Time) (model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.Email == email {
			return model.Client{}, repo.ErrDuplicate
		}
	}
	c := model.Client{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		OTPCode:      &otpCode,
		OTPExpires:   &otpExpires,
		CreatedAt:    time.Now(),
	}
	f.clients[c.ID] = c
	return c, nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id uuid.UUID) (model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return model.Client{}, repo.ErrNotFound
	}
	return c, nil
}

func (f *fakeClientRepo) GetByEmail(_ context.Context, email string) (model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.Email == email {
			return c, nil
		}
	}
	return model.Client{}, repo.ErrNotFound
}

func (f *fakeClientRepo) RefreshOTP(_ context.Context, id uuid.UUID, otpCode string, otpExpires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.OTPCode = &otpCode
	c.OTPExpires = &otpExpires
	f.clients[id] = c
	return nil
}

func (f *fakeClientRepo) ClearOTP(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.OTPCode = nil
	c.OTPExpires = nil
	f.clients[id] = c
	return nil
}

func (f *fakeClientRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.PasswordHash = passwordHash
	f.clients[id] = c
	return nil
}

func (f *fakeClientRepo) UpdateProfile(_ context.Context, id uuid.UUID, name, bio, profileImage *string) (model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return model.Client{}, repo.ErrNotFound
	}
	if name != nil {
		c.Name = *name
	}
	if bio != nil {
		c.Bio = bio
	}
	if profileImage != nil {
		c.ProfileImage = profileImage
	}
	f.clients[id] = c
	return c, nil
}

func (f *fakeClientRepo) ListAll(_ context.Context) ([]model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Client, 0, len(f.clients))
	for _, c := range f.clients {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClientRepo) ToggleBlocked(_ context.Context, id uuid.UUID) (model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return model.Client{}, repo.ErrNotFound
	}
	c.IsBlocked = !c.IsBlocked
	f.clients[id] = c
	return c, nil
}

// fakeAdminRepo is an in-memory AdminRepo mirroring the conditional-update
// semantics of ResetPassword.
type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]model.Admin
	now    func() time.Time
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]model.Admin), now: time.Now}
}

func (f *fakeAdminRepo) Create(_ context.Context, username, passwordHash string) (model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.admins[username]; ok {
		return model.Admin{}, repo.ErrDuplicate
	}
	a := model.Admin{ID: uuid.New(), Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.admins[username] = a
	return a, nil
}

func (f *fakeAdminRepo) GetByUsername(_ context.Context, username string) (model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[username]
	if !ok {
		return model.Admin{}, repo.ErrNotFound
	}
	return a, nil
}

func (f *fakeAdminRepo) SetResetCode(_ context.Context, username, code string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[username]
	if !ok {
		return repo.ErrNotFound
	}
	a.ResetOTP = &code
	a.ResetExpires = &expires
	f.admins[username] = a
	return nil
}

func (f *fakeAdminRepo) ResetPassword(_ context.Context, username, code, newPasswordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[username]
	if !ok || a.ResetOTP == nil || *a.ResetOTP != code || a.ResetExpires == nil || !f.now().Before(*a.ResetExpires) {
		return repo.ErrNotFound
	}
	a.PasswordHash = newPasswordHash
	a.ResetOTP = nil
	a.ResetExpires = nil
	f.admins[username] = a
	return nil
}

// fakeLedger is an in-memory OTPLedger with single-use consumption.
type fakeLedger struct {
	mu      sync.Mutex
	codes   map[string]string
	issued  map[string]time.Time
	now     func() time.Time
	ttl     time.Duration
	failSet bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		codes:  make(map[string]string),
		issued: make(map[string]time.Time),
		now:    time.Now,
		ttl:    10 * time.Minute,
	}
}

func (f *fakeLedger) Issue(_ context.Context, email string, width int) (string, error) {
	code, err := GenerateOTPCode(width)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[email] = code
	f.issued[email] = f.now()
	return code, nil
}

func (f *fakeLedger) Consume(_ context.Context, email, candidate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.codes[email]
	if !ok || f.now().Sub(f.issued[email]) > f.ttl {
		delete(f.codes, email)
		return ErrOTPNotFound
	}
	if code != candidate {
		return ErrOTPMismatch
	}
	delete(f.codes, email)
	return nil
}

func (f *fakeLedger) live(email string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.codes[email]
	return code, ok
}

// recordingMailer captures sent mail instead of talking to SMTP.
type recordingMailer struct {
	mu       sync.Mutex
	otps     []string
	resets   []string
	bookings []string
	failOTP  bool
}

func (m *recordingMailer) SendOTP(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOTP {
		return assert.AnError
	}
	m.otps = append(m.otps, to+":"+code)
	return nil
}

func (m *recordingMailer) SendAdminResetCode(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, to+":"+code)
	return nil
}

func (m *recordingMailer) SendBookingConfirmation(to string, _ model.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, to)
	return nil
}

func (m *recordingMailer) SendAdminResponse(to, _, _, _ string) error {
	return nil
}

type serviceFixture struct {
	svc     *Service
	clients *fakeClientRepo
	admins  *fakeAdminRepo
	ledger  *fakeLedger
	mailer  *recordingMailer
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		clients: newFakeClientRepo(),
		admins:  newFakeAdminRepo(),
		ledger:  newFakeLedger(),
		mailer:  &recordingMailer{},
	}
	f.svc = NewService(f.clients, f.admins, f.ledger, NewJWTService("test-secret"), f.mailer)
	return f
}

func TestRegister_newAccount(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	result, err := f.svc.Register(ctx, "Ada", "ada@example.com", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.Email)
	assert.False(t, result.Resent)

	// Account exists, pending, with a live 4-digit code that was mailed.
	client, err := f.clients.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, client.Verified())
	assert.NotEqual(t, "pass1234", client.PasswordHash)

	code, ok := f.ledger.live("ada@example.com")
	require.True(t, ok)
	assert.Len(t, code, OTPWidthRegistration)
	require.Len(t, f.mailer.otps, 1)
	assert.Equal(t, "ada@example.com:"+code, f.mailer.otps[0])
}

func TestRegister_pendingAccountGetsFreshCode(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "pass1234")
	require.NoError(t, err)
	first, _ := f.ledger.live("ada@example.com")

	result, err := f.svc.Register(ctx, "Ada", "ada@example.com", "other-pass")
	require.NoError(t, err)
	assert.True(t, result.Resent)

	// Still exactly one account; the old code no longer works.
	all, err := f.clients.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	second, ok := f.ledger.live("ada@example.com")
	require.True(t, ok)
	if first != second {
		assert.ErrorIs(t, f.ledger.Consume(ctx, "ada@example.com", first), ErrOTPMismatch)
	}
	assert.Len(t, f.mailer.otps, 2)
}

func TestRegister_verifiedAccountConflicts(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	registerAndVerify(t, f, "ada@example.com", "pass1234")

	_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "pass1234")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegister_mailFailureFailsRequest(t *testing.T) {
	f := newServiceFixture(t)
	f.mailer.failOTP = true

	_, err := f.svc.Register(context.Background(), "Ada", "ada@example.com", "pass1234")
	require.Error(t, err)
}

func registerAndVerify(t *testing.T, f *serviceFixture, email, password string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "Test User", email, password)
	require.NoError(t, err)
	code, ok := f.ledger.live(email)
	require.True(t, ok)
	require.NoError(t, f.svc.VerifyRegistration(ctx, email, code))
}

func TestVerifyRegistration_success(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	registerAndVerify(t, f, "ada@example.com", "pass1234")

	client, err := f.clients.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, client.Verified())
}

func TestVerifyRegistration_singleUse(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "pass1234")
	require.NoError(t, err)
	code, _ := f.ledger.live("ada@example.com")

	require.NoError(t, f.svc.VerifyRegistration(ctx, "ada@example.com", code))
	assert.ErrorIs(t, f.svc.VerifyRegistration(ctx, "ada@example.com", code), ErrOTPNotFound)
}

func TestVerifyRegistration_wrongCode(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "pass1234")
	require.NoError(t, err)
	code, _ := f.ledger.live("ada@example.com")

	wrong := "1111"
	if wrong == code {
		wrong = "2222"
	}
	assert.ErrorIs(t, f.svc.VerifyRegistration(ctx, "ada@example.com", wrong), ErrOTPMismatch)

	// A wrong guess does not burn the real code.
	assert.NoError(t, f.svc.VerifyRegistration(ctx, "ada@example.com", code))
}

func TestVerifyRegistration_unknownEmail(t *testing.T) {
	f := newServiceFixture(t)
	err := f.svc.VerifyRegistration(context.Background(), "nobody@example.com", "1234")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyRegistration_expiredCode(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	start := time.Now()
	f.svc.now = func() time.Time { return start }
	_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "pass1234")
	require.NoError(t, err)
	code, _ := f.ledger.live("ada@example.com")

	// 11 minutes later the account-side expiry has passed.
	f.svc.now = func() time.Time { return start.Add(11 * time.Minute) }
	assert.ErrorIs(t, f.svc.VerifyRegistration(ctx, "ada@example.com", code), ErrOTPExpired)
}

func TestLogin_flow(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	registerAndVerify(t, f, "ada@example.com", "pass1234")

	token, err := f.svc.Login(ctx, "ada@example.com", "pass1234")
	require.NoError(t, err)

	claims, err := f.svc.jwt.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleClient, claims.Role)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestLogin_rejectsWrongPasswordAndUnknownEmailAlike(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	registerAndVerify(t, f, "ada@example.com", "pass1234")

	_, errWrong := f.svc.Login(ctx, "ada@example.com", "wrong")
	_, errUnknown := f.svc.Login(ctx, "nobody@example.com", "pass1234")
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
}

func TestLogin_unverified(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "pass1234")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "ada@example.com", "pass1234")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestLogin_blocked(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	registerAndVerify(t, f, "ada@example.com", "pass1234")

	client, err := f.clients.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	_, err = f.clients.ToggleBlocked(ctx, client.ID)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "ada@example.com", "pass1234")
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestAdminResetFlow(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	hash, err := HashPassword("old-pass")
	require.NoError(t, err)
	_, err = f.admins.Create(ctx, "admin@example.com", hash)
	require.NoError(t, err)

	require.NoError(t, f.svc.RequestAdminReset(ctx, "admin@example.com"))
	require.Len(t, f.mailer.resets, 1)

	admin, err := f.admins.GetByUsername(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin.ResetOTP)
	code := *admin.ResetOTP
	assert.Len(t, code, OTPWidthAdminReset)

	require.NoError(t, f.svc.ResetAdminPassword(ctx, "admin@example.com", code, "new-pass"))

	// Old password dead, new one works, code is single-use.
	_, err = f.svc.AdminLogin(ctx, "admin@example.com", "old-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.AdminLogin(ctx, "admin@example.com", "new-pass")
	assert.NoError(t, err)
	assert.ErrorIs(t, f.svc.ResetAdminPassword(ctx, "admin@example.com", code, "again"), ErrOTPMismatch)
}

func TestRequestAdminReset_unknownAdmin(t *testing.T) {
	f := newServiceFixture(t)
	err := f.svc.RequestAdminReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.mailer.resets)
}

func TestChangePassword(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	registerAndVerify(t, f, "ada@example.com", "pass1234")

	client, err := f.clients.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ChangePassword(ctx, client.ID, "wrong", "next-pass"), ErrInvalidCredentials)
	require.NoError(t, f.svc.ChangePassword(ctx, client.ID, "pass1234", "next-pass"))

	_, err = f.svc.Login(ctx, "ada@example.com", "next-pass")
	assert.NoError(t, err)
}
