package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"idcard/internal/adapters/email"
	"idcard/internal/domain/account"
)

// mockAccountStore implements AccountStoreForCreate and AccountStoreForLogin.
type mockAccountStore struct {
	accounts map[string]account.Account // keyed by email
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByEmail(_ context.Context, addr string) (account.Account, error) {
	a, ok := m.accounts[addr]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.Email] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

// mockEmailSender records sends.
type mockEmailSender struct {
	sent []email.SendRequest
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "m1"}, nil
}

// TestExecuteCreateAccount_WithInvite tests invite mail goes out on request.
func TestExecuteCreateAccount_WithInvite(t *testing.T) {
	store := newMockAccountStore()
	sender := &mockEmailSender{}

	id, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:                  "new@diocese.org",
		Password:               "temporarypass123",
		Role:                   account.RoleUser,
		PasswordChangeRequired: true,
		SendInvite:             true,
	}, CreateAccountDeps{
		AccountStore:  store,
		EmailSender:   sender,
		InviteFrom:    "ID Card Admin <noreply@diocese.org>",
		InviteReplyTo: "office@diocese.org",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected account id")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	invite := sender.sent[0]
	if invite.To[0] != "new@diocese.org" {
		t.Errorf("invite to %v", invite.To)
	}
	if invite.From != "ID Card Admin <noreply@diocese.org>" || invite.ReplyTo != "office@diocese.org" {
		t.Errorf("invite headers: from=%q reply_to=%q", invite.From, invite.ReplyTo)
	}
	if !strings.Contains(invite.HTML, "temporarypass123") {
		t.Error("invite should carry the temporary password")
	}
}

// TestExecuteCreateAccount_InviteFailureDoesNotRollBack tests the account
// survives a failed invite send.
func TestExecuteCreateAccount_InviteFailureDoesNotRollBack(t *testing.T) {
	store := newMockAccountStore()
	sender := &mockEmailSender{err: errors.New("provider down")}

	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:      "new@diocese.org",
		Password:   "temporarypass123",
		Role:       account.RoleUser,
		SendInvite: true,
	}, CreateAccountDeps{AccountStore: store, EmailSender: sender})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.accounts["new@diocese.org"]; !ok {
		t.Error("account should exist despite invite failure")
	}
}

// TestExecuteCreateAccount_DuplicateEmail tests the uniqueness check.
func TestExecuteCreateAccount_DuplicateEmail(t *testing.T) {
	store := newMockAccountStore()
	input := CreateAccountInput{Email: "a@diocese.org", Password: "temporarypass123", Role: account.RoleAdmin}
	deps := CreateAccountDeps{AccountStore: store}

	if _, err := ExecuteCreateAccount(context.Background(), input, deps); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := ExecuteCreateAccount(context.Background(), input, deps)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("error = %v, want ErrEmailAlreadyExists", err)
	}
}

// TestExecuteSeedAdmin tests seeding only happens on an empty store.
func TestExecuteSeedAdmin(t *testing.T) {
	store := newMockAccountStore()
	deps := CreateAccountDeps{AccountStore: store}

	if err := ExecuteSeedAdmin(context.Background(), deps, "admin@diocese.org", "adminpassword123"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	seeded, ok := store.accounts["admin@diocese.org"]
	if !ok {
		t.Fatal("admin not seeded")
	}
	if !seeded.PasswordChangeRequired {
		t.Error("seeded admin should be forced to change password")
	}

	// A second seed on a non-empty store is a no-op.
	if err := ExecuteSeedAdmin(context.Background(), deps, "other@diocese.org", "adminpassword123"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if _, ok := store.accounts["other@diocese.org"]; ok {
		t.Error("second seed should not create another admin")
	}
}

// TestExecuteLogin_Lockout tests the failed-login lockout path end to end.
func TestExecuteLogin_Lockout(t *testing.T) {
	store := newMockAccountStore()
	a := account.Account{ID: "a1", Email: "u@diocese.org", Role: account.RoleUser}
	if err := a.SetPassword("correcthorsebattery"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	store.accounts[a.Email] = a
	deps := LoginDeps{AccountStore: store}

	for i := 0; i < 5; i++ {
		_, err := ExecuteLogin(context.Background(), LoginInput{Email: a.Email, Password: "wrong-password"}, deps)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d error = %v, want ErrInvalidCredentials", i+1, err)
		}
	}

	// Even with the right password, the account is now locked.
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: a.Email, Password: "correcthorsebattery"}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Errorf("error = %v, want ErrAccountLocked", err)
	}
}
