// internal/domain/auth/service_test.go
package auth

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/go-playground/validator/v10"

	"homefinder/internal/domain/session"
	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

type fakeAPI struct {
	token      string
	loginErr   error
	registerEr error
	profileErr error

	logins     []SignInRequest
	registered []RegisterRequest
	profiles   []ProfileUpdate
}

func (f *fakeAPI) Login(_ context.Context, req SignInRequest) (*TokenResponse, error) {
	f.logins = append(f.logins, req)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &TokenResponse{AccessToken: f.token, TokenType: "bearer"}, nil
}

func (f *fakeAPI) Register(_ context.Context, req RegisterRequest) (*session.User, error) {
	f.registered = append(f.registered, req)
	if f.registerEr != nil {
		return nil, f.registerEr
	}
	return &session.User{ID: 1, Email: req.Email, FullName: req.FullName}, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, token string, req ProfileUpdate) (*session.User, error) {
	f.profiles = append(f.profiles, req)
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &session.User{ID: 1, Email: req.Email, FullName: req.FullName}, nil
}

func newTestService(t *testing.T, api *fakeAPI, token string) (*AuthService, *session.State) {
	t.Helper()
	st, err := session.NewState(context.Background(), session.NewMemoryStore(token))
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return NewAuthService(api, st, NewValidator(validator.New()), utils.Discard()), st
}

func TestSignInStoresToken(t *testing.T) {
	api := &fakeAPI{token: "jwt-1"}
	svc, st := newTestService(t, api, "")

	res, err := svc.SignIn(context.Background(), &SignInRequest{Email: " ada@example.com ", Password: "pw"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if res.Redirect != "/" {
		t.Fatalf("redirect = %q", res.Redirect)
	}
	if st.Token() != "jwt-1" || st.Status() != session.StatusTokenOnly {
		t.Fatalf("session = %+v", st.Snapshot())
	}
	if api.logins[0].Email != "ada@example.com" {
		t.Fatalf("email not trimmed: %q", api.logins[0].Email)
	}
}

func TestSignInFailureKeepsDetail(t *testing.T) {
	api := &fakeAPI{loginErr: errors.NewHTTPError(400, "Incorrect email or password")}
	svc, st := newTestService(t, api, "")

	_, err := svc.SignIn(context.Background(), &SignInRequest{Email: "ada@example.com", Password: "bad"})
	if got := errors.UserMessage(err, MsgSignInFailed); got != "Incorrect email or password" {
		t.Fatalf("message = %q", got)
	}
	if st.Token() != "" {
		t.Fatal("token stored after failed sign in")
	}
}

func TestSignInValidation(t *testing.T) {
	api := &fakeAPI{token: "x"}
	svc, _ := newTestService(t, api, "")

	_, err := svc.SignIn(context.Background(), &SignInRequest{Email: "not-an-email", Password: "pw"})
	var ve *errors.ValidationError
	if !stderrors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("expected email ValidationError, got %v", err)
	}
	if len(api.logins) != 0 {
		t.Fatal("invalid form reached the API")
	}
}

func TestSignInEmptyToken(t *testing.T) {
	svc, st := newTestService(t, &fakeAPI{}, "")

	if _, err := svc.SignIn(context.Background(), &SignInRequest{Email: "a@b.co", Password: "pw"}); err == nil {
		t.Fatal("expected error for empty access token")
	}
	if st.Status() != session.StatusAnonymous {
		t.Fatalf("status = %s", st.Status())
	}
}

func TestRegisterSignsIn(t *testing.T) {
	api := &fakeAPI{token: "jwt-2"}
	svc, st := newTestService(t, api, "")

	res, err := svc.Register(context.Background(), &RegisterRequest{Email: "b@example.com", Password: "pw", FullName: "Bea"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Redirect != "/" || st.Token() != "jwt-2" {
		t.Fatalf("res = %+v token = %q", res, st.Token())
	}
	if len(api.registered) != 1 || len(api.logins) != 1 || api.logins[0].Password != "pw" {
		t.Fatalf("registered = %v logins = %v", api.registered, api.logins)
	}
}

func TestRegisterThenSignInFails(t *testing.T) {
	api := &fakeAPI{loginErr: errors.NewHTTPError(500, "")}
	svc, st := newTestService(t, api, "")

	res, err := svc.Register(context.Background(), &RegisterRequest{Email: "b@example.com", Password: "pw", FullName: "Bea"})
	if !stderrors.Is(err, ErrRegisteredSignInFailed) {
		t.Fatalf("expected ErrRegisteredSignInFailed, got %v", err)
	}
	if res == nil || res.Redirect != "/signin" || res.Message != MsgRegisteredSignIn {
		t.Fatalf("res = %+v", res)
	}
	if st.Token() != "" {
		t.Fatal("token stored")
	}
}

func TestRegisterConflict(t *testing.T) {
	api := &fakeAPI{registerEr: errors.NewHTTPError(400, "The user with this email already exists in the system")}
	svc, _ := newTestService(t, api, "")

	_, err := svc.Register(context.Background(), &RegisterRequest{Email: "b@example.com", Password: "pw", FullName: "Bea"})
	if got := errors.UserMessage(err, MsgRegisterFailed); got != "The user with this email already exists in the system" {
		t.Fatalf("message = %q", got)
	}
	if len(api.logins) != 0 {
		t.Fatal("signed in after failed registration")
	}
}

func TestUpdateProfile(t *testing.T) {
	api := &fakeAPI{}
	svc, st := newTestService(t, api, "tok")

	res, err := svc.UpdateProfile(context.Background(), &ProfileUpdate{FullName: "Ada L", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if res.Message != MsgProfileUpdated {
		t.Fatalf("message = %q", res.Message)
	}
	if u := st.User(); u == nil || u.FullName != "Ada L" || st.Status() != session.StatusAuthenticated {
		t.Fatalf("session = %+v", st.Snapshot())
	}
}

func TestUpdateProfileRequiresToken(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newTestService(t, api, "")

	_, err := svc.UpdateProfile(context.Background(), &ProfileUpdate{Email: "ada@example.com"})
	var ae *errors.AuthenticationError
	if !stderrors.As(err, &ae) || ae.Redirect != "/signin" {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
	if len(api.profiles) != 0 {
		t.Fatal("request sent without a token")
	}
}

func TestUpdateProfileFailure(t *testing.T) {
	api := &fakeAPI{profileErr: errors.NewHTTPError(500, "")}
	svc, st := newTestService(t, api, "tok")

	_, err := svc.UpdateProfile(context.Background(), &ProfileUpdate{Email: "ada@example.com"})
	if got := errors.UserMessage(err, MsgProfileUpdateFailed); got != MsgProfileUpdateFailed {
		t.Fatalf("message = %q", got)
	}
	if st.User() != nil {
		t.Fatal("user cached after failed update")
	}
}

func TestUpdateProfileUnauthorizedSignsOut(t *testing.T) {
	api := &fakeAPI{profileErr: errors.NewHTTPError(401, "Could not validate credentials")}
	svc, st := newTestService(t, api, "stale")

	_, err := svc.UpdateProfile(context.Background(), &ProfileUpdate{Email: "ada@example.com"})
	var ae *errors.AuthenticationError
	if !stderrors.As(err, &ae) || ae.Message != session.MsgExpired || ae.Redirect != "/signin" {
		t.Fatalf("expected sign-in error, got %v", err)
	}
	if st.Token() != "" || st.User() != nil || st.Status() != session.StatusInvalid {
		t.Fatalf("session kept: %+v", st.Snapshot())
	}
}

func TestLogout(t *testing.T) {
	svc, st := newTestService(t, &fakeAPI{}, "tok")

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if st.Token() != "" || st.Status() != session.StatusAnonymous {
		t.Fatalf("session = %+v", st.Snapshot())
	}
}
