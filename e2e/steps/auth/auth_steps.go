// Package auth holds the login and session step definitions.
package auth

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is what the auth steps need from the main test context.
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetResponseField(field string) (interface{}, error)
	SetAccessToken(token string)
	DemoEmail() string
	DemoPassword() string
}

// RegisterSteps registers authentication-related step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^I log in with email "([^"]*)" and password "([^"]*)"$`, steps.logIn)
	ctx.Step(`^I log in as the demo member$`, steps.logInAsDemoMember)
	ctx.Step(`^I am logged in as the demo member$`, steps.mustBeLoggedIn)
	ctx.Step(`^I log out$`, steps.logOut)
	ctx.Step(`^I request my profile$`, steps.requestProfile)
}

type authSteps struct {
	tc TestContext
}

// logIn posts credentials and captures the token on success, so later steps
// in the scenario run authenticated.
func (s *authSteps) logIn(ctx context.Context, email, password string) error {
	err := s.tc.POST("/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return nil
	}
	token, err := s.tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	tokenStr, ok := token.(string)
	if !ok || tokenStr == "" {
		return fmt.Errorf("login succeeded without an access token: %s", s.tc.GetLastResponseBody())
	}
	s.tc.SetAccessToken(tokenStr)
	return nil
}

func (s *authSteps) logInAsDemoMember(ctx context.Context) error {
	return s.logIn(ctx, s.tc.DemoEmail(), s.tc.DemoPassword())
}

// mustBeLoggedIn is the Given form: it fails the scenario when the login
// itself does not succeed.
func (s *authSteps) mustBeLoggedIn(ctx context.Context) error {
	if err := s.logInAsDemoMember(ctx); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("demo login returned %d: %s", status, s.tc.GetLastResponseBody())
	}
	return nil
}

// logOut revokes the session but keeps the captured token, so scenarios can
// verify the server now rejects it.
func (s *authSteps) logOut(ctx context.Context) error {
	return s.tc.POST("/auth/logout", nil)
}

func (s *authSteps) requestProfile(ctx context.Context) error {
	return s.tc.GET("/me", nil)
}
