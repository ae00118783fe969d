package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestAdminGate_AdminReachesDashboard logs in at the admin door and lands
// on the dashboard.
func TestAdminGate_AdminReachesDashboard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page, "/admin-login", "admin@test.com", "/admin")

	if err := page.Locator("text=Back office").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Error("admin dashboard not shown after login")
	}
}

// TestAdminGate_UserCredentialsRejectedAtAdminDoor signs in with a
// non-admin account at /admin-login and stays on the login page with an
// error, with no session opened.
func TestAdminGate_UserCredentialsRejectedAtAdminDoor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/admin-login"); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill("user@test.com"); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill("TestPass123!"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click sign in: %v", err)
	}

	if err := page.Locator(".error").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatal("admin gate did not show an error for non-admin credentials")
	}
	if !strings.HasSuffix(page.URL(), "/admin-login") {
		t.Errorf("expected to stay on /admin-login, got %s", page.URL())
	}

	// The rejected login must not have opened a session either.
	if _, err := page.Goto(app.BaseURL + "/account"); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/user-login", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Error("rejected admin login left a live session behind")
	}
}
