package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestOrientationGate covers the first-login video gate for a role
// with a configured orientation video. The participant sees the video
// page on every visit to role content until the video has played to
// the end and been acknowledged, and never again after.
func TestOrientationGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)

	app.login(t, page, participantEmail, participantPassword)

	// The dashboard URL renders the orientation page while the gate is locked.
	video := page.Locator(".video-frame video")
	if err := video.WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("expected orientation video on first dashboard visit: %v", err)
	}

	// The acknowledge button stays disabled until the video has ended.
	disabled, err := page.Locator("#orientation-done").IsDisabled()
	if err != nil {
		t.Fatalf("failed to inspect acknowledge button: %v", err)
	}
	if !disabled {
		t.Fatal("acknowledge button should be disabled before playback completes")
	}

	// Role content bounces back to the video while locked.
	if _, err := page.Goto(app.BaseURL + "/forms/feedback"); err != nil {
		t.Fatalf("failed to navigate to feedback form: %v", err)
	}
	if !strings.HasSuffix(page.URL(), "/dashboard") {
		t.Errorf("locked role content should redirect to /dashboard, got %q", page.URL())
	}

	// Reloading keeps the gate closed.
	if _, err := page.Reload(); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	count, err := page.Locator(".video-frame video").Count()
	if err != nil || count != 1 {
		t.Fatalf("gate should stay closed before acknowledgement (count=%d, err=%v)", count, err)
	}

	// Finishing playback unlocks the button.
	if _, err := page.Evaluate(`document.getElementById("orientation-video").dispatchEvent(new Event("ended"))`); err != nil {
		t.Fatalf("failed to finish orientation video: %v", err)
	}
	disabled, err = page.Locator("#orientation-done").IsDisabled()
	if err != nil {
		t.Fatalf("failed to inspect acknowledge button: %v", err)
	}
	if disabled {
		t.Fatal("acknowledge button should enable once the video ends")
	}

	if err := page.Locator("#orientation-done").Click(); err != nil {
		t.Fatalf("failed to click acknowledge button: %v", err)
	}
	if err := page.WaitForURL("**/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("acknowledge should redirect to the dashboard: %v", err)
	}

	// The gate is open now: no video on the dashboard.
	if _, err := page.Reload(); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	count, err = page.Locator(".video-frame video").Count()
	if err != nil {
		t.Fatalf("failed to count orientation videos: %v", err)
	}
	if count != 0 {
		t.Errorf("orientation video should not appear after acknowledgement")
	}
}
