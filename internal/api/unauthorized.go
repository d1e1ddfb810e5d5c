package api

import "time"

// View identifies where the user currently is, the terminal equivalent of the
// dashboard's window.location checks.
type View string

const (
	ViewLogin              View = "login"
	ViewPublicNotification View = "notificacao"
	ViewDashboard          View = "dashboard"
)

// UnauthorizedPolicy decides what happens when the API answers 401.
//
// Session state is never touched while the user is on the login view, while
// the failed request was itself a login attempt, or while on the public
// notification view. Otherwise the stored session is cleared and, after Delay,
// the user is sent back to login. The view is re-checked right before the
// redirect so a navigation that happened in the meantime is not overridden.
type UnauthorizedPolicy struct {
	CurrentView     func() View
	ClearSession    func()
	RedirectToLogin func()
	Delay           time.Duration
}

func (p *UnauthorizedPolicy) handle(loginRequest bool) {
	if p == nil || loginRequest {
		return
	}
	view := View("")
	if p.CurrentView != nil {
		view = p.CurrentView()
	}
	if view == ViewLogin || view == ViewPublicNotification {
		return
	}

	if p.ClearSession != nil {
		p.ClearSession()
	}

	delay := p.Delay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	time.AfterFunc(delay, func() {
		if p.CurrentView != nil && p.CurrentView() == ViewLogin {
			return
		}
		if p.RedirectToLogin != nil {
			p.RedirectToLogin()
		}
	})
}
