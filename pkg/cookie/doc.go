// Package cookie implements the client-side transports the request pipeline
// relies on: plain, signed, and encrypted cookies, plus one-shot flash
// messages layered on encrypted cookies.
//
// The session transport stores its entire payload in an encrypted cookie, so
// the server holds no session state. Flash messages are written by one
// request and consumed (then deleted) by the next.
//
// # Quick Start
//
//	m := cookie.New(
//	    cookie.WithSecret(os.Getenv("SESSION_SECRET")),
//	    cookie.WithSecure(true),
//	)
//
//	_ = m.SetFlash(w, "successMessage", "Settings saved.")
//	msg, err := m.Flash(w, r, "successMessage") // next request
package cookie
