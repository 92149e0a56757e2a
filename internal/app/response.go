package app

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSON envelope kinds.
const (
	JSONSuccess = "success"
	JSONError   = "error"
	JSONRaw     = ""
)

// Flash message keys shared between the pipeline and route handlers.
const (
	FlashSuccess = "successMessage"
	FlashError   = "errorMessage"
)

// ErrNoRenderer is returned when Render is called without a configured
// template renderer.
var ErrNoRenderer = errors.New("app: no template renderer configured")

const notFoundMessage = "The page you are looking for could not be found."

// jsonIndent matches the original API's 4-space pretty printing.
const jsonIndent = "    "

func (c *requestContext) Render(name string) error {
	if c.Written() {
		return nil
	}
	if c.app.views == nil {
		return ErrNoRenderer
	}

	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	if c.status != 0 {
		c.response.WriteHeader(c.status)
	}

	return c.app.views.Render(c.response, name, c.viewCtx)
}

func (c *requestContext) Reload() error {
	return c.Redirect(c.request.URL.RequestURI())
}

func (c *requestContext) Redirect(url string) error {
	if c.Written() {
		return nil
	}
	http.Redirect(c.response, c.request, url, http.StatusFound)
	return nil
}

func (c *requestContext) ThrowError(message string) error {
	if c.Written() {
		return nil
	}
	c.SetPage("error", "Error")
	c.viewCtx["error"] = message
	return c.Render("error")
}

func (c *requestContext) Throw404() error {
	if c.Written() {
		return nil
	}
	c.status = http.StatusNotFound
	return c.ThrowError(notFoundMessage)
}

// JSON writes one of three envelope shapes depending on kind:
// success yields {"success": true} with an optional "data" member,
// error yields {"success": false} with an optional "error" member,
// anything else yields {} with an optional "data" member.
// Pass nil data to omit the optional member.
func (c *requestContext) JSON(kind string, data any) error {
	if c.Written() {
		return nil
	}

	envelope := map[string]any{}
	switch kind {
	case JSONSuccess:
		envelope["success"] = true
		if data != nil {
			envelope["data"] = data
		}
	case JSONError:
		envelope["success"] = false
		if data != nil {
			envelope["error"] = data
		}
	default:
		if data != nil {
			envelope["data"] = data
		}
	}

	body, err := json.MarshalIndent(envelope, "", jsonIndent)
	if err != nil {
		return err
	}

	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	if c.status != 0 {
		c.response.WriteHeader(c.status)
	}
	_, err = c.response.Write(body)
	return err
}
