// Package httpvalidation turns Concierge and minid service responses into a
// closed set of outcomes.
package httpvalidation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/lib/httpw"
	"github.com/tidwall/gjson"
)

// Outcome is one of Success, AuthRequired, Domain, Transport or Malformed.
type Outcome interface {
	outcome()
}

// Success holds the decoded body of a 200, 201 or 202 response.
type Success struct {
	Status int
	Body   any
	Raw    []byte
}

// AuthRequired is any 401 response, whatever its body.
type AuthRequired struct {
	Status int
}

// Domain is an error reported by the service.
type Domain struct {
	Status  int
	Code    string
	Message string
	Errors  map[string][]string
}

// Transport means the request never produced a response.
type Transport struct {
	Err error
}

// Malformed is a response whose body could not be decoded.
type Malformed struct {
	Status int
}

func (Success) outcome()      {}
func (AuthRequired) outcome() {}
func (Domain) outcome()       {}
func (Transport) outcome()    {}
func (Malformed) outcome()    {}

// Interpret maps an HTTP status and body to an Outcome.
func Interpret(status int, body []byte) Outcome {
	if status == http.StatusUnauthorized {
		return AuthRequired{Status: status}
	}

	if !gjson.ValidBytes(body) {
		return Malformed{Status: status}
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated || status == http.StatusAccepted:
		var decoded any
		if err := json.Unmarshal(body, &decoded); err != nil {
			return Malformed{Status: status}
		}
		return Success{Status: status, Body: decoded, Raw: body}
	case status == http.StatusBadRequest || (status >= 500 && status <= 599):
		return joinedDomain(status, body)
	default:
		return directDomain(status, body)
	}
}

// Result interprets the result of an httpw request.
func Result(res *httpw.Response, err error) Outcome {
	if err != nil {
		return Transport{Err: err}
	}
	return Interpret(res.StatusCode, res.Body)
}

// Err converts an Outcome to the error returned to callers, nil on success.
func Err(o Outcome) error {
	switch o := o.(type) {
	case Success:
		return nil
	case AuthRequired:
		return apierrors.LoginRequired(fmt.Sprintf("server responded %d", o.Status), nil)
	case Domain:
		return &apierrors.ConciergeError{
			Status:  o.Status,
			Code:    o.Code,
			Message: o.Message,
			Errors:  o.Errors,
		}
	case Transport:
		return o.Err
	case Malformed:
		return apierrors.MalformedResponse(o.Status)
	default:
		return fmt.Errorf("unhandled response outcome %T", o)
	}
}

// Decode unmarshals a successful outcome into out, or returns the outcome's
// error.
func Decode(o Outcome, out any) error {
	s, ok := o.(Success)
	if !ok {
		return Err(o)
	}
	if err := json.Unmarshal(s.Raw, out); err != nil {
		return apierrors.MalformedResponse(s.Status)
	}
	return nil
}

// 400 and 5xx: every field except code becomes part of the message, in the
// order the server sent them.
func joinedDomain(status int, body []byte) Outcome {
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return Malformed{Status: status}
	}

	d := Domain{Status: status, Errors: map[string][]string{}}
	var parts []string
	res.ForEach(func(key, value gjson.Result) bool {
		field := key.String()
		if field == "code" {
			d.Code = value.String()
			return true
		}
		msgs := values(value)
		d.Errors[field] = append(d.Errors[field], msgs...)
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
		return true
	})

	if d.Code == "" {
		d.Code = apierrors.StatusCode(status)
	}
	d.Message = strings.Join(parts, ", ")
	return d
}

// Any other status: take code and message from the body as is.
func directDomain(status int, body []byte) Outcome {
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return Malformed{Status: status}
	}

	d := Domain{Status: status, Errors: map[string][]string{}}
	res.ForEach(func(key, value gjson.Result) bool {
		switch field := key.String(); field {
		case "code":
			d.Code = value.String()
		case "message", "detail", "error":
			if d.Message == "" {
				d.Message = value.String()
			}
		default:
			d.Errors[field] = append(d.Errors[field], values(value)...)
		}
		return true
	})

	if d.Code == "" {
		d.Code = apierrors.StatusCode(status)
	}
	return d
}

func values(v gjson.Result) []string {
	if !v.IsArray() {
		return []string{v.String()}
	}
	arr := v.Array()
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		out = append(out, item.String())
	}
	return out
}
