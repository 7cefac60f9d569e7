package tools

import (
	"encoding/json"
	"errors"
	"net/http"

	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
)

// Envelope is the JSON object every tool returns: success, the domain fields of the result, and optionally
// formatted_response, message, error and details.
type Envelope map[string]any

func (e Envelope) Success() bool {
	ok, _ := e["success"].(bool)
	return ok
}

func (e Envelope) JSON() string {
	raw, err := json.Marshal(e)
	if err != nil {
		return `{"success":false,"error":"could not encode response"}`
	}
	return string(raw)
}

// successEnvelope flattens the JSON form of result into the envelope.
func successEnvelope(result any, formatted, message string) Envelope {
	env := Envelope{}
	if raw, err := json.Marshal(result); err == nil {
		_ = json.Unmarshal(raw, &env)
	}
	env["success"] = true
	if formatted != "" {
		env["formatted_response"] = formatted
	}
	if message != "" {
		env["message"] = message
	}
	return env
}

// ErrorEnvelope is the failure form of any error. Configuration errors carry their remediation in message;
// upstream errors carry the status code and what the upstream service said in details.
func ErrorEnvelope(err error) Envelope {
	env := Envelope{"success": false}

	var apiErr *domainErrors.UpstreamAPIError
	var appErr *domainErrors.AppError

	switch {
	case errors.As(err, &apiErr):
		env["error"] = apiErr.Message
		env["details"] = map[string]any{
			"service":   apiErr.Service,
			"operation": apiErr.Operation,
			"status":    apiErr.StatusCode,
			"message":   apiErr.Details,
		}
	case errors.As(err, &appErr):
		env["error"] = appErr.Message
		if appErr.Suggestion != "" {
			env["message"] = appErr.Suggestion
		}
		details := map[string]any{"type": string(appErr.Type)}
		for k, v := range appErr.Context {
			details[k] = v
		}
		if appErr.Err != nil {
			details["cause"] = appErr.Err.Error()
		}
		env["details"] = details
	default:
		env["error"] = err.Error()
	}
	return env
}

// StatusCode maps an error to the HTTP status the REST surface answers with.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var apiErr *domainErrors.UpstreamAPIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}

	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case domainErrors.TypeValidation:
			return http.StatusBadRequest
		case domainErrors.TypeConfiguration:
			return http.StatusServiceUnavailable
		case domainErrors.TypeVCS, domainErrors.TypeTicket, domainErrors.TypeAI:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}
