// Package planclient submits an intake to the remote plan-generation service
// and decodes the returned schedule. One request per submission, no retries;
// the caller decides whether the user resubmits.
package planclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/wholes0meglock/rehab-ai/internal/debug"
	"github.com/wholes0meglock/rehab-ai/internal/intake"
	"github.com/wholes0meglock/rehab-ai/internal/plan"
)

const generatePath = "/api/rehab/generate-plan"

var (
	// ErrNoFile means the intake has no attachment. Checked before any
	// network I/O.
	ErrNoFile = errors.New("no file selected")

	// ErrTransport means the request could not complete: unreachable
	// endpoint, malformed response, timeout.
	ErrTransport = errors.New("plan service unreachable")
)

// ServiceError is a failure reported by the service itself: the request
// completed but no plan was produced. The message is surfaced verbatim.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("plan service rejected request: %s", e.Message)
}

// Client talks to the plan-generation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL. A non-positive timeout
// disables the client-side deadline.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Submit sends the intake to the service and returns the decoded plan
// unchanged. The plan's internal structure is trusted, not validated.
func (c *Client) Submit(ctx context.Context, st *intake.State) (*plan.Plan, error) {
	if st.File == nil {
		return nil, ErrNoFile
	}

	body, contentType, err := encodeRequest(st)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	debug.Logf("planclient: POST %s file=%s (%d bytes)", c.baseURL+generatePath, st.File.Name, len(st.File.Bytes))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	return decodeResponse(raw)
}

// encodeRequest serializes the intake into the multipart payload: the raw
// file bytes under "file", the patient structure as a JSON text blob under
// "patient_info", and the free-text notes under "additional_notes".
func encodeRequest(st *intake.State) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", st.File.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(st.File.Bytes); err != nil {
		return nil, "", err
	}

	info, err := encodePatientInfo(st.Patient)
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("patient_info", info); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("additional_notes", st.Notes); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// encodePatientInfo builds the patient_info JSON blob in the wire order the
// service documents: age, gender, surgeryDate, conditions.
func encodePatientInfo(p intake.PatientInfo) (string, error) {
	info := "{}"
	var err error
	for _, kv := range []struct{ key, value string }{
		{"age", p.Age},
		{"gender", p.Gender},
		{"surgeryDate", p.SurgeryDate},
		{"conditions", p.Conditions},
	} {
		if info, err = sjson.Set(info, kv.key, kv.value); err != nil {
			return "", err
		}
	}
	return info, nil
}

// decodeResponse maps the service envelope onto the error taxonomy. The
// envelope is sniffed before strict decoding so that a well-formed rejection
// is distinguished from a malformed body.
func decodeResponse(raw []byte) (*plan.Plan, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrTransport)
	}

	if debug.Enabled() {
		debug.Logf("planclient: response:\n%s", pretty.Pretty(raw))
	}

	success := gjson.GetBytes(raw, "success")
	if !success.Exists() {
		return nil, fmt.Errorf("%w: response has no success field", ErrTransport)
	}
	if !success.Bool() {
		return nil, &ServiceError{Message: gjson.GetBytes(raw, "error").String()}
	}

	planRaw := gjson.GetBytes(raw, "plan")
	if !planRaw.Exists() {
		return nil, fmt.Errorf("%w: successful response has no plan", ErrTransport)
	}

	var p plan.Plan
	if err := json.Unmarshal([]byte(planRaw.Raw), &p); err != nil {
		return nil, fmt.Errorf("%w: decode plan: %v", ErrTransport, err)
	}
	return &p, nil
}
