package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"unidraw/internal/errs"
	"unidraw/internal/ports"
)

// HTTPClient talks to the student registry over its batch lookup endpoint.
//
// There is no separate liveness probe: the lookup call itself is the
// capability check, and any transport-level failure is reported as
// ports.ErrRegistryUnavailable so enrollment can continue without
// enrichment.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type lookupRequest struct {
	StudentIDs []string `json:"student_ids"`
}

type lookupResponse struct {
	Students []studentRecord `json:"students"`
}

type studentRecord struct {
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Grade      string `json:"grade"`
	Email      string `json:"email"`
	NationalID string `json:"national_id"`
}

func (c *HTTPClient) LookupBatch(ctx context.Context, studentIDs []string) (map[string]ports.RegistryRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if len(studentIDs) == 0 {
		return map[string]ports.RegistryRecord{}, nil
	}

	body, err := json.Marshal(lookupRequest{StudentIDs: studentIDs})
	if err != nil {
		return nil, errs.Wrap(err, "encode lookup request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/students/batch", bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(err, "build lookup request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrRegistryUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: registry returned status %d", ports.ErrRegistryUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry lookup failed with status %d", resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errs.Wrap(err, "decode lookup response")
	}

	records := make(map[string]ports.RegistryRecord, len(decoded.Students))
	for _, student := range decoded.Students {
		id := strings.TrimSpace(student.StudentID)
		if id == "" {
			continue
		}
		records[id] = ports.RegistryRecord{
			StudentID:  id,
			Name:       student.Name,
			Department: student.Department,
			Grade:      student.Grade,
			Email:      student.Email,
			NationalID: student.NationalID,
		}
	}
	return records, nil
}

// Disabled returns a StudentRegistry that always reports unavailable. It
// backs deployments without a configured registry; enrollment then behaves
// exactly as it does during an outage.
func Disabled() ports.StudentRegistry {
	return disabledRegistry{}
}

type disabledRegistry struct{}

func (disabledRegistry) LookupBatch(context.Context, []string) (map[string]ports.RegistryRecord, error) {
	return nil, ports.ErrRegistryUnavailable
}
