package geocoding

import (
	"encoding/json"

	"github.com/couchcryptid/google-geocoding/internal/domain"
)

// apiResponse is the envelope of every Geocoding API response.
type apiResponse struct {
	Status       string             `json:"status"`
	Results      []domain.RawResult `json:"results"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

// decodeResponse parses body and rejects anything but OK and ZERO_RESULTS
// with a *domain.UpstreamError.
func decodeResponse(body []byte) (apiResponse, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return apiResponse{}, &domain.UpstreamError{Err: err}
	}
	if resp.Status != StatusOK && resp.Status != StatusZeroResults {
		return apiResponse{}, &domain.UpstreamError{Status: resp.Status, Message: resp.ErrorMessage}
	}
	return resp, nil
}
