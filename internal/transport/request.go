package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/lucro/pkg/errors"
	"github.com/agentstation/lucro/pkg/logging"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into the target structure.
func DecodeResponse(resp *http.Response, source string, target any) error {
	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Str("url", url).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapFetch(source, url, IsTimeout(err), errors.WrapIO("read", "response body", err))
	}

	if resp.StatusCode != http.StatusOK {
		return errors.NewFetchError(source, url, resp.StatusCode, errorMessage(resp, body))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapFetch(source, url, false, errors.WrapParse("json", "response", err))
	}

	return nil
}

func errorMessage(resp *http.Response, body []byte) string {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return msg
}
