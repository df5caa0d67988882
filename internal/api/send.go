package api

import (
	"context"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/formchat/internal/errors"
	"github.com/diogo/formchat/internal/models"
)

// maxReplySize caps how much of a response body is read
const maxReplySize = 1 << 20

// Send posts one turn and decodes the reply.
// The input is sent as-is, empty included. A non-2xx answer is an error unless
// its body is a backend-reported failure, which is returned as a Failure reply.
func (c *Client) Send(ctx context.Context, input string) (models.Reply, error) {
	if c.IsClosed() {
		return models.Reply{}, apierrors.ErrClientClosed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(EncodeForm(input)))
	if err != nil {
		return models.Reply{}, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return models.Reply{}, apierrors.NewNetworkErrorWithEndpoint("send message", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return models.Reply{}, apierrors.NewNetworkErrorWithEndpoint("read reply", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if reply, decErr := DecodeReply(body); decErr == nil && reply.Kind == models.ReplyFailure {
			return reply, nil
		}
		return models.Reply{}, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, "send message failed", string(body))
	}

	return DecodeReply(body)
}
