package fridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"fridgectl/internal/logging"
)

const uploadPath = "/api/inventory/upload-image-pair"

// SubmitImages uploads a take-in/take-out image pair and normalizes the
// backend's response. At least one image must be present; the call fails
// with ErrNoInput before any network access otherwise. A non-success
// response is run through the recovery policy, so a returned error always
// means the backend genuinely rejected the submission.
func (c *Client) SubmitImages(ctx context.Context, takeIn, takeOut []byte, storeNewImages bool) (*ReconciliationResult, error) {
	if len(takeIn) == 0 && len(takeOut) == 0 {
		return nil, ErrNoInput
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writeImagePart(writer, "take_in_image", "take_in.jpg", takeIn); err != nil {
		return nil, err
	}
	if err := writeImagePart(writer, "take_out_image", "take_out.jpg", takeOut); err != nil {
		return nil, err
	}
	if err := writer.WriteField("store_new_images", strconv.FormatBool(storeNewImages)); err != nil {
		return nil, fmt.Errorf("write store_new_images field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, uploadPath, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, err := c.sendRaw(req)
	if err != nil {
		return c.recoverUploadFailure(err)
	}
	return normalizeResult(decodeTolerant(raw, c)), nil
}

func writeImagePart(writer *multipart.Writer, field, filename string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write %s part: %w", field, err)
	}
	return nil
}

type uploadResponse struct {
	Added             []AddedItem      `json:"added"`
	Removed           []RemovedItem    `json:"removed"`
	Updated           []ProposedUpdate `json:"updated"`
	SimilarItemsFound []SimilarMatch   `json:"similar_items_found"`
	Errors            []ItemError      `json:"errors"`
}

// recoverUploadFailure turns a transport failure into either a soft-success
// result or ErrSubmissionRejected. Errors that never reached the backend
// (request build, network) pass through unchanged.
func (c *Client) recoverUploadFailure(err error) (*ReconciliationResult, error) {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return nil, err
	}
	switch classifyUploadFailure(statusErr.Message) {
	case outcomeAppliedDespiteError:
		c.logger.Warn("upload reported failure but the change was applied",
			logging.Int("status", statusErr.StatusCode),
			logging.String("message", statusErr.Message))
		return &ReconciliationResult{
			Notes: []string{"🔄 Updated: the change was applied even though the backend reported an error (" + statusErr.Message + ")"},
		}, nil
	case outcomeNewImageLearned:
		c.logger.Warn("upload matched no item, image stored for recognition",
			logging.Int("status", statusErr.StatusCode),
			logging.String("message", statusErr.Message))
		return &ReconciliationResult{
			Notes: []string{"🔍 Recognized nothing close enough: the image was stored so it can be matched next time"},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrSubmissionRejected, statusErr.Message)
	}
}

// normalizeResult enforces the one-fate-per-name rule. Pending entries win
// over added, added over removed.
func normalizeResult(payload uploadResponse) *ReconciliationResult {
	result := &ReconciliationResult{
		Pending: payload.Updated,
		Similar: payload.SimilarItemsFound,
		Errors:  payload.Errors,
	}
	seen := make(map[string]struct{}, len(payload.Updated)+len(payload.Added))
	for _, update := range payload.Updated {
		seen[foldName(update.Name)] = struct{}{}
	}
	for _, added := range payload.Added {
		key := foldName(added.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result.Added = append(result.Added, added)
	}
	for _, removed := range payload.Removed {
		key := foldName(removed.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result.Removed = append(result.Removed, removed)
	}
	return result
}

// decodeTolerant parses a success body, degrading to an empty result when
// the shape is unexpected. Optional-field anomalies must never fail the
// whole submission.
func decodeTolerant(raw []byte, c *Client) uploadResponse {
	var payload uploadResponse
	if len(bytes.TrimSpace(raw)) == 0 {
		return payload
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("upload response had an unexpected shape, treating as empty",
			logging.Error(err))
		return uploadResponse{}
	}
	return payload
}
