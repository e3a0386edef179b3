package api

import (
	"context"
	"net/url"

	"github.com/nhle/applicant-board/internal/model"
)

// ListResult holds one page of applicants returned by the store.
type ListResult struct {
	Applicants []model.Applicant `json:"applicants"`
	Total      int               `json:"total"`
}

// jobsResponse is the envelope for the jobs listing.
type jobsResponse struct {
	Jobs []model.Job `json:"jobs"`
}

type stageRequest struct {
	Stage model.StageID `json:"stage"`
}

type bulkStageRequest struct {
	ApplicantIDs []string      `json:"applicantIds"`
	Stage        model.StageID `json:"stage"`
}

type noteRequest struct {
	Content string `json:"content"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// bookmarkResponse reports the bookmark state after a toggle.
type bookmarkResponse struct {
	IsBookmarked bool `json:"is_bookmarked"`
}

// ListApplicants fetches the applicant collection matching the given query
// parameters. The server performs the actual filtering; params is typically
// produced by board.FilterSpec.
func (c *Client) ListApplicants(ctx context.Context, params url.Values) (*ListResult, error) {
	path := "/applicants"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result ListResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetApplicant fetches a single applicant by id.
func (c *Client) GetApplicant(ctx context.Context, id string) (*model.Applicant, error) {
	var a model.Applicant
	if err := c.get(ctx, "/applicants/"+url.PathEscape(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateStage moves a single applicant to the target stage.
func (c *Client) UpdateStage(ctx context.Context, id string, stage model.StageID) error {
	path := "/applicants/" + url.PathEscape(id) + "/stage"
	return c.put(ctx, path, stageRequest{Stage: stage}, nil)
}

// BulkUpdateStage moves every applicant in ids to the target stage with a
// single request.
func (c *Client) BulkUpdateStage(ctx context.Context, ids []string, stage model.StageID) error {
	body := bulkStageRequest{ApplicantIDs: ids, Stage: stage}
	return c.put(ctx, "/applicants/bulk/stage", body, nil)
}

// AddNote appends a note to an applicant. The server assigns the note id,
// author, and timestamp.
func (c *Client) AddNote(ctx context.Context, id, content string) error {
	path := "/applicants/" + url.PathEscape(id) + "/notes"
	return c.post(ctx, path, noteRequest{Content: content}, nil)
}

// UpdateRating sets the star rating for an applicant.
func (c *Client) UpdateRating(ctx context.Context, id string, rating int) error {
	path := "/applicants/" + url.PathEscape(id) + "/rating"
	return c.put(ctx, path, ratingRequest{Rating: rating}, nil)
}

// ToggleBookmark flips the bookmark flag for an applicant and returns the
// new state.
func (c *Client) ToggleBookmark(ctx context.Context, id string) (bool, error) {
	path := "/applicants/" + url.PathEscape(id) + "/bookmark"
	var resp bookmarkResponse
	if err := c.post(ctx, path, nil, &resp); err != nil {
		return false, err
	}
	return resp.IsBookmarked, nil
}

// Reject moves an applicant to the terminal rejected stage with a reason.
func (c *Client) Reject(ctx context.Context, id, reason string) error {
	path := "/applicants/" + url.PathEscape(id) + "/reject"
	return c.post(ctx, path, rejectRequest{Reason: reason}, nil)
}

// ListJobs fetches the job openings offered as filter options.
func (c *Client) ListJobs(ctx context.Context) ([]model.Job, error) {
	var resp jobsResponse
	if err := c.get(ctx, "/jobs", &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}
