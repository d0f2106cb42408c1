package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/JonMunkholm/cleanmind/internal/core"
	"github.com/go-playground/validator/v10"
)

// Datasets exposes the typed dataset endpoints of the cleaning backend.
type Datasets struct {
	client   *Client
	validate *validator.Validate
}

// NewDatasets wraps client with the dataset endpoints.
func NewDatasets(client *Client) *Datasets {
	return &Datasets{
		client:   client,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Upload registers a file and returns the server-assigned dataset id.
// The file is streamed as the multipart form field "file".
func (d *Datasets) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	pr, pw := io.Pipe()
	defer pr.Close()

	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	res, err := d.client.Request(ctx, "/datasets/upload", Options{
		Method:      http.MethodPost,
		Body:        pr,
		ContentType: form.FormDataContentType(),
	})
	if err != nil {
		return "", err
	}

	var out core.UploadResponse
	if err := d.decode(res, &out); err != nil {
		return "", err
	}
	return out.DatasetID, nil
}

// Profile fetches the structural profile of a dataset.
func (d *Datasets) Profile(ctx context.Context, datasetID string) (*core.DatasetProfile, error) {
	res, err := d.client.Request(ctx, datasetPath(datasetID, "profile"), Options{})
	if err != nil {
		return nil, err
	}

	var out core.DatasetProfile
	if err := d.decode(res, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Quality fetches the quality report of a dataset.
func (d *Datasets) Quality(ctx context.Context, datasetID string) (*core.QualityReport, error) {
	res, err := d.client.Request(ctx, datasetPath(datasetID, "quality_score"), Options{})
	if err != nil {
		return nil, err
	}

	var out core.QualityReport
	if err := d.decode(res, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Clean runs the cleaning pipeline on a dataset. A nil opts sends no body
// and leaves the backend defaults in place.
func (d *Datasets) Clean(ctx context.Context, datasetID string, opts *core.CleaningOptions) (*core.CleaningResult, error) {
	reqOpts := Options{Method: http.MethodPost}
	if opts != nil {
		if err := d.validate.Struct(opts); err != nil {
			return nil, &core.RequestError{Message: "Request failed: invalid cleaning options", Err: err}
		}
		reqOpts.JSON = opts
	}

	res, err := d.client.Request(ctx, datasetPath(datasetID, "clean"), reqOpts)
	if err != nil {
		return nil, err
	}

	var out core.CleaningResult
	if err := d.decode(res, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download opens the download stream of a dataset. The caller closes the
// returned response body.
func (d *Datasets) Download(ctx context.Context, datasetID string) (*http.Response, error) {
	res, err := d.client.Request(ctx, datasetPath(datasetID, "download"), Options{})
	if err != nil {
		return nil, err
	}
	if res.Response == nil {
		return nil, &core.RequestError{Status: res.Status, Message: "Request failed: expected a file, got JSON"}
	}
	return res.Response, nil
}

// DownloadURL returns the absolute download URL of a dataset.
func (d *Datasets) DownloadURL(datasetID string) string {
	return d.client.URL(datasetPath(datasetID, "download"))
}

func datasetPath(datasetID, action string) string {
	return "/datasets/" + url.PathEscape(datasetID) + "/" + action
}

// decode unmarshals a JSON result into out and validates it. Payloads that
// fail either step are request failures and must not reach session state.
func (d *Datasets) decode(res *Result, out any) error {
	if res.Response != nil {
		res.Response.Body.Close()
		return &core.RequestError{Status: res.Status, Message: "Request failed: expected a JSON response"}
	}

	if err := json.Unmarshal(res.JSON, out); err != nil {
		return &core.RequestError{
			Status:  res.Status,
			Message: fmt.Sprintf("Request failed: invalid response body: %v", err),
			Err:     err,
		}
	}

	if err := d.validate.Struct(out); err != nil {
		return &core.RequestError{
			Status:  res.Status,
			Message: fmt.Sprintf("invalid response: %v", err),
			Err:     err,
		}
	}
	return nil
}
