package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

// UploadOptions tunes a multipart upload.
type UploadOptions struct {
	// Field is the form field of the file part; "file" when empty.
	Field string
	// Fields are extra form values sent alongside the file.
	Fields map[string]string
	// OnProgress receives the integer percentage of the body sent so far,
	// once per change, ending with 100.
	OnProgress func(percent int)
}

// Upload sends r as a multipart file part to path and decodes the response into out.
func (c *Client) Upload(ctx context.Context, urlPath, filename string, r io.Reader, opts UploadOptions, out any) error {
	field := strings.TrimSpace(opts.Field)
	if field == "" {
		field = "file"
	}
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range opts.Fields {
		if err := writer.WriteField(k, v); err != nil {
			return fmt.Errorf("write form field: %w", err)
		}
	}
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return err
	}

	total := int64(body.Len())
	var reader io.Reader = bytes.NewReader(body.Bytes())
	if opts.OnProgress != nil {
		reader = &progressReader{r: reader, total: total, report: opts.OnProgress, last: -1}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(urlPath), reader)
	if err != nil {
		return err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.roundTrip(ctx, req, urlPath, MsgUploadFailed)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeBody(resp, out)
}

// Download fetches path and saves the body under filename (or the server's
// Content-Disposition name). It returns where the file was saved.
func (c *Client) Download(ctx context.Context, urlPath, filename string) (string, error) {
	if c.saver == nil {
		return "", errors.New("download: no file saver configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(urlPath), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.roundTrip(ctx, req, urlPath, MsgDownloadFailed)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	name := strings.TrimSpace(filename)
	if name == "" {
		name = dispositionFilename(resp.Header.Get("Content-Disposition"))
	}
	if name == "" {
		name = path.Base(req.URL.Path)
	}
	saved, err := c.saver.Save(name, resp.Body)
	if err != nil {
		return "", fmt.Errorf("save download: %w", err)
	}
	c.logger.Info("file downloaded", "path", urlPath, "saved", saved)
	return saved, nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

type progressReader struct {
	r      io.Reader
	total  int64
	loaded int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.loaded += int64(n)
		percent := int(math.Round(float64(p.loaded) * 100 / float64(p.total)))
		if percent != p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}
